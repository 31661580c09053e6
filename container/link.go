package container

import (
	"context"

	"github.com/flowcompose/dataflow/block"
	"github.com/flowcompose/dataflow/faults"
	"github.com/flowcompose/dataflow/observability"
)

// LinkContainers implements the §4.8 inter-container link protocol: it
// couples the block source, living inside container a, to target, the input
// block of container b, with non-propagating completion plus an explicit
// bidirectional fault/cancellation bridge. Used by Container2.LinkTo and by
// the broadcaster's non-primary target attachments.
func LinkContainers[T any](source block.Source[T], a Container, target block.Target[T], b Container) {
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for item := range source.Out() {
			_ = target.Post(context.Background(), item)
		}
	}()

	go func() {
		<-source.Completion().Done()
		<-a.CompletionTask().Done()

		select {
		case <-b.CompletionTask().Done():
			return
		default:
		}

		switch {
		case a.CompletionTask().Err() != nil:
			b.Emit(context.Background(), EventDownstreamFault, observability.LevelInfo, map[string]any{"source": a.Name(), "reason": "failed"})
			b.Fault(&faults.OtherContainerFailedError{From: a.Name(), To: b.Name()})
		case a.CompletionTask().Canceled():
			b.Emit(context.Background(), EventDownstreamFault, observability.LevelInfo, map[string]any{"source": a.Name(), "reason": "canceled"})
			b.Fault(&faults.OtherContainerCanceledError{From: a.Name(), To: b.Name()})
		default:
			// Every item already taken from source is posted before target
			// is closed.
			<-forwarded
			target.Complete()
		}
	}()

	go func() {
		<-b.CompletionTask().Done()

		select {
		case <-a.CompletionTask().Done():
			return
		default:
		}

		switch {
		case b.CompletionTask().Err() != nil:
			a.Emit(context.Background(), EventDownstreamFault, observability.LevelInfo, map[string]any{"source": b.Name(), "reason": "failed"})
			a.Fault(&faults.OtherContainerFailedError{From: b.Name(), To: a.Name()})
		case b.CompletionTask().Canceled():
			a.Emit(context.Background(), EventDownstreamFault, observability.LevelInfo, map[string]any{"source": b.Name(), "reason": "canceled"})
			a.Fault(&faults.OtherContainerCanceledError{From: b.Name(), To: a.Name()})
		}
	}()
}
