package container

import (
	"context"
	"time"

	"github.com/flowcompose/dataflow/faults"
	"github.com/flowcompose/dataflow/future"
	"github.com/flowcompose/dataflow/observability"
)

// wrapCompletion builds the wrapped future described in §4.2: it observes
// raw until it resolves, classifies the outcome, optionally invokes
// onSuccess, and calls onFault exactly when the outcome is an originating
// failure or a cancellation. onFault is expected to be the owning
// container's Fault method (or a no-op for a container that is not yet
// fully constructed, which never happens in practice since registration
// always happens after the container itself exists).
func wrapCompletion(raw *future.Future[struct{}], unitName string, onSuccess func() error, onFault func(error), obs observability.Observer) *future.Future[struct{}] {
	wrapped, completer := future.New[struct{}]()

	go func() {
		<-raw.Done()

		if raw.Canceled() {
			completer.Cancel()
			onFault(&faults.CanceledError{Container: unitName})
			return
		}

		if err := raw.Err(); err != nil {
			completer.Fail(err)
			if !faults.IsPropagated(err) {
				onFault(err)
			}
			return
		}

		if onSuccess != nil {
			if cbErr := onSuccess(); cbErr != nil {
				obs.OnEvent(context.Background(), observability.Event{
					Type:      EventCallbackFailed,
					Level:     observability.LevelError,
					Timestamp: time.Now(),
					Source:    unitName,
					Data:      map[string]any{"error": cbErr.Error()},
				})
				completer.Fail(cbErr)
				onFault(cbErr)
				return
			}
		}

		completer.Succeed(struct{}{})
	}()

	return wrapped
}
