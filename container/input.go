package container

import (
	"context"

	"github.com/flowcompose/dataflow/block"
	"github.com/flowcompose/dataflow/config"
	"github.com/flowcompose/dataflow/observability"
)

// Container1 is a single-input container (§4.5): it owns a public ingress
// block and nothing else. Embedders compose it with their own processing
// blocks, registering them on the embedded Base.
type Container1[TIn any] struct {
	*Base
	InputBlock block.Target[TIn]
}

// NewContainer1 builds a Container1 around inputBlock, which is registered
// as the container's first child.
func NewContainer1[TIn any](name string, opts config.ContainerOptions, inputBlock block.Target[TIn]) *Container1[TIn] {
	c := &Container1[TIn]{
		Base:       NewBase(name, opts),
		InputBlock: inputBlock,
	}
	_ = c.Base.registerBlock(inputBlock, nil)
	return c
}

// PullFrom consumes items until seq is exhausted, posting each to
// InputBlock via a blocking Post (§4.5's safePost: Post already blocks on
// backpressure and only returns once the item is accepted, ctx is done, or
// the block has completed — satisfying "eventually deliver every item for
// any finite, not-faulted pipeline" without a separate retry loop). Returns
// the first post error encountered, if any. Does not complete InputBlock.
func (c *Container1[TIn]) PullFrom(ctx context.Context, seq []TIn) error {
	for _, item := range seq {
		if err := c.InputBlock.Post(ctx, item); err != nil {
			return err
		}
	}
	c.Base.emit(ctx, EventPullCompleted, observability.LevelInfo, map[string]any{"count": len(seq)})
	return nil
}

// LinkFrom links an external source block to target using
// config.DefaultLinkOptions() (PropagateCompletion: true — the framework's
// m_defaultLinkOption for intra-container edges, §6), so that the source's
// completion closes target directly. This is the plain intra-container-style
// edge, distinct from the inter-container protocol of §4.8 (LinkContainers),
// which always runs with PropagateCompletion effectively false: completion
// is driven by the link bridge's own fault/cancel checks instead.
func LinkFrom[T any](source block.Source[T], target block.Target[T]) {
	opts := config.DefaultLinkOptions()
	go func() {
		for item := range source.Out() {
			_ = target.Post(context.Background(), item)
		}
		if !opts.PropagateCompletion {
			return
		}
		<-source.Completion().Done()
		if err := source.Completion().Err(); err != nil {
			target.Fault(err)
		} else if source.Completion().Canceled() {
			target.Fault(context.Canceled)
		} else {
			target.Complete()
		}
	}()
}
