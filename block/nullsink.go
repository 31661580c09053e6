package block

import (
	"context"
	"fmt"
)

// NullSinkBlock discards every item posted to it, optionally reporting each
// discard to onDiscard first. It backs a container's "route to null" branch
// (§4.6/§4.7): items that matched no condition end up here, whether
// LinkLeftToNull was given a custom onOutputToNull or uses the default
// garbage recording.
type NullSinkBlock[T any] struct {
	blockCore
	onDiscard func(T)
}

// NewNullSinkBlock builds a sink that calls onDiscard (if non-nil) for every
// item it receives, then drops it. The sink never blocks: Post always
// succeeds immediately unless the sink has already completed or faulted.
func NewNullSinkBlock[T any](name string, onDiscard func(T)) *NullSinkBlock[T] {
	n := &NullSinkBlock[T]{
		blockCore: newCore(name),
		onDiscard: onDiscard,
	}
	return n
}

func (n *NullSinkBlock[T]) Post(ctx context.Context, item T) error {
	select {
	case <-n.Completion().Done():
		return fmt.Errorf("block %q: post after completion", n.name)
	default:
	}
	if n.onDiscard != nil {
		n.onDiscard(item)
	}
	return nil
}

func (n *NullSinkBlock[T]) TryPost(item T) bool {
	select {
	case <-n.Completion().Done():
		return false
	default:
	}
	if n.onDiscard != nil {
		n.onDiscard(item)
	}
	return true
}

// BufferedCount is always zero: nothing is ever queued.
func (n *NullSinkBlock[T]) BufferedCount() int { return 0 }

func (n *NullSinkBlock[T]) Complete() {
	n.completer.Succeed(struct{}{})
}

func (n *NullSinkBlock[T]) Fault(err error) {
	n.fault(err)
}
