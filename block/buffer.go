package block

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowcompose/dataflow/config"
)

// BufferBlock is a passthrough queue: whatever is posted to it is made
// available, unchanged, to a single downstream reader of Out(). It is the
// block typed single-input containers expose as InputBlock (§4.5).
type BufferBlock[T any] struct {
	blockCore
	ch        chan T
	closeOnce sync.Once
}

// NewBufferBlock creates a BufferBlock bounded by opts.BoundedCapacity. A
// capacity of 0 gives an unbuffered channel with synchronous handoff: Post
// waits until a reader takes the item. Callers wanting true queuing should
// set a positive capacity.
func NewBufferBlock[T any](name string, opts config.BlockOptions) *BufferBlock[T] {
	return &BufferBlock[T]{
		blockCore: newCore(name),
		ch:        make(chan T, opts.BoundedCapacity),
	}
}

// Post blocks until the item is queued, ctx is done, or the block has
// completed or faulted.
func (b *BufferBlock[T]) Post(ctx context.Context, item T) (err error) {
	// Complete and Fault close the channel; a send racing with that close
	// panics, which is reported as the same post-after-completion error.
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("block %q: post after completion", b.name)
		}
	}()
	select {
	case b.ch <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-b.Completion().Done():
		return fmt.Errorf("block %q: post after completion", b.name)
	}
}

// TryPost attempts a non-blocking send.
func (b *BufferBlock[T]) TryPost(item T) bool {
	select {
	case b.ch <- item:
		return true
	default:
		return false
	}
}

// Out exposes the block's single downstream channel.
func (b *BufferBlock[T]) Out() <-chan T {
	return b.ch
}

// BufferedCount is the number of items queued but not yet read by Out().
func (b *BufferBlock[T]) BufferedCount() int {
	return len(b.ch)
}

// Complete closes the block's channel, signaling downstream readers that no
// further items will arrive after those already queued.
func (b *BufferBlock[T]) Complete() {
	b.closeOnce.Do(func() { close(b.ch) })
	b.completer.Succeed(struct{}{})
}

// Fault closes the channel and resolves the block's completion as failed.
func (b *BufferBlock[T]) Fault(err error) {
	b.closeOnce.Do(func() { close(b.ch) })
	b.fault(err)
}
