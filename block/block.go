// Package block implements the small set of asynchronous message-processing
// primitives the container package composes: a buffer, a transform, an
// action (terminal sink), and a null sink. Each is a typed, completable,
// backpressured channel wrapper with Complete, Fault, and a completion
// future, matching the "assumed to exist" contract of spec.md §1.
//
// None of these primitives know about containers, conditional routing, or
// sibling fault propagation — that composition lives entirely in the
// container package, which only depends on the Block, Source, and Target
// contracts below.
package block

import (
	"context"
	"sync/atomic"

	"github.com/flowcompose/dataflow/future"
)

// Block is the common surface every primitive in this package implements.
type Block interface {
	// Name is a human-readable identifier used in logging.
	Name() string

	// Completion resolves once the block has stopped, either successfully,
	// with an error, or canceled.
	Completion() *future.Future[struct{}]

	// Complete signals that no further items will be posted. For
	// TransformBlock and ActionBlock, already queued items still drain
	// through the body before Completion resolves. BufferBlock and
	// NullSinkBlock resolve Completion at once; a BufferBlock's queued items
	// stay readable from Out() after that.
	Complete()

	// Fault transitions the block to a faulted terminal state immediately.
	// Queued input is no longer processed; items already on a BufferBlock's
	// or TransformBlock's Out() channel stay readable.
	Fault(err error)

	// BufferedCount is the number of items currently queued inside the
	// block (not yet delivered downstream).
	BufferedCount() int
}

// Source is a Block that produces items of type T for downstream consumers.
type Source[T any] interface {
	Block
	Out() <-chan T
}

// Target is a Block that accepts items of type T.
type Target[T any] interface {
	Block
	// Post blocks until the item is accepted, ctx is done, or the block is
	// already complete/faulted.
	Post(ctx context.Context, item T) error
	// TryPost attempts a non-blocking send, returning false if the block's
	// input is currently full.
	TryPost(item T) bool
}

// blockCore implements the Name/Completion/Fault bookkeeping shared by all
// primitives in this package.
type blockCore struct {
	name      string
	future    *future.Future[struct{}]
	completer *future.Completer[struct{}]
	faulted   atomic.Bool
}

func newCore(name string) blockCore {
	f, c := future.New[struct{}]()
	return blockCore{name: name, future: f, completer: c}
}

func (b *blockCore) Name() string { return b.name }

func (b *blockCore) Completion() *future.Future[struct{}] { return b.future }

// fault resolves the block's completion as failed, exactly once across the
// block's lifetime (a later Succeed from the drain path is a no-op once
// this has fired, and vice versa — the completer itself is single-shot).
func (b *blockCore) fault(err error) bool {
	if b.faulted.CompareAndSwap(false, true) {
		b.completer.Fail(err)
		return true
	}
	return false
}

func (b *blockCore) isFaulted() bool {
	return b.faulted.Load()
}
