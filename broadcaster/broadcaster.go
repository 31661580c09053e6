// Package broadcaster implements the exact-copy fan-out component (§4.9):
// every item posted to the broadcaster's input is delivered, in order, to
// its own primary output and to every additional attached target, with
// full backpressure — no item is ever dropped.
package broadcaster

import (
	"context"
	"strconv"
	"sync"

	"github.com/flowcompose/dataflow/block"
	"github.com/flowcompose/dataflow/config"
	"github.com/flowcompose/dataflow/container"
	"github.com/flowcompose/dataflow/faults"
)

// CopyFunc produces the copy of an item that is sent to the additional
// targets: one copy is made per item and shared by all of them, while the
// primary output receives the original. A nil CopyFunc means every target
// (including the primary output) observes the same value.
type CopyFunc[T any] func(item T) T

// Broadcaster is a T→T container whose internal transform block sends a
// copy of each item to every attached buffer before letting the original
// item continue to the primary output.
type Broadcaster[T any] struct {
	*container.Container2[T, T]

	x        *block.TransformBlock[T, T]
	copyFunc CopyFunc[T]

	targetsMu sync.RWMutex
	targets   []block.Target[T]

	attachMu sync.Mutex
	attached int
}

// New builds a Broadcaster. blockOpts configures the internal transform
// block X; the buffers created for non-primary attachments use
// config.DefaultBlockOptions().
func New[T any](name string, opts config.ContainerOptions, copyFunc CopyFunc[T], blockOpts config.BlockOptions) *Broadcaster[T] {
	b := &Broadcaster[T]{copyFunc: copyFunc}

	b.x = block.NewTransformBlock[T, T](name+"-X", b.body, blockOpts)
	b.Container2 = container.NewContainer2[T, T](name, opts, b.x, b.x)

	return b
}

func (b *Broadcaster[T]) body(ctx context.Context, item T) (T, error) {
	itemCopy := item
	if b.copyFunc != nil {
		itemCopy = b.copyFunc(item)
	}

	b.targetsMu.RLock()
	targets := b.targets
	b.targetsMu.RUnlock()

	for _, target := range targets {
		if err := target.Post(ctx, itemCopy); err != nil {
			var zero T
			return zero, err
		}
	}

	return item, nil
}

// GoTo attaches a downstream target. The first call installs the primary
// output via the normal conditional-routing edge (always-true predicate,
// §4.6); every later call creates a new "BufferN" child that receives a
// copy of each item from the transform body and is linked to target
// through the standard inter-container protocol (§4.8). Predicate linking
// is explicitly unsupported: requirePredicate must be nil.
func (b *Broadcaster[T]) GoTo(target container.Container, targetInput block.Target[T], requirePredicate *container.Predicate[T]) error {
	if requirePredicate != nil {
		return &faults.IllegalArgumentError{Container: b.Name(), Reason: "predicate linking unsupported on broadcaster"}
	}

	b.attachMu.Lock()
	b.attached++
	n := b.attached
	b.attachMu.Unlock()

	if n == 1 {
		b.Container2.LinkTo(target, targetInput)
		return nil
	}

	k := n - 1
	buf := block.NewBufferBlock[T]("Buffer"+strconv.Itoa(k), config.DefaultBlockOptions())
	if err := b.RegisterBlock(buf, nil); err != nil {
		return err
	}

	b.targetsMu.Lock()
	b.targets = append(b.targets, buf)
	b.targetsMu.Unlock()

	propagateCompletion(b.x, buf)
	container.LinkContainers[T](buf, b.Container2, targetInput, target)
	b.Container2.EmitLinkAttached(target.Name())

	return nil
}

// propagateCompletion completes or faults target as soon as source's own
// completion resolves, mirroring the dependency the broadcaster's extra
// buffers have on X: a buffer's aggregated role in the container's own
// completion must not resolve until it has drained everything X sent it,
// which can only happen after X itself has stopped sending.
func propagateCompletion(source, target block.Block) {
	go func() {
		<-source.Completion().Done()
		switch {
		case source.Completion().Err() != nil:
			target.Fault(source.Completion().Err())
		case source.Completion().Canceled():
			target.Fault(context.Canceled)
		default:
			target.Complete()
		}
	}()
}
