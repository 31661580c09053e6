package block

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowcompose/dataflow/config"
)

// TransformFunc maps an input item to an output item. Returning a non-nil
// error is an originating failure: the block faults and the error surfaces
// through its Completion future for the container's completion wrapper to
// classify (§4.2).
type TransformFunc[TIn, TOut any] func(ctx context.Context, item TIn) (TOut, error)

// TransformBlock applies fn to each posted item, with up to
// BlockOptions.DegreeOfParallelism concurrent workers, and makes results
// available via Out(). It is the block typed single-input-single-output
// containers expose as both InputBlock and OutputBlock (§4.6), and the body
// of the broadcaster's fan-out transform (§4.9).
type TransformBlock[TIn, TOut any] struct {
	blockCore
	in        chan TIn
	out       chan TOut
	fn        TransformFunc[TIn, TOut]
	wg        sync.WaitGroup
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewTransformBlock starts the configured number of workers immediately;
// they run until the input channel is closed (via Complete) or faulted.
func NewTransformBlock[TIn, TOut any](name string, fn TransformFunc[TIn, TOut], opts config.BlockOptions) *TransformBlock[TIn, TOut] {
	ctx, cancel := context.WithCancel(context.Background())
	degree := opts.DegreeOfParallelism
	if degree < 1 {
		degree = 1
	}

	t := &TransformBlock[TIn, TOut]{
		blockCore: newCore(name),
		in:        make(chan TIn, opts.BoundedCapacity),
		out:       make(chan TOut, opts.BoundedCapacity),
		fn:        fn,
		ctx:       ctx,
		cancel:    cancel,
	}

	t.wg.Add(degree)
	for i := 0; i < degree; i++ {
		go t.worker()
	}
	go t.await()

	return t
}

func (t *TransformBlock[TIn, TOut]) worker() {
	defer t.wg.Done()
	for {
		select {
		case <-t.ctx.Done():
			return
		case item, ok := <-t.in:
			if !ok {
				return
			}

			result, err := t.fn(t.ctx, item)
			if err != nil {
				if t.fault(err) {
					t.cancel()
				}
				return
			}

			select {
			case t.out <- result:
			case <-t.ctx.Done():
				return
			}
		}
	}
}

func (t *TransformBlock[TIn, TOut]) await() {
	t.wg.Wait()
	close(t.out)
	t.cancel()
	if !t.isFaulted() {
		t.completer.Succeed(struct{}{})
	}
}

// Post blocks until accepted, ctx is done, or the block has completed or
// faulted.
func (t *TransformBlock[TIn, TOut]) Post(ctx context.Context, item TIn) (err error) {
	// Complete and Fault close the input channel; a send racing with that
	// close panics, which is reported as the same post-after-completion error.
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("block %q: post after completion", t.name)
		}
	}()
	select {
	case t.in <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.Completion().Done():
		return fmt.Errorf("block %q: post after completion", t.name)
	}
}

// TryPost attempts a non-blocking send.
func (t *TransformBlock[TIn, TOut]) TryPost(item TIn) bool {
	select {
	case t.in <- item:
		return true
	default:
		return false
	}
}

// Out exposes the block's result channel.
func (t *TransformBlock[TIn, TOut]) Out() <-chan TOut {
	return t.out
}

// BufferedCount sums items queued on input and produced but not yet read
// downstream.
func (t *TransformBlock[TIn, TOut]) BufferedCount() int {
	return len(t.in) + len(t.out)
}

// Complete closes the input channel; queued items still drain through fn
// before Completion resolves.
func (t *TransformBlock[TIn, TOut]) Complete() {
	t.closeOnce.Do(func() { close(t.in) })
}

// Fault resolves Completion as failed and stops all workers. The faulted bit
// must land before cancel wakes await's workers, or await's post-wg.Wait()
// isFaulted check could race and report a false success.
func (t *TransformBlock[TIn, TOut]) Fault(err error) {
	if !t.fault(err) {
		return
	}
	t.closeOnce.Do(func() { close(t.in) })
	t.cancel()
}
