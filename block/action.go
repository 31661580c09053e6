package block

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowcompose/dataflow/config"
)

// ActionFunc consumes an item with a side effect. A non-nil error is an
// originating failure, identical in treatment to TransformFunc's.
type ActionFunc[T any] func(ctx context.Context, item T) error

// ActionBlock is a terminal sink: it applies fn to each posted item and
// produces no output. The container package does not create ActionBlocks
// itself (its link edges are TransformBlocks and its null branch is a
// NullSinkBlock); callers register them as children like any other block.
type ActionBlock[T any] struct {
	blockCore
	in        chan T
	fn        ActionFunc[T]
	wg        sync.WaitGroup
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewActionBlock[T any](name string, fn ActionFunc[T], opts config.BlockOptions) *ActionBlock[T] {
	ctx, cancel := context.WithCancel(context.Background())
	degree := opts.DegreeOfParallelism
	if degree < 1 {
		degree = 1
	}

	a := &ActionBlock[T]{
		blockCore: newCore(name),
		in:        make(chan T, opts.BoundedCapacity),
		fn:        fn,
		ctx:       ctx,
		cancel:    cancel,
	}

	a.wg.Add(degree)
	for i := 0; i < degree; i++ {
		go a.worker()
	}
	go a.await()

	return a
}

func (a *ActionBlock[T]) worker() {
	defer a.wg.Done()
	for {
		select {
		case <-a.ctx.Done():
			return
		case item, ok := <-a.in:
			if !ok {
				return
			}
			if err := a.fn(a.ctx, item); err != nil {
				if a.fault(err) {
					a.cancel()
				}
				return
			}
		}
	}
}

func (a *ActionBlock[T]) await() {
	a.wg.Wait()
	a.cancel()
	if !a.isFaulted() {
		a.completer.Succeed(struct{}{})
	}
}

func (a *ActionBlock[T]) Post(ctx context.Context, item T) (err error) {
	// Complete and Fault close the input channel; a send racing with that
	// close panics, which is reported as the same post-after-completion error.
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("block %q: post after completion", a.name)
		}
	}()
	select {
	case a.in <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-a.Completion().Done():
		return fmt.Errorf("block %q: post after completion", a.name)
	}
}

func (a *ActionBlock[T]) TryPost(item T) bool {
	select {
	case a.in <- item:
		return true
	default:
		return false
	}
}

func (a *ActionBlock[T]) BufferedCount() int {
	return len(a.in)
}

func (a *ActionBlock[T]) Complete() {
	a.closeOnce.Do(func() { close(a.in) })
}

// Fault resolves Completion as failed and stops all workers. The faulted bit
// must land before cancel wakes await's workers, or await's post-wg.Wait()
// isFaulted check could race and report a false success.
func (a *ActionBlock[T]) Fault(err error) {
	if !a.fault(err) {
		return
	}
	a.closeOnce.Do(func() { close(a.in) })
	a.cancel()
}
