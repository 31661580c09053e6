// Package future provides a minimal completable future: a value that
// resolves exactly once, either to a result, an error, or cancellation.
// It is the primitive the block and container packages build completion
// semantics on top of.
package future

import (
	"context"
	"sync"
)

// Future represents a result that becomes available at some point. It
// resolves exactly once; subsequent resolution attempts are no-ops.
type Future[T any] struct {
	done     chan struct{}
	once     sync.Once
	value    T
	err      error
	canceled bool
}

// Completer resolves the Future it was created alongside. It is the only
// way to resolve a Future — callers receive the Future for observation and
// the Completer for resolution, keeping the two capabilities separate.
type Completer[T any] struct {
	f *Future[T]
}

// New creates an unresolved Future and its Completer.
func New[T any]() (*Future[T], *Completer[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return f, &Completer[T]{f: f}
}

// Succeed resolves the future with a value. Idempotent: only the first call
// (across Succeed/Fail/Cancel) has an effect.
func (c *Completer[T]) Succeed(value T) {
	c.f.once.Do(func() {
		c.f.value = value
		close(c.f.done)
	})
}

// Fail resolves the future with an error. err must not be nil.
func (c *Completer[T]) Fail(err error) {
	c.f.once.Do(func() {
		c.f.err = err
		close(c.f.done)
	})
}

// Cancel resolves the future as canceled.
func (c *Completer[T]) Cancel() {
	c.f.once.Do(func() {
		c.f.canceled = true
		close(c.f.done)
	})
}

// Done returns a channel closed once the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future has resolved without blocking.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Canceled reports whether the future resolved as canceled. Only valid
// after Done() is closed.
func (f *Future[T]) Canceled() bool {
	return f.canceled
}

// Err returns the resolution error, or nil on success or cancellation. Only
// valid after Done() is closed.
func (f *Future[T]) Err() error {
	return f.err
}

// Result returns the resolved value and error. Only valid after Done() is
// closed; callers should select on Done() or use Wait beforehand.
func (f *Future[T]) Result() (T, error) {
	return f.value, f.err
}

// Wait blocks until the future resolves or ctx is done, whichever comes
// first. On context cancellation it returns ctx.Err() without resolving the
// future itself — the future may still resolve later from its own source.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
