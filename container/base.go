package container

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/flowcompose/dataflow/block"
	"github.com/flowcompose/dataflow/config"
	"github.com/flowcompose/dataflow/faults"
	"github.com/flowcompose/dataflow/future"
	"github.com/flowcompose/dataflow/observability"
)

// Container is the minimal surface the link protocol (§4.8) and the fault
// protocol (§4.4) operate against. Typed variants (Container1, Container2)
// embed Base and add their own input/output surface on top.
type Container interface {
	Name() string
	BufferedCount() int
	Blocks() []block.Block
	CompletionTask() *future.Future[struct{}]
	Fault(err error)
	Emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any)
}

// Base implements the container lifecycle: naming, child registration,
// aggregated completion (§4.3), and fault propagation (§4.4). It has no
// input or output of its own: the typed variants embed it, and it can also
// be used on its own as a container whose children are added through
// RegisterBlock and RegisterContainer.
type Base struct {
	name     string
	id       string
	opts     config.ContainerOptions
	observer observability.Observer

	children atomic.Pointer[[]Child]

	completionOnce sync.Once
	completion     *future.Future[struct{}]
	completer      *future.Completer[struct{}]

	faulted    atomic.Bool
	registered map[block.Block]bool
	regMu      sync.Mutex

	// CleanUpFunc runs exactly once, after the aggregated completion
	// converges and before it is published. Nil means no-op.
	CleanUpFunc func() error
}

// NewBase constructs a Base with the given display name and options. typed
// container constructors call this with a name derived from NextName.
func NewBase(name string, opts config.ContainerOptions) *Base {
	observer, err := observability.GetObserver(opts.Observer)
	if err != nil {
		observer = observability.NoOpObserver{}
	}

	b := &Base{
		name:       name,
		id:         uuid.New().String(),
		opts:       opts,
		observer:   observer,
		registered: make(map[block.Block]bool),
	}
	b.completion, b.completer = future.New[struct{}]()

	empty := []Child{}
	b.children.Store(&empty)

	if opts.ContainerMonitorEnabled || opts.BlockMonitorEnabled {
		go b.monitorLoop()
	}

	return b
}

func (b *Base) Name() string { return b.name }

// ID returns the container's process-lifetime-unique instance identifier, so
// observability events from the same container can be correlated even when
// two containers share a friendly name.
func (b *Base) ID() string { return b.id }

// emit stamps an event with this container's name and instance id, then
// forwards it to the configured observer.
func (b *Base) emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any) {
	data["container_id"] = b.id
	b.observer.OnEvent(ctx, observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    b.name,
		Data:      data,
	})
}

// Emit is the exported form of emit, used by cross-container protocols (the
// inter-container link bridge, §4.8) that only hold a Container interface
// and so cannot reach the unexported method directly.
func (b *Base) Emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any) {
	b.emit(ctx, eventType, level, data)
}

// snapshot returns the current children slice. Callers must not mutate it.
func (b *Base) snapshot() []Child {
	return *b.children.Load()
}

// registerChild appends child to the children list using a compare-and-swap
// retry loop, preserving append-only, referentially-comparable snapshots
// (I1).
func (b *Base) registerChild(c Child) {
	for {
		old := b.children.Load()
		next := make([]Child, len(*old)+1)
		copy(next, *old)
		next[len(*old)] = c
		if b.children.CompareAndSwap(old, &next) {
			return
		}
	}
}

// RegisterBlock is the exported form of registerBlock, for callers outside
// this package that dynamically grow a container's children after
// construction (the broadcaster's per-target buffers, §4.9).
func (b *Base) RegisterBlock(blk block.Block, onSuccess func() error) error {
	return b.registerBlock(blk, onSuccess)
}

// RegisterContainer is the exported form of registerContainer.
func (b *Base) RegisterContainer(child Container, onSuccess func() error) error {
	return b.registerContainer(child, onSuccess)
}

// registerBlock validates, wraps, and appends a block child (§4.1).
func (b *Base) registerBlock(blk block.Block, onSuccess func() error) error {
	if blk == nil {
		return &faults.IllegalArgumentError{Container: b.name, Reason: "nil"}
	}

	b.regMu.Lock()
	if b.registered[blk] {
		b.regMu.Unlock()
		return &faults.IllegalArgumentError{Container: b.name, Reason: "duplicate"}
	}
	b.registered[blk] = true
	b.regMu.Unlock()

	wrapped := wrapCompletion(blk.Completion(), blk.Name(), onSuccess, b.Fault, b.observer)
	b.registerChild(&blockChild{blk: blk, wrapped: wrapped})
	return nil
}

// registerContainer wraps and appends a nested-container child. Duplicate
// detection across nested containers is not required (§4.1).
func (b *Base) registerContainer(child Container, onSuccess func() error) error {
	if child == nil {
		return &faults.IllegalArgumentError{Container: b.name, Reason: "nil"}
	}

	wrapped := wrapCompletion(child.CompletionTask(), child.Name(), onSuccess, b.Fault, b.observer)
	b.registerChild(&containerChild{child: child, wrapped: wrapped})
	return nil
}

// Blocks flattens every child down to its underlying blocks, in
// registration order.
func (b *Base) Blocks() []block.Block {
	snap := b.snapshot()
	var out []block.Block
	for _, c := range snap {
		out = append(out, c.Blocks()...)
	}
	return out
}

// BufferedCount sums each child's BufferedCount.
func (b *Base) BufferedCount() int {
	snap := b.snapshot()
	total := 0
	for _, c := range snap {
		total += c.BufferedCount()
	}
	return total
}

// CompletionTask returns the aggregated completion future, computing it
// exactly once across the container's lifetime (lazy, memoized, I3/I4).
func (b *Base) CompletionTask() *future.Future[struct{}] {
	b.completionOnce.Do(func() {
		go b.aggregate()
	})
	return b.completion
}

// aggregate implements the §4.3 loop: snapshot, await every child, re-check
// for growth, repeat; then CleanUp once; then publish the result.
func (b *Base) aggregate() {
	snap := b.snapshot()
	if len(snap) == 0 {
		b.completer.Fail(&faults.NoChildRegisteredError{Container: b.name})
		return
	}

	for {
		for _, c := range snap {
			<-c.WrappedCompletion().Done()
		}

		current := b.snapshot()
		if len(current) == len(snap) {
			break
		}
		snap = current
	}

	var originating error
	canceled := false
	for _, c := range snap {
		wc := c.WrappedCompletion()
		if wc.Canceled() {
			canceled = true
			continue
		}
		if err := wc.Err(); err != nil {
			if originating == nil || faults.IsPropagated(originating) {
				originating = err
			}
		}
	}

	if b.CleanUpFunc != nil {
		if err := b.CleanUpFunc(); err != nil {
			b.emit(context.Background(), EventCleanupFailed, observability.LevelError, map[string]any{"error": err.Error()})
		}
	}

	switch {
	case originating != nil:
		b.completer.Fail(originating)
	case canceled:
		b.completer.Cancel()
	default:
		b.completer.Succeed(struct{}{})
	}
}

// Fault implements the §4.4 protocol: every underlying block not yet
// terminal is transitioned per the classification table. Idempotent across
// the container's lifetime — only the first call has effect, satisfying
// "exactly one Fault invocation per originating incident" (T5).
func (b *Base) Fault(cause error) {
	if !b.faulted.CompareAndSwap(false, true) {
		return
	}

	b.emit(context.Background(), EventFault, observability.LevelError, map[string]any{"cause": cause.Error()})

	for _, blk := range b.Blocks() {
		select {
		case <-blk.Completion().Done():
			continue
		default:
		}
		blk.Fault(classify(b.name, blk.Name(), cause))
	}
}

// classify implements the §4.4 table mapping an incoming fault cause to the
// error a sibling block is faulted with.
func classify(containerName, unitName string, cause error) error {
	if faults.IsPropagated(cause) {
		return cause
	}
	if _, ok := cause.(*faults.CanceledError); ok {
		return &faults.SiblingUnitCanceledError{Container: containerName, Unit: unitName}
	}
	return &faults.SiblingUnitFailedError{Container: containerName, Unit: unitName}
}

func (b *Base) monitorLoop() {
	interval := b.opts.MonitorInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done := b.completion.Done()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			b.logOnce()
		}
	}
}

func (b *Base) logOnce() {
	ctx := context.Background()
	verbose := b.opts.PerformanceMonitorMode == config.ModeVerbose

	if b.opts.ContainerMonitorEnabled {
		count := b.BufferedCount()
		if count > 0 || verbose {
			b.emit(ctx, EventMonitorContainer, observability.LevelVerbose, map[string]any{"buffered_count": count})
		}
	}
	if b.opts.BlockMonitorEnabled {
		for _, blk := range b.Blocks() {
			count := blk.BufferedCount()
			if count > 0 || verbose {
				b.emit(ctx, EventMonitorBlock, observability.LevelVerbose, map[string]any{"block": blk.Name(),
					"buffered_count": count,
				})
			}
		}
	}
}
