package container

import (
	"context"
	"reflect"
	"sync"

	"github.com/flowcompose/dataflow/block"
	"github.com/flowcompose/dataflow/config"
	"github.com/flowcompose/dataflow/observability"
)

// edgeEntry is one registered conditional-routing entry (§4.6/§4.7): a
// predicate and the block that receives items matching it. For LinkTo and
// TransformAndLink this target is a small per-edge transform block that
// this container owns and bridges to the real destination container via
// the inter-container link protocol (§4.8); for LinkLeftToNull it is a
// local null sink.
type edgeEntry[TOut any] struct {
	predicate Predicate[TOut]
	target    block.Target[TOut]
}

// Container2 is a single-input-single-output container (§4.6): it adds an
// OutputBlock and the conditional routing protocol on top of Container1.
type Container2[TIn, TOut any] struct {
	*Container1[TIn]
	OutputBlock block.Source[TOut]

	edgesMu sync.RWMutex
	edges   []edgeEntry[TOut]

	nullSink *block.NullSinkBlock[TOut]
	garbage  *GarbageRecorder

	dispatchOnce sync.Once
}

// NewContainer2 builds a Container2 around inputBlock and outputBlock,
// registering outputBlock as a second child unless it is the very same
// underlying block as inputBlock (the broadcaster's single transform block
// plays both roles at once, and must only be registered once).
func NewContainer2[TIn, TOut any](name string, opts config.ContainerOptions, inputBlock block.Target[TIn], outputBlock block.Source[TOut]) *Container2[TIn, TOut] {
	c1 := NewContainer1[TIn](name, opts, inputBlock)
	c := &Container2[TIn, TOut]{
		Container1:  c1,
		OutputBlock: outputBlock,
		garbage:     NewGarbageRecorder(),
	}
	if any(inputBlock) != any(outputBlock) {
		_ = c.Base.registerBlock(outputBlock, nil)
	}
	return c
}

// Garbage exposes the recorder backing the default linkLeftToNull behavior.
func (c *Container2[TIn, TOut]) Garbage() *GarbageRecorder {
	return c.garbage
}

func (c *Container2[TIn, TOut]) appendEdge(e edgeEntry[TOut]) {
	c.edgesMu.Lock()
	c.edges = append(c.edges, e)
	c.edgesMu.Unlock()
	c.ensureDispatch()
}

// ensureDispatch starts the routing goroutine exactly once, on first edge
// installation — before that, items simply accumulate in OutputBlock,
// matching the §4.7 fallback "o remains queued in outputBlock".
func (c *Container2[TIn, TOut]) ensureDispatch() {
	c.dispatchOnce.Do(func() { go c.dispatch() })
}

// dispatch is the routing loop: for each item produced by OutputBlock, the
// first matching predicate's target receives it; if none match, the null
// sink (if installed) receives it. Conditions are evaluated in registration
// order (ordering invariant, §4.6).
func (c *Container2[TIn, TOut]) dispatch() {
	for item := range c.OutputBlock.Out() {
		c.route(item)
	}

	c.edgesMu.RLock()
	edges := c.edges
	c.edgesMu.RUnlock()
	for _, e := range edges {
		e.target.Complete()
	}
	if c.nullSink != nil {
		c.nullSink.Complete()
	}
}

func (c *Container2[TIn, TOut]) route(item TOut) {
	c.edgesMu.RLock()
	edges := c.edges
	c.edgesMu.RUnlock()

	for _, e := range edges {
		if e.predicate(item) {
			_ = e.target.Post(context.Background(), item)
			return
		}
	}

	if c.nullSink != nil {
		_ = c.nullSink.Post(context.Background(), item)
	}
}

// LinkTo installs an unconditional edge from OutputBlock to target via the
// inter-container link protocol. targetInput is target's own input block.
func (c *Container2[TIn, TOut]) LinkTo(target Container, targetInput block.Target[TOut]) {
	edgeBlock := block.NewTransformBlock[TOut, TOut](NextName("Edge"), identityTransform[TOut], config.DefaultBlockOptions())
	_ = c.Base.registerBlock(edgeBlock, nil)
	c.appendEdge(edgeEntry[TOut]{predicate: Always[TOut](), target: edgeBlock})
	LinkContainers[TOut](edgeBlock, c, targetInput, target)
	c.emitLinkAttached(target.Name())
}

// EmitLinkAttached records an Info-level link-attachment event. Exported for
// components (the broadcaster's extra buffer attachments) that wire
// additional links outside of LinkTo/TransformAndLink.
func (c *Container2[TIn, TOut]) EmitLinkAttached(targetName string) {
	c.emitLinkAttached(targetName)
}

func (c *Container2[TIn, TOut]) emitLinkAttached(targetName string) {
	c.Base.emit(context.Background(), EventLinkAttached, observability.LevelInfo, map[string]any{"target": targetName})
}

func identityTransform[T any](_ context.Context, item T) (T, error) {
	return item, nil
}

// TransformAndLink appends predicate to the routing list, installs an
// intermediate transform block applying transform, and links the
// transform's output to target via the inter-container protocol (§4.6,
// §4.8). This is a free function because Go methods cannot introduce their
// own type parameter (TMid) beyond the receiver's.
func TransformAndLink[TIn, TOut, TMid any](c *Container2[TIn, TOut], target Container, targetInput block.Target[TMid], transform func(TOut) (TMid, error), predicate Predicate[TOut], opts config.BlockOptions) {
	edgeBlock := block.NewTransformBlock[TOut, TMid](NextName("Edge"), func(_ context.Context, item TOut) (TMid, error) {
		return transform(item)
	}, opts)
	_ = c.Base.registerBlock(edgeBlock, nil)
	c.appendEdge(edgeEntry[TOut]{predicate: predicate, target: edgeBlock})
	LinkContainers[TMid](edgeBlock, c, targetInput, target)
	c.emitLinkAttached(target.Name())
}

// TransformAndLinkAlways is TransformAndLink with the always-true predicate.
func TransformAndLinkAlways[TIn, TOut, TMid any](c *Container2[TIn, TOut], target Container, targetInput block.Target[TMid], transform func(TOut) (TMid, error), opts config.BlockOptions) {
	TransformAndLink(c, target, targetInput, transform, Always[TOut](), opts)
}

// TransformAndLinkType is the downcast-link convenience: predicate =
// "output is of type TTarget", transform = the downcast itself.
func TransformAndLinkType[TIn, TOut, TTarget any](c *Container2[TIn, TOut], target Container, targetInput block.Target[TTarget], opts config.BlockOptions) {
	predicate := OfType[TOut, TTarget]()
	TransformAndLink(c, target, targetInput, func(item TOut) (TTarget, error) {
		var asAny any = item
		out, _ := asAny.(TTarget)
		return out, nil
	}, predicate, opts)
}

// LinkLeftToNull installs a final edge from OutputBlock to a null sink,
// implicitly guarded by "no previously installed predicate matched" (it is
// only ever consulted by dispatch's fallback path). onDiscard defaults to
// recording the output's runtime type name in Garbage(). Must be called
// last, after every conditional link (§4.6).
func (c *Container2[TIn, TOut]) LinkLeftToNull(onDiscard func(TOut)) {
	if onDiscard == nil {
		onDiscard = func(item TOut) {
			c.garbage.Record(typeName(item))
		}
	}
	c.nullSink = block.NewNullSinkBlock[TOut](NextName("NullSink"), onDiscard)
	_ = c.Base.registerBlock(c.nullSink, nil)
	c.ensureDispatch()
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	return t.Name()
}
