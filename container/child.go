package container

import (
	"github.com/flowcompose/dataflow/block"
	"github.com/flowcompose/dataflow/future"
)

// Child is a uniformly-addressable handle over a container's two kinds of
// children: a single block, or a nested container (§4.1).
type Child interface {
	// Name is the child's own display name.
	Name() string
	// BufferedCount is the number of items currently queued inside the
	// child.
	BufferedCount() int
	// Blocks flattens the child down to its underlying async blocks: a
	// block child contributes itself; a nested-container child
	// contributes its own flattened block list.
	Blocks() []block.Block
	// WrappedCompletion is the child's completion future, already passed
	// through wrapCompletion (§4.2).
	WrappedCompletion() *future.Future[struct{}]
}

type blockChild struct {
	blk     block.Block
	wrapped *future.Future[struct{}]
}

func (c *blockChild) Name() string        { return c.blk.Name() }
func (c *blockChild) BufferedCount() int  { return c.blk.BufferedCount() }
func (c *blockChild) Blocks() []block.Block {
	return []block.Block{c.blk}
}
func (c *blockChild) WrappedCompletion() *future.Future[struct{}] { return c.wrapped }

type containerChild struct {
	child   Container
	wrapped *future.Future[struct{}]
}

func (c *containerChild) Name() string       { return c.child.Name() }
func (c *containerChild) BufferedCount() int { return c.child.BufferedCount() }
func (c *containerChild) Blocks() []block.Block {
	return c.child.Blocks()
}
func (c *containerChild) WrappedCompletion() *future.Future[struct{}] { return c.wrapped }
