// Package config holds the plain option structs consumed at construction
// time by the block and container packages. BlockOptions and LinkOptions
// are read only while a block or link is set up; the Observer name is
// resolved to an observability.Observer up front. A container Base keeps
// its ContainerOptions, and its monitor loop reads them on every tick.
package config

import "time"

// PerformanceMonitorMode controls whether the container monitor logs
// zero-valued buffered-count entries.
type PerformanceMonitorMode string

const (
	// ModeSuccinct skips logging zero-count entries.
	ModeSuccinct PerformanceMonitorMode = "succinct"
	// ModeVerbose logs every entry, including zero counts.
	ModeVerbose PerformanceMonitorMode = "verbose"
)

// ContainerOptions configures a container's monitoring behavior.
type ContainerOptions struct {
	// ContainerMonitorEnabled turns on container-level buffered-count logging.
	ContainerMonitorEnabled bool `json:"container_monitor_enabled"`

	// BlockMonitorEnabled turns on per-block buffered-count logging.
	BlockMonitorEnabled bool `json:"block_monitor_enabled"`

	// MonitorInterval is the logging cadence. Zero means DefaultContainerOptions' 10s.
	MonitorInterval time.Duration `json:"monitor_interval"`

	// PerformanceMonitorMode controls zero-count entry suppression.
	PerformanceMonitorMode PerformanceMonitorMode `json:"performance_monitor_mode"`

	// Observer names the observability.Observer to resolve via the registry.
	Observer string `json:"observer"`
}

// DefaultContainerOptions returns monitoring disabled by default, a 10s
// interval should it be enabled, succinct mode, and the "slog" observer.
func DefaultContainerOptions() ContainerOptions {
	return ContainerOptions{
		ContainerMonitorEnabled: false,
		BlockMonitorEnabled:     false,
		MonitorInterval:         10 * time.Second,
		PerformanceMonitorMode:  ModeSuccinct,
		Observer:                "slog",
	}
}

// Merge overlays non-zero fields from source onto c.
func (c *ContainerOptions) Merge(source ContainerOptions) {
	if source.ContainerMonitorEnabled {
		c.ContainerMonitorEnabled = true
	}
	if source.BlockMonitorEnabled {
		c.BlockMonitorEnabled = true
	}
	if source.MonitorInterval > 0 {
		c.MonitorInterval = source.MonitorInterval
	}
	if source.PerformanceMonitorMode != "" {
		c.PerformanceMonitorMode = source.PerformanceMonitorMode
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// BlockOptions configures an individual async block.
type BlockOptions struct {
	// BoundedCapacity limits how many items may queue before Post blocks.
	// Zero means an unbuffered channel: Post blocks until a reader takes
	// the item.
	BoundedCapacity int `json:"bounded_capacity"`

	// DegreeOfParallelism is how many concurrent workers execute the
	// block's body. Must be at least 1; DefaultBlockOptions uses 1.
	DegreeOfParallelism int `json:"degree_of_parallelism"`
}

// DefaultBlockOptions returns an unbuffered (capacity 0), single-worker block.
func DefaultBlockOptions() BlockOptions {
	return BlockOptions{
		BoundedCapacity:     0,
		DegreeOfParallelism: 1,
	}
}

func (o *BlockOptions) Merge(source BlockOptions) {
	if source.BoundedCapacity > 0 {
		o.BoundedCapacity = source.BoundedCapacity
	}
	if source.DegreeOfParallelism > 0 {
		o.DegreeOfParallelism = source.DegreeOfParallelism
	}
}

// LinkOptions configures the completion-propagation behavior of a single
// link between a block and a block or container.
type LinkOptions struct {
	// PropagateCompletion, when true, completes the target automatically
	// when the source completes successfully. The container base uses
	// true for intra-container edges and false for inter-container edges
	// (§4.8), where the link protocol takes over completion explicitly.
	PropagateCompletion bool `json:"propagate_completion"`
}

// DefaultLinkOptions matches the framework's default for intra-container
// edges (m_defaultLinkOption in spec.md §6).
func DefaultLinkOptions() LinkOptions {
	return LinkOptions{PropagateCompletion: true}
}
