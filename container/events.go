package container

import "github.com/flowcompose/dataflow/observability"

// Event types emitted by the container package. Categories follow §6's
// logging design: Info for pull counts, link attachments, and
// downstream-driven fault; Debug for monitor counts; Error for fault
// activation and callback failures.
const (
	EventFault            observability.EventType = "container.fault"
	EventCallbackFailed   observability.EventType = "container.callback.failed"
	EventCleanupFailed    observability.EventType = "container.cleanup.failed"
	EventMonitorContainer observability.EventType = "container.monitor.container"
	EventMonitorBlock     observability.EventType = "container.monitor.block"
	EventLinkAttached     observability.EventType = "container.link.attached"
	EventPullCompleted    observability.EventType = "container.pull.completed"
	EventDownstreamFault  observability.EventType = "container.link.downstream_fault"
)
