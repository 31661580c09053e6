// Package container implements the container composition and lifecycle
// engine: child registration (child.go), the completion wrapper
// (completion.go), the container base's aggregated completion and
// performance monitor (base.go), the fault-propagation protocol
// (base.go's Fault and classify), the typed single-input and
// single-input-single-output container variants (input.go,
// inputoutput.go), conditional output routing (routing.go, inputoutput.go),
// garbage statistics for unrouted output (garbage.go), process-wide display
// naming (naming.go), and the inter-container link protocol (link.go).
package container
