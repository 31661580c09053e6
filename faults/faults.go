// Package faults defines the error-kind taxonomy shared by the block and
// container packages: validation errors, the "no child registered" error,
// and the family of propagated errors that signal a sibling or linked
// container's failure without carrying its original cause.
package faults

import "fmt"

// PropagatedError is implemented by every error kind that signals "a peer
// failed or was canceled" rather than diagnosing an original cause.
// Propagated errors never re-trigger Container.Fault on arrival; see
// wrapCompletion in container/completion.go, and classify in
// container/base.go, which passes them through unchanged.
type PropagatedError interface {
	error
	propagated()
}

// NoChildRegisteredError is returned by CompletionTask when observed before
// any child has been registered on the container.
type NoChildRegisteredError struct {
	Container string
}

func (e *NoChildRegisteredError) Error() string {
	return fmt.Sprintf("container %q: no child registered", e.Container)
}

// IllegalArgumentError is returned by the two child-registration validations.
type IllegalArgumentError struct {
	Container string
	Reason    string // "nil" or "duplicate"
}

func (e *IllegalArgumentError) Error() string {
	return fmt.Sprintf("container %q: illegal argument: %s", e.Container, e.Reason)
}

// CanceledError is faulted into a container when a raw child completion
// future resolves canceled, before Fault reclassifies it for siblings.
type CanceledError struct {
	Container string
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("container %q: canceled", e.Container)
}

// SiblingUnitFailedError is the exception a sibling block is faulted with
// when another child in the same container originated a non-cancellation
// failure. It carries no identity of the original cause (F1).
type SiblingUnitFailedError struct {
	Container string
	Unit      string
}

func (e *SiblingUnitFailedError) Error() string {
	return fmt.Sprintf("container %q: sibling unit %q failed", e.Container, e.Unit)
}

func (e *SiblingUnitFailedError) propagated() {}

// SiblingUnitCanceledError is the exception a sibling block is faulted with
// when another child in the same container was canceled.
type SiblingUnitCanceledError struct {
	Container string
	Unit      string
}

func (e *SiblingUnitCanceledError) Error() string {
	return fmt.Sprintf("container %q: sibling unit %q canceled", e.Container, e.Unit)
}

func (e *SiblingUnitCanceledError) propagated() {}

// OtherContainerFailedError is faulted across an inter-container link when
// the linked container failed.
type OtherContainerFailedError struct {
	From string
	To   string
}

func (e *OtherContainerFailedError) Error() string {
	return fmt.Sprintf("container %q: linked container %q failed", e.To, e.From)
}

func (e *OtherContainerFailedError) propagated() {}

// OtherContainerCanceledError is faulted across an inter-container link when
// the linked container was canceled.
type OtherContainerCanceledError struct {
	From string
	To   string
}

func (e *OtherContainerCanceledError) Error() string {
	return fmt.Sprintf("container %q: linked container %q canceled", e.To, e.From)
}

func (e *OtherContainerCanceledError) propagated() {}

// IsPropagated reports whether err is one of the propagated error kinds.
// Used by the completion wrapper (§4.2) to distinguish originating failures
// from propagated ones, by Fault's classify step (§4.4), and by the
// aggregated completion's priority-unwrap rule (§7).
func IsPropagated(err error) bool {
	_, ok := err.(PropagatedError)
	return ok
}
