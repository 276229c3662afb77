package loss

import (
	"errors"
	"fmt"

	"github.com/born-ml/lossmix/internal/tensor"
)

// Common errors.
var (
	// ErrShapeMismatch is returned when routed inputs do not fit a component
	// or component results cannot be added together. It is the same value as
	// tensor.ErrShapeMismatch.
	ErrShapeMismatch = tensor.ErrShapeMismatch

	ErrEmptyComposition       = errors.New("composite loss has no components")
	ErrDuplicationUnsupported = errors.New("loss cannot be duplicated")
	ErrRouting                = errors.New("routing failed")
	ErrMissingInput           = errors.New("missing loss input")
	ErrInvalidLabel           = errors.New("invalid label value")
)

// ComponentError reports which component of a composite failed.
// The underlying error stays reachable through errors.Is and errors.As.
type ComponentError struct {
	Composite string // Name of the composite
	Index     int    // Component position
	Component string // Component name, empty when routing failed before the call
	Op        string // "evaluate", "update" or "duplicate"
	Err       error
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("%s: %s component %d: %v", e.Composite, e.Op, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %s component %d (%s): %v", e.Composite, e.Op, e.Index, e.Component, e.Err)
}

// Unwrap returns the component's error.
func (e *ComponentError) Unwrap() error {
	return e.Err
}
