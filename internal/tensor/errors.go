package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrInvalidShape    = errors.New("invalid shape")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDuplicateName   = errors.New("duplicate tensor name")
	ErrNameNotFound    = errors.New("tensor name not found")
	ErrNoBackend       = errors.New("tensor has no backend")
)

// ShapeError describes two shapes that an operation could not combine.
// It matches ErrShapeMismatch with errors.Is.
type ShapeError struct {
	Op     string // Operation that failed (e.g., "add", "column")
	Left   Shape  // Primary operand shape
	Right  Shape  // Secondary operand shape (nil for unary operations)
	Detail string // Additional details
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%s: %s %v", ErrShapeMismatch, e.Op, e.Left)
	if e.Right != nil {
		msg += fmt.Sprintf(" vs %v", e.Right)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
