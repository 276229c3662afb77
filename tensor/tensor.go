// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/lossmix/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3} is a batch of two rows with three outputs each.
type Shape = tensor.Shape

// Tensor is a float64 row-major tensor bound to a Backend.
type Tensor = tensor.Tensor

// List is an ordered collection of named tensors.
type List = tensor.List

// Backend is the compute interface tensors delegate arithmetic to.
type Backend = tensor.Backend

// ShapeError describes incompatible shapes.
type ShapeError = tensor.ShapeError

// Common errors.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrInvalidShape    = tensor.ErrInvalidShape
	ErrIndexOutOfRange = tensor.ErrIndexOutOfRange
	ErrDuplicateName   = tensor.ErrDuplicateName
	ErrNameNotFound    = tensor.ErrNameNotFound
	ErrNoBackend       = tensor.ErrNoBackend
)

// FromSlice creates a tensor from a copy of data.
//
// Example:
//
//	backend := cpu.New()
//	labels, err := tensor.FromSlice([]float64{1, 0}, tensor.Shape{1, 2}, backend)
func FromSlice(data []float64, shape Shape, b Backend) (*Tensor, error) {
	return tensor.FromSlice(data, shape, b)
}

// MustFromSlice is FromSlice that panics on error.
func MustFromSlice(data []float64, shape Shape, b Backend) *Tensor {
	return tensor.MustFromSlice(data, shape, b)
}

// Scalar creates a 0-D tensor.
func Scalar(v float64, b Backend) *Tensor {
	return tensor.Scalar(v, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, b Backend) (*Tensor, error) {
	return tensor.Zeros(shape, b)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64, b Backend) (*Tensor, error) {
	return tensor.Full(shape, value, b)
}

// NewList creates a list holding tensors in order, named by position.
func NewList(tensors ...*Tensor) *List {
	return tensor.NewList(tensors...)
}

// Sum adds tensors left to right with broadcasting.
func Sum(tensors ...*Tensor) (*Tensor, error) {
	return tensor.Sum(tensors...)
}

// BroadcastShapes computes the broadcast shape of a and b.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
