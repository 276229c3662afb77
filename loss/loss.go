// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package loss

import (
	"github.com/born-ml/lossmix/internal/loss"
	"github.com/born-ml/lossmix/tensor"
)

// Loss is a loss function with a running statistic.
type Loss = loss.Loss

// Stateful is implemented by losses that report whether they have been
// updated since their last reset.
type Stateful = loss.Stateful

// Option configures a built-in loss.
type Option = loss.Option

// Composite combines component losses into one.
type Composite = loss.Composite

// Weighted scales another loss by a constant.
type Weighted = loss.Weighted

// Leaf loss types.
type (
	MSE                 = loss.MSE
	L1                  = loss.L1
	Huber               = loss.Huber
	BinaryCrossEntropy  = loss.BinaryCrossEntropy
	SoftmaxCrossEntropy = loss.SoftmaxCrossEntropy
)

// Routing types.
type (
	Router           = loss.Router
	RouterFunc       = loss.RouterFunc
	DuplicableRouter = loss.DuplicableRouter
	Slot             = loss.Slot
)

// Tree traversal types.
type (
	Node      = loss.Node
	Container = loss.Container
)

// ComponentError reports which component of a composite failed.
type ComponentError = loss.ComponentError

// Common errors.
var (
	ErrShapeMismatch          = loss.ErrShapeMismatch
	ErrEmptyComposition       = loss.ErrEmptyComposition
	ErrDuplicationUnsupported = loss.ErrDuplicationUnsupported
	ErrRouting                = loss.ErrRouting
	ErrMissingInput           = loss.ErrMissingInput
	ErrInvalidLabel           = loss.ErrInvalidLabel
)

// WithName overrides the display name of a built-in loss.
func WithName(name string) Option {
	return loss.WithName(name)
}

// NewComposite creates a composite loss. A nil router means Passthrough.
//
// Example:
//
//	detector := loss.NewComposite("detector", loss.SplitColumns(),
//	    loss.NewMSE(backend, loss.WithName("box")),
//	    loss.NewBinaryCrossEntropy(backend, false, loss.WithName("objectness")),
//	)
func NewComposite(name string, router Router, components ...Loss) *Composite {
	return loss.NewComposite(name, router, components...)
}

// NewWeighted wraps inner with a weight.
func NewWeighted(inner Loss, weight float64) *Weighted {
	return loss.NewWeighted(inner, weight)
}

// NewMSE creates a mean squared error loss.
func NewMSE(backend tensor.Backend, opts ...Option) *MSE {
	return loss.NewMSE(backend, opts...)
}

// NewL1 creates a mean absolute error loss.
func NewL1(backend tensor.Backend, opts ...Option) *L1 {
	return loss.NewL1(backend, opts...)
}

// NewHuber creates a Huber loss. Panics if delta is not positive.
func NewHuber(backend tensor.Backend, delta float64, opts ...Option) *Huber {
	return loss.NewHuber(backend, delta, opts...)
}

// NewBinaryCrossEntropy creates a binary cross-entropy loss over
// probabilities, or over logits when fromLogits is set.
func NewBinaryCrossEntropy(backend tensor.Backend, fromLogits bool, opts ...Option) *BinaryCrossEntropy {
	return loss.NewBinaryCrossEntropy(backend, fromLogits, opts...)
}

// NewSoftmaxCrossEntropy creates a softmax cross-entropy loss over 2-D
// logits with sparse or one-hot labels.
func NewSoftmaxCrossEntropy(backend tensor.Backend, opts ...Option) *SoftmaxCrossEntropy {
	return loss.NewSoftmaxCrossEntropy(backend, opts...)
}

// IsAccumulating reports whether l has been updated since its last reset.
func IsAccumulating(l Loss) bool {
	return loss.IsAccumulating(l)
}

// Walk visits root and every nested component depth-first.
func Walk(root Loss, fn func(Node) error) error {
	return loss.Walk(root, fn)
}
