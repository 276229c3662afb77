package loss

import (
	"github.com/born-ml/lossmix/internal/tensor"
)

// MSE computes Mean Squared Error loss.
//
// Loss = mean((predictions - labels)²)
//
// MSE is commonly used for regression heads. Labels and predictions must
// have the same shape.
//
// Example:
//
//	mse := loss.NewMSE(backend)
//	value, err := mse.Evaluate(labels, predictions)
type MSE struct {
	leaf
}

// NewMSE creates a new MSE loss named "mse".
func NewMSE(backend tensor.Backend, opts ...Option) *MSE {
	o := applyOptions("mse", opts)
	m := &MSE{leaf: leaf{name: o.name, backend: backend}}
	m.forward = m.compute
	return m
}

func (m *MSE) compute(labels, predictions *tensor.Tensor) (float64, int, error) {
	if err := requireSameShape("mse", labels, predictions); err != nil {
		return 0, 0, err
	}

	// (predictions - labels)²
	diff, err := predictions.Sub(labels)
	if err != nil {
		return 0, 0, err
	}
	squared, err := diff.Mul(diff)
	if err != nil {
		return 0, 0, err
	}

	return squared.Mean(), squared.NumElements(), nil
}

// Duplicate returns a new MSE with the same name and a clean statistic.
func (m *MSE) Duplicate() (Loss, error) {
	return NewMSE(m.backend, WithName(m.name)), nil
}

// L1 computes Mean Absolute Error loss.
//
// Loss = mean(|predictions - labels|)
type L1 struct {
	leaf
}

// NewL1 creates a new L1 loss named "l1".
func NewL1(backend tensor.Backend, opts ...Option) *L1 {
	o := applyOptions("l1", opts)
	l := &L1{leaf: leaf{name: o.name, backend: backend}}
	l.forward = l.compute
	return l
}

func (l *L1) compute(labels, predictions *tensor.Tensor) (float64, int, error) {
	if err := requireSameShape("l1", labels, predictions); err != nil {
		return 0, 0, err
	}
	diff, err := predictions.Sub(labels)
	if err != nil {
		return 0, 0, err
	}
	abs := diff.Abs()
	return abs.Mean(), abs.NumElements(), nil
}

// Duplicate returns a new L1 with the same name and a clean statistic.
func (l *L1) Duplicate() (Loss, error) {
	return NewL1(l.backend, WithName(l.name)), nil
}
