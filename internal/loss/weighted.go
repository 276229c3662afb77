package loss

import (
	"fmt"

	"github.com/born-ml/lossmix/internal/tensor"
)

// Weighted scales another loss by a constant factor, both in the forward
// value and in the running statistic. It is the usual way to balance the
// heads of a composite.
type Weighted struct {
	inner  Loss
	weight float64
}

// NewWeighted wraps inner with the given weight.
func NewWeighted(inner Loss, weight float64) *Weighted {
	return &Weighted{inner: inner, weight: weight}
}

// Name returns the wrapped loss's name.
func (w *Weighted) Name() string {
	return w.inner.Name()
}

// Weight returns the scale factor.
func (w *Weighted) Weight() float64 {
	return w.weight
}

// Unwrap returns the wrapped loss.
func (w *Weighted) Unwrap() Loss {
	return w.inner
}

// Evaluate returns weight · inner.Evaluate.
func (w *Weighted) Evaluate(labels, predictions *tensor.List) (*tensor.Tensor, error) {
	v, err := w.inner.Evaluate(labels, predictions)
	if err != nil {
		return nil, err
	}
	return v.MulScalar(w.weight), nil
}

// Update forwards to the wrapped loss.
func (w *Weighted) Update(labels, predictions *tensor.List) error {
	return w.inner.Update(labels, predictions)
}

// Reset forwards to the wrapped loss.
func (w *Weighted) Reset() {
	w.inner.Reset()
}

// Value returns weight · inner.Value.
func (w *Weighted) Value() float64 {
	return w.weight * w.inner.Value()
}

// Accumulating reports the wrapped loss's state.
func (w *Weighted) Accumulating() bool {
	return IsAccumulating(w.inner)
}

// Duplicate duplicates the wrapped loss and keeps the weight.
func (w *Weighted) Duplicate() (Loss, error) {
	inner, err := w.inner.Duplicate()
	if err != nil {
		return nil, fmt.Errorf("weighted %s: %w", w.inner.Name(), err)
	}
	return NewWeighted(inner, w.weight), nil
}
