package loss

import (
	"fmt"
	"math"

	"github.com/born-ml/lossmix/internal/tensor"
)

// Huber behaves like L2 for errors smaller than delta and like L1 beyond,
// with slope delta.
//
//	q    = min(|p - l|, delta)
//	Loss = mean(0.5·q² + delta·(|p - l| - q))
//
// See https://en.wikipedia.org/wiki/Huber_loss
type Huber struct {
	leaf
	delta float64
}

// NewHuber creates a Huber loss named "huber". 1.0 is a good default delta.
//
// Panics if delta <= 0.
func NewHuber(backend tensor.Backend, delta float64, opts ...Option) *Huber {
	if delta <= 0 {
		panic(fmt.Sprintf("NewHuber requires delta > 0, got %f", delta))
	}
	o := applyOptions("huber", opts)
	h := &Huber{leaf: leaf{name: o.name, backend: backend}, delta: delta}
	h.forward = h.compute
	return h
}

// Delta returns the L2/L1 switch point.
func (h *Huber) Delta() float64 {
	return h.delta
}

func (h *Huber) compute(labels, predictions *tensor.Tensor) (float64, int, error) {
	if err := requireSameShape("huber", labels, predictions); err != nil {
		return 0, 0, err
	}
	diff, err := predictions.Sub(labels)
	if err != nil {
		return 0, 0, err
	}

	abs := diff.Abs().Data()
	if len(abs) == 0 {
		return 0, 0, nil
	}
	var sum float64
	for _, a := range abs {
		// quadratic inside delta, linear beyond
		q := math.Min(a, h.delta)
		sum += 0.5*q*q + h.delta*(a-q)
	}
	return sum / float64(len(abs)), len(abs), nil
}

// Duplicate returns a new Huber with the same delta and name.
func (h *Huber) Duplicate() (Loss, error) {
	return NewHuber(h.backend, h.delta, WithName(h.name)), nil
}
