package loss

import (
	"math"

	"github.com/born-ml/lossmix/internal/tensor"
)

// bceEpsilon keeps probabilities away from 0 and 1 before taking logs.
const bceEpsilon = 1e-7

// BinaryCrossEntropy computes the cross-entropy of binary targets.
//
// With probabilities (fromLogits=false), predictions are clipped to
// [ε, 1-ε] and
//
//	Loss = mean(-(l·log(p) + (1-l)·log(1-p)))
//
// With logits it uses the stable form
//
//	Loss = mean(max(x, 0) - x·l + log(1 + exp(-|x|)))
//
// Labels and predictions must have the same shape.
type BinaryCrossEntropy struct {
	leaf
	fromLogits bool
}

// NewBinaryCrossEntropy creates a binary cross-entropy loss named
// "binary_cross_entropy".
func NewBinaryCrossEntropy(backend tensor.Backend, fromLogits bool, opts ...Option) *BinaryCrossEntropy {
	o := applyOptions("binary_cross_entropy", opts)
	b := &BinaryCrossEntropy{leaf: leaf{name: o.name, backend: backend}, fromLogits: fromLogits}
	b.forward = b.compute
	return b
}

// FromLogits reports whether predictions are read as logits.
func (b *BinaryCrossEntropy) FromLogits() bool {
	return b.fromLogits
}

func (b *BinaryCrossEntropy) compute(labels, predictions *tensor.Tensor) (float64, int, error) {
	if err := requireSameShape("binary_cross_entropy", labels, predictions); err != nil {
		return 0, 0, err
	}
	l, p := labels.Data(), predictions.Data()
	if len(p) == 0 {
		return 0, 0, nil
	}

	var sum float64
	for i := range p {
		if b.fromLogits {
			x := p[i]
			sum += math.Max(x, 0) - x*l[i] + math.Log1p(math.Exp(-math.Abs(x)))
			continue
		}
		q := math.Min(math.Max(p[i], bceEpsilon), 1-bceEpsilon)
		sum -= l[i]*math.Log(q) + (1-l[i])*math.Log(1-q)
	}
	return sum / float64(len(p)), len(p), nil
}

// Duplicate returns a new BinaryCrossEntropy with the same settings.
func (b *BinaryCrossEntropy) Duplicate() (Loss, error) {
	return NewBinaryCrossEntropy(b.backend, b.fromLogits, WithName(b.name)), nil
}
