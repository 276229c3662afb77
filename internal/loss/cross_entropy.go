package loss

import (
	"fmt"

	"github.com/born-ml/lossmix/internal/tensor"
)

// SoftmaxCrossEntropy computes cross-entropy for multi-class classification
// from raw logits.
//
// The LogSoftmax + NLL decomposition keeps it numerically stable:
//
//	Loss = mean_b( LogSumExp(logits[b]) - logits[b, target[b]] )
//
// Predictions are logits shaped [batch, classes]. Labels are either class
// indices shaped [batch] or [batch, 1], or a dense distribution with the
// same shape as the logits (one-hot or soft labels).
type SoftmaxCrossEntropy struct {
	leaf
}

// NewSoftmaxCrossEntropy creates a cross-entropy loss named "softmax_cross_entropy".
func NewSoftmaxCrossEntropy(backend tensor.Backend, opts ...Option) *SoftmaxCrossEntropy {
	o := applyOptions("softmax_cross_entropy", opts)
	c := &SoftmaxCrossEntropy{leaf: leaf{name: o.name, backend: backend}}
	c.forward = c.compute
	return c
}

func (c *SoftmaxCrossEntropy) compute(labels, logits *tensor.Tensor) (float64, int, error) {
	shape := logits.Shape()
	if len(shape) != 2 {
		return 0, 0, &tensor.ShapeError{Op: "softmax_cross_entropy", Left: shape, Detail: "logits must be 2-D [batch, classes]"}
	}
	batch, classes := shape[0], shape[1]
	if batch == 0 {
		return 0, 0, nil
	}

	// log Σ exp(logits) per sample
	lse := logits.LogSumExp().Data()
	data := logits.Data()

	if labels.Shape().Equal(shape) {
		dense := labels.Data()
		var total float64
		for b := 0; b < batch; b++ {
			for k := 0; k < classes; k++ {
				// -Σ y·log_softmax = Σ y·(lse - z)
				total += dense[b*classes+k] * (lse[b] - data[b*classes+k])
			}
		}
		return total / float64(batch), batch, nil
	}

	if labels.NumElements() != batch || labels.Rank() > 2 {
		return 0, 0, &tensor.ShapeError{
			Op:     "softmax_cross_entropy",
			Left:   labels.Shape(),
			Right:  shape,
			Detail: "labels must be [batch], [batch, 1] or match the logits",
		}
	}

	var total float64
	for b, raw := range labels.Data() {
		target := int(raw)
		if float64(target) != raw || target < 0 || target >= classes {
			return 0, 0, fmt.Errorf("%w: class %v outside [0, %d)", ErrInvalidLabel, raw, classes)
		}
		total += lse[b] - data[b*classes+target]
	}

	return total / float64(batch), batch, nil
}

// Duplicate returns a new SoftmaxCrossEntropy with the same name.
func (c *SoftmaxCrossEntropy) Duplicate() (Loss, error) {
	return NewSoftmaxCrossEntropy(c.backend, WithName(c.name)), nil
}
