package loss

import (
	"fmt"

	"github.com/born-ml/lossmix/internal/tensor"
)

// accumulator is the running statistic of a leaf loss: the mean of the
// per-batch losses seen since the last reset.
//
// Batches with no elements (for instance a component whose rows were all
// masked out) move the state to accumulating without shifting the mean.
type accumulator struct {
	total   float64
	batches int
	updates int
}

func (a *accumulator) add(batchLoss float64, elements int) {
	a.updates++
	if elements == 0 {
		return
	}
	a.total += batchLoss
	a.batches++
}

func (a *accumulator) value() float64 {
	if a.batches == 0 {
		return 0
	}
	return a.total / float64(a.batches)
}

func (a *accumulator) reset() {
	*a = accumulator{}
}

// forwardFunc computes a batch loss and the number of elements it averaged.
type forwardFunc func(labels, predictions *tensor.Tensor) (float64, int, error)

// leaf carries what every built-in leaf loss shares: name, backend, the
// running statistic, and the plumbing from lists to the first label and
// prediction tensors.
type leaf struct {
	name    string
	backend tensor.Backend
	acc     accumulator
	forward forwardFunc
}

// Name returns the display name.
func (l *leaf) Name() string {
	return l.name
}

// Evaluate computes the batch loss as a 0-D tensor.
func (l *leaf) Evaluate(labels, predictions *tensor.List) (*tensor.Tensor, error) {
	v, _, err := l.run(labels, predictions)
	if err != nil {
		return nil, err
	}
	return tensor.Scalar(v, l.backend), nil
}

// Update folds the batch loss into the running mean.
func (l *leaf) Update(labels, predictions *tensor.List) error {
	v, n, err := l.run(labels, predictions)
	if err != nil {
		return err
	}
	l.acc.add(v, n)
	return nil
}

// Reset clears the running mean.
func (l *leaf) Reset() {
	l.acc.reset()
}

// Value returns the mean batch loss since the last reset.
func (l *leaf) Value() float64 {
	return l.acc.value()
}

// Accumulating reports whether Update ran since the last reset.
func (l *leaf) Accumulating() bool {
	return l.acc.updates > 0
}

func (l *leaf) run(labels, predictions *tensor.List) (float64, int, error) {
	lt, pt, err := firstPair(labels, predictions)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", l.name, err)
	}
	v, n, err := l.forward(lt, pt)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", l.name, err)
	}
	return v, n, nil
}

// firstPair returns the first label and first prediction tensor.
func firstPair(labels, predictions *tensor.List) (*tensor.Tensor, *tensor.Tensor, error) {
	if labels.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: no labels", ErrMissingInput)
	}
	if predictions.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: no predictions", ErrMissingInput)
	}
	lt, _ := labels.At(0)
	pt, _ := predictions.At(0)
	return lt, pt, nil
}

// requireSameShape is the precondition of the element-wise losses.
func requireSameShape(op string, labels, predictions *tensor.Tensor) error {
	if !labels.Shape().Equal(predictions.Shape()) {
		return &tensor.ShapeError{
			Op:     op,
			Left:   labels.Shape(),
			Right:  predictions.Shape(),
			Detail: "labels and predictions must have the same shape",
		}
	}
	return nil
}
