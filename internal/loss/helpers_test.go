package loss_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/lossmix/internal/backend/cpu"
	"github.com/born-ml/lossmix/internal/loss"
	"github.com/born-ml/lossmix/internal/tensor"
)

var backend = cpu.New()

// mat builds a tensor from a literal and fails the test on bad input.
func mat(t *testing.T, shape tensor.Shape, data ...float64) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	require.NoError(t, err)
	return x
}

func list(ts ...*tensor.Tensor) *tensor.List {
	return tensor.NewList(ts...)
}

// stubLoss returns a fixed forward value and counts calls. Its running
// statistic is the number of updates.
type stubLoss struct {
	name      string
	out       *tensor.Tensor
	updates   int
	evaluates int
	updateErr error
	dupErr    error
	seen      []*tensor.List // labels received by Update
}

func (s *stubLoss) Name() string { return s.name }

func (s *stubLoss) Evaluate(labels, _ *tensor.List) (*tensor.Tensor, error) {
	s.evaluates++
	return s.out, nil
}

func (s *stubLoss) Update(labels, _ *tensor.List) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates++
	s.seen = append(s.seen, labels)
	return nil
}

func (s *stubLoss) Reset() { s.updates = 0 }

func (s *stubLoss) Value() float64 { return float64(s.updates) }

func (s *stubLoss) Duplicate() (loss.Loss, error) {
	if s.dupErr != nil {
		return nil, s.dupErr
	}
	return &stubLoss{name: s.name, out: s.out, updateErr: s.updateErr}, nil
}
