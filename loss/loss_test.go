package loss_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lossmix/backend/cpu"
	"github.com/born-ml/lossmix/loss"
	"github.com/born-ml/lossmix/tensor"
)

func TestPublicComposite(t *testing.T) {
	backend := cpu.New()
	detector := loss.NewComposite("detector", loss.SplitColumns(),
		loss.NewMSE(backend, loss.WithName("box")),
		loss.NewBinaryCrossEntropy(backend, false, loss.WithName("objectness")),
	)

	labels := tensor.NewList(tensor.MustFromSlice([]float64{1, 0}, tensor.Shape{1, 2}, backend))
	preds := tensor.NewList(tensor.MustFromSlice([]float64{0.5, 0.5}, tensor.Shape{1, 2}, backend))

	v, err := detector.Evaluate(labels, preds)
	require.NoError(t, err)
	assert.InDelta(t, 0.25+math.Ln2, v.Item(), 1e-9)

	require.NoError(t, detector.Update(labels, preds))
	assert.True(t, loss.IsAccumulating(detector))

	dup, err := detector.Duplicate()
	require.NoError(t, err)
	assert.False(t, loss.IsAccumulating(dup))

	empty := loss.NewComposite("empty", nil)
	assert.ErrorIs(t, empty.Update(labels, preds), loss.ErrEmptyComposition)
}
