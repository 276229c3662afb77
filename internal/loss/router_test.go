package loss_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lossmix/internal/loss"
	"github.com/born-ml/lossmix/internal/tensor"
)

func TestPassthrough(t *testing.T) {
	labels := list(mat(t, tensor.Shape{1}, 1))
	preds := list(mat(t, tensor.Shape{1}, 2))

	l, p, err := loss.Passthrough().Route(7, labels, preds)
	require.NoError(t, err)
	assert.Same(t, labels, l)
	assert.Same(t, preds, p)
	assert.Equal(t, -1, loss.RouterArity(loss.Passthrough()))
}

func TestSelectIndex(t *testing.T) {
	a, b := mat(t, tensor.Shape{1}, 1), mat(t, tensor.Shape{1}, 2)
	labels, preds := list(a, b), list(b, a)
	r := loss.SelectIndex([]int{1}, nil, []int{1, 0})
	assert.Equal(t, 3, loss.RouterArity(r))

	l, p, err := r.Route(0, labels, preds)
	require.NoError(t, err)
	require.Equal(t, 1, l.Len())
	got, _ := l.At(0)
	assert.Same(t, b, got, "routing does not copy tensors")
	got, _ = p.At(0)
	assert.Same(t, a, got)

	l, _, err = r.Route(1, labels, preds)
	require.NoError(t, err)
	assert.Same(t, labels, l)

	l, _, err = r.Route(2, labels, preds)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0"}, l.Names())

	_, _, err = r.Route(3, labels, preds)
	assert.ErrorIs(t, err, loss.ErrRouting)
}

func TestSplitColumns(t *testing.T) {
	labels := list(mat(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6))
	preds := list(mat(t, tensor.Shape{2, 3}, 6, 5, 4, 3, 2, 1))
	r := loss.SplitColumns()

	l, p, err := r.Route(2, labels, preds)
	require.NoError(t, err)
	lt, _ := l.At(0)
	pt, _ := p.At(0)
	assert.Equal(t, tensor.Shape{2, 1}, lt.Shape())
	assert.Equal(t, []float64{3, 6}, lt.Data())
	assert.Equal(t, []float64{4, 1}, pt.Data())

	_, _, err = r.Route(3, labels, preds)
	assert.ErrorIs(t, err, loss.ErrRouting)

	_, _, err = r.Route(0, list(), preds)
	assert.ErrorIs(t, err, loss.ErrMissingInput)
}

func TestNamedSlots(t *testing.T) {
	labels := tensor.NewList()
	require.NoError(t, labels.AppendNamed("class", mat(t, tensor.Shape{1}, 0)))
	require.NoError(t, labels.AppendNamed("box", mat(t, tensor.Shape{1, 4}, 1, 2, 3, 4)))
	preds := tensor.NewList()
	require.NoError(t, preds.AppendNamed("box", mat(t, tensor.Shape{1, 4}, 1, 2, 3, 5)))
	require.NoError(t, preds.AppendNamed("logits", mat(t, tensor.Shape{1, 2}, 3, 1)))

	r := loss.NamedSlots(
		loss.Slot{Labels: []string{"class"}, Predictions: []string{"logits"}},
		loss.Slot{Labels: []string{"box"}, Predictions: []string{"box"}},
	)
	assert.Equal(t, 2, loss.RouterArity(r))

	c := loss.NewComposite("detector", r,
		loss.NewSoftmaxCrossEntropy(backend),
		loss.NewMSE(backend),
	)
	_, err := c.Evaluate(labels, preds)
	require.NoError(t, err)

	l, p, err := r.Route(0, labels, preds)
	require.NoError(t, err)
	assert.Equal(t, []string{"class"}, l.Names())
	assert.Equal(t, []string{"logits"}, p.Names())

	bad := loss.NamedSlots(loss.Slot{Labels: []string{"missing"}})
	_, _, err = bad.Route(0, labels, preds)
	assert.ErrorIs(t, err, tensor.ErrNameNotFound)
	assert.ErrorIs(t, err, loss.ErrRouting)
}

func TestMaskRows(t *testing.T) {
	labels := tensor.NewList()
	require.NoError(t, labels.AppendNamed("y", mat(t, tensor.Shape{3, 2}, 1, 2, 3, 4, 5, 6)))
	require.NoError(t, labels.AppendNamed("keep", mat(t, tensor.Shape{3, 1}, 0, 1, 1)))
	preds := list(mat(t, tensor.Shape{3, 2}, 6, 5, 4, 3, 2, 1))

	r := loss.MaskRows("keep", loss.SplitColumns())
	assert.Equal(t, -1, loss.RouterArity(r))

	l, p, err := r.Route(1, labels, preds)
	require.NoError(t, err)
	lt, _ := l.At(0)
	pt, _ := p.At(0)
	assert.Equal(t, []float64{4, 6}, lt.Data())
	assert.Equal(t, []float64{3, 1}, pt.Data())

	// The mask itself is not forwarded.
	l, _, err = loss.MaskRows("keep", nil).Route(0, labels, preds)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, l.Names())

	_, _, err = loss.MaskRows("absent", nil).Route(0, labels, preds)
	assert.ErrorIs(t, err, loss.ErrMissingInput)
}

func TestRouterFunc(t *testing.T) {
	calls := 0
	swap := loss.RouterFunc(func(_ int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error) {
		calls++
		return predictions, labels, nil
	})
	c := loss.NewComposite("swapped", swap, loss.NewMSE(backend), loss.NewL1(backend))

	_, err := c.Evaluate(list(mat(t, tensor.Shape{1}, 0)), list(mat(t, tensor.Shape{1}, 1)))
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "one routing call per component")
}
