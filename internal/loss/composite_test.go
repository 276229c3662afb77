package loss_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lossmix/internal/loss"
	"github.com/born-ml/lossmix/internal/tensor"
)

// detector is MSE on column 0 and binary cross-entropy on column 1.
func detector() *loss.Composite {
	return loss.NewComposite("detector", loss.SplitColumns(),
		loss.NewMSE(backend, loss.WithName("box")),
		loss.NewBinaryCrossEntropy(backend, false, loss.WithName("objectness")),
	)
}

func TestComposite_SplitColumns(t *testing.T) {
	c := detector()
	labels := list(mat(t, tensor.Shape{1, 2}, 1, 0))
	preds := list(mat(t, tensor.Shape{1, 2}, 0.5, 0.5))

	v, err := c.Evaluate(labels, preds)
	require.NoError(t, err)
	assert.InDelta(t, 0.25+math.Ln2, v.Item(), 1e-9)

	require.NoError(t, c.Update(labels, preds))
	assert.InDelta(t, 0.25+math.Ln2, c.Value(), 1e-9)
}

func TestComposite_EvaluateIsSumOfComponents(t *testing.T) {
	labels := list(
		mat(t, tensor.Shape{2, 2}, 1, 0, 0, 1),
		mat(t, tensor.Shape{2}, 0.5, 1.5),
	)
	preds := list(
		mat(t, tensor.Shape{2, 2}, 0.9, 0.2, 0.3, 0.6),
		mat(t, tensor.Shape{2}, 0, 2),
	)
	c := loss.NewComposite("heads", loss.SelectIndex([]int{0}, []int{1}, []int{1}),
		loss.NewBinaryCrossEntropy(backend, false),
		loss.NewMSE(backend),
		loss.NewL1(backend),
	)

	got, err := c.Evaluate(labels, preds)
	require.NoError(t, err)

	var want float64
	for i, component := range c.Components() {
		l, p, err := c.Router().Route(i, labels, preds)
		require.NoError(t, err)
		v, err := component.Evaluate(l, p)
		require.NoError(t, err)
		want += v.Item()
	}
	assert.InDelta(t, want, got.Item(), 1e-12)
}

func TestComposite_ValueIsSumOfComponents(t *testing.T) {
	c := detector()
	batches := [][2][]float64{
		{{1, 0}, {0.5, 0.5}},
		{{0, 1}, {0.2, 0.9}},
		{{2, 1}, {1, 0.7}},
	}
	for _, b := range batches {
		require.NoError(t, c.Update(
			list(mat(t, tensor.Shape{1, 2}, b[0]...)),
			list(mat(t, tensor.Shape{1, 2}, b[1]...)),
		))
	}

	var want float64
	for _, component := range c.Components() {
		want += component.Value()
	}
	assert.InDelta(t, want, c.Value(), 1e-12)
	assert.True(t, c.Accumulating())
}

func TestComposite_ResetClearsEverything(t *testing.T) {
	c := detector()
	require.NoError(t, c.Update(
		list(mat(t, tensor.Shape{1, 2}, 1, 0)),
		list(mat(t, tensor.Shape{1, 2}, 0.5, 0.5)),
	))
	require.NotZero(t, c.Value())

	c.Reset()
	assert.Equal(t, 0.0, c.Value())
	assert.False(t, c.Accumulating())
	for _, component := range c.Components() {
		assert.Equal(t, 0.0, component.Value(), component.Name())
	}
}

func TestComposite_ResetThenUpdateMatchesFresh(t *testing.T) {
	batch := func(a, b float64) (*tensor.List, *tensor.List) {
		return list(mat(t, tensor.Shape{1, 2}, 1, 0)), list(mat(t, tensor.Shape{1, 2}, a, b))
	}

	used := detector()
	l1, p1 := batch(0.1, 0.9)
	l2, p2 := batch(0.7, 0.4)
	require.NoError(t, used.Update(l1, p1))
	require.NoError(t, used.Update(l2, p2))
	used.Reset()

	l3, p3 := batch(0.3, 0.2)
	require.NoError(t, used.Update(l3, p3))

	fresh := detector()
	require.NoError(t, fresh.Update(l3, p3))

	assert.Equal(t, fresh.Value(), used.Value())
}

func TestComposite_EvaluateIsPure(t *testing.T) {
	c := detector()
	labels := list(mat(t, tensor.Shape{1, 2}, 1, 0))
	preds := list(mat(t, tensor.Shape{1, 2}, 0.5, 0.5))

	require.NoError(t, c.Update(labels, preds))
	before := c.Value()

	first, err := c.Evaluate(labels, preds)
	require.NoError(t, err)
	second, err := c.Evaluate(labels, preds)
	require.NoError(t, err)

	assert.Equal(t, first.Item(), second.Item())
	assert.Equal(t, before, c.Value())
}

func TestComposite_DuplicateIsIndependent(t *testing.T) {
	src := detector()
	labels := list(mat(t, tensor.Shape{1, 2}, 1, 0))
	preds := list(mat(t, tensor.Shape{1, 2}, 0.5, 0.5))
	require.NoError(t, src.Update(labels, preds))
	before := src.Value()

	d, err := src.Duplicate()
	require.NoError(t, err)
	dup := d.(*loss.Composite)

	assert.Equal(t, src.Name(), dup.Name())
	assert.Equal(t, src.Len(), dup.Len())
	assert.Equal(t, 0.0, dup.Value(), "duplicates start clean")
	for i, component := range dup.Components() {
		assert.NotSame(t, src.Components()[i], component)
		assert.Equal(t, src.Components()[i].Name(), component.Name())
	}

	require.NoError(t, dup.Update(labels, list(mat(t, tensor.Shape{1, 2}, 3, 0.1))))
	assert.Equal(t, before, src.Value())

	src.Reset()
	assert.NotZero(t, dup.Value())

	// Same forward behavior.
	want, err := src.Evaluate(labels, preds)
	require.NoError(t, err)
	got, err := dup.Evaluate(labels, preds)
	require.NoError(t, err)
	assert.Equal(t, want.Item(), got.Item())
}

func TestComposite_Empty(t *testing.T) {
	c := loss.NewComposite("empty", nil)
	labels := list(mat(t, tensor.Shape{1}, 1))

	err := c.Update(labels, labels)
	require.ErrorIs(t, err, loss.ErrEmptyComposition)
	assert.Contains(t, err.Error(), "empty")

	_, err = c.Evaluate(labels, labels)
	assert.ErrorIs(t, err, loss.ErrEmptyComposition)

	_, err = c.Duplicate()
	assert.ErrorIs(t, err, loss.ErrEmptyComposition)

	assert.Equal(t, 0.0, c.Value())
	c.Reset()
}

func TestComposite_Add(t *testing.T) {
	c := loss.NewComposite("heads", nil).
		Add(loss.NewMSE(backend)).
		Add(loss.NewL1(backend))
	assert.Equal(t, 2, c.Len())

	v, err := c.Evaluate(list(mat(t, tensor.Shape{1}, 0)), list(mat(t, tensor.Shape{1}, 2)))
	require.NoError(t, err)
	assert.InDelta(t, 6.0, v.Item(), 1e-12)
}

func TestComposite_ComponentsIsACopy(t *testing.T) {
	c := detector()
	components := c.Components()
	components[0] = nil
	assert.NotNil(t, c.Components()[0])
}

func TestComposite_ShapeMismatchBetweenComponents(t *testing.T) {
	c := loss.NewComposite("odd", nil,
		&stubLoss{name: "a", out: mat(t, tensor.Shape{2}, 1, 2)},
		&stubLoss{name: "b", out: mat(t, tensor.Shape{3}, 1, 2, 3)},
	)
	labels := list(mat(t, tensor.Shape{1}, 0))

	_, err := c.Evaluate(labels, labels)
	assert.ErrorIs(t, err, loss.ErrShapeMismatch)
}

func TestComposite_BroadcastsComponentResults(t *testing.T) {
	c := loss.NewComposite("mixed", nil,
		&stubLoss{name: "scalar", out: tensor.Scalar(1, backend)},
		&stubLoss{name: "vector", out: mat(t, tensor.Shape{2}, 1, 2)},
	)
	labels := list(mat(t, tensor.Shape{1}, 0))

	v, err := c.Evaluate(labels, labels)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2}, v.Shape())
	assert.Equal(t, []float64{2, 3}, v.Data())
}

func TestComposite_ComponentErrorStopsUpdate(t *testing.T) {
	boom := errors.New("boom")
	first := &stubLoss{name: "first"}
	broken := &stubLoss{name: "broken", updateErr: boom}
	last := &stubLoss{name: "last"}
	c := loss.NewComposite("chain", nil, first, broken, last)

	labels := list(mat(t, tensor.Shape{1}, 0))
	err := c.Update(labels, labels)
	require.ErrorIs(t, err, boom)

	var ce *loss.ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "chain", ce.Composite)
	assert.Equal(t, 1, ce.Index)
	assert.Equal(t, "broken", ce.Component)
	assert.Equal(t, "update", ce.Op)

	assert.Equal(t, 1, first.updates, "components before the failure keep their update")
	assert.Equal(t, 0, last.updates, "components after the failure are not updated")
}

func TestComposite_DuplicateUnsupported(t *testing.T) {
	c := loss.NewComposite("heads", nil,
		loss.NewMSE(backend),
		&stubLoss{name: "opaque", dupErr: errors.New("no copy")},
	)

	dup, err := c.Duplicate()
	assert.Nil(t, dup)
	require.ErrorIs(t, err, loss.ErrDuplicationUnsupported)

	var ce *loss.ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Index)
	assert.Equal(t, "duplicate", ce.Op)
}

func TestComposite_EvaluateNilResult(t *testing.T) {
	c := loss.NewComposite("heads", nil,
		loss.NewMSE(backend),
		&stubLoss{name: "silent"},
	)
	labels := list(mat(t, tensor.Shape{2}, 1, 2))

	var out *tensor.Tensor
	var err error
	require.NotPanics(t, func() { out, err = c.Evaluate(labels, labels) })
	assert.Nil(t, out)

	var ce *loss.ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Index)
	assert.Equal(t, "silent", ce.Component)
	assert.Equal(t, "evaluate", ce.Op)
}

// statefulRouter passes inputs through and counts Route calls.
type statefulRouter struct {
	calls  int
	dupErr error
}

func (r *statefulRouter) Route(_ int, labels, predictions *tensor.List) (*tensor.List, *tensor.List, error) {
	r.calls++
	return labels, predictions, nil
}

func (r *statefulRouter) Duplicate() (loss.Router, error) {
	if r.dupErr != nil {
		return nil, r.dupErr
	}
	return &statefulRouter{}, nil
}

func TestComposite_DuplicateStatefulRouter(t *testing.T) {
	router := &statefulRouter{}
	c := loss.NewComposite("heads", router, loss.NewMSE(backend))

	d, err := c.Duplicate()
	require.NoError(t, err)
	dup := d.(*loss.Composite)
	require.NotSame(t, router, dup.Router())

	labels := list(mat(t, tensor.Shape{2}, 1, 2))
	require.NoError(t, dup.Update(labels, labels))
	assert.Equal(t, 0, router.calls)
	assert.Equal(t, 1, dup.Router().(*statefulRouter).calls)
}

func TestComposite_DuplicateRouterUnsupported(t *testing.T) {
	tests := []struct {
		name   string
		router loss.Router
	}{
		{"router", &statefulRouter{dupErr: errors.New("no copy")}},
		{"mask rows inner", loss.MaskRows("mask", &statefulRouter{dupErr: errors.New("no copy")})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loss.NewComposite("heads", tt.router, loss.NewMSE(backend))

			dup, err := c.Duplicate()
			assert.Nil(t, dup)
			assert.ErrorIs(t, err, loss.ErrDuplicationUnsupported)
		})
	}
}

func TestComposite_DuplicateMaskRowsCopiesInner(t *testing.T) {
	inner := &statefulRouter{}
	c := loss.NewComposite("heads", loss.MaskRows("mask", inner), loss.NewMSE(backend))

	d, err := c.Duplicate()
	require.NoError(t, err)

	labels := tensor.NewList()
	require.NoError(t, labels.AppendNamed("y", mat(t, tensor.Shape{2, 1}, 1, 2)))
	require.NoError(t, labels.AppendNamed("mask", mat(t, tensor.Shape{2}, 1, 0)))
	preds := list(mat(t, tensor.Shape{2, 1}, 1, 0))

	require.NoError(t, d.Update(labels, preds))
	assert.Equal(t, 0, inner.calls)

	require.NoError(t, c.Update(labels, preds))
	assert.Equal(t, 1, inner.calls)
}

func TestComposite_RoutingError(t *testing.T) {
	c := loss.NewComposite("heads", loss.SelectIndex([]int{0}, []int{5}),
		loss.NewMSE(backend),
		loss.NewMSE(backend),
	)
	labels := list(mat(t, tensor.Shape{1}, 0))

	err := c.Update(labels, labels)
	require.ErrorIs(t, err, loss.ErrRouting)
	assert.ErrorIs(t, err, tensor.ErrIndexOutOfRange)

	var ce *loss.ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Index)
	assert.Empty(t, ce.Component)
}

func TestComposite_Nested(t *testing.T) {
	// heads = [detector on entry 0, weighted MSE on entry 1]
	inner := detector()
	outer := loss.NewComposite("model", loss.SelectIndex([]int{0}, []int{1}),
		inner,
		loss.NewWeighted(loss.NewMSE(backend, loss.WithName("depth")), 0.5),
	)

	labels := list(
		mat(t, tensor.Shape{1, 2}, 1, 0),
		mat(t, tensor.Shape{1}, 2),
	)
	preds := list(
		mat(t, tensor.Shape{1, 2}, 0.5, 0.5),
		mat(t, tensor.Shape{1}, 0),
	)

	v, err := outer.Evaluate(labels, preds)
	require.NoError(t, err)
	want := 0.25 + math.Ln2 + 0.5*4
	assert.InDelta(t, want, v.Item(), 1e-9)

	require.NoError(t, outer.Update(labels, preds))
	assert.InDelta(t, want, outer.Value(), 1e-9)
	assert.InDelta(t, 0.25+math.Ln2, inner.Value(), 1e-9)

	d, err := outer.Duplicate()
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.Value())

	outer.Reset()
	assert.Equal(t, 0.0, inner.Value())
}

func TestComposite_MaskRows(t *testing.T) {
	// Rows 0 and 2 contain an object; box regression sees only those.
	labels := tensor.NewList()
	require.NoError(t, labels.AppendNamed("box", mat(t, tensor.Shape{3, 1}, 1, 9, 3)))
	require.NoError(t, labels.AppendNamed("object", mat(t, tensor.Shape{3}, 1, 0, 1)))
	preds := tensor.NewList()
	require.NoError(t, preds.AppendNamed("box", mat(t, tensor.Shape{3, 1}, 2, 0, 3)))

	c := loss.NewComposite("boxes", loss.MaskRows("object", nil), loss.NewMSE(backend))

	v, err := c.Evaluate(labels, preds)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v.Item(), 1e-12)

	// No objects at all: the update counts, the mean stays put.
	require.NoError(t, c.Update(labels, preds))
	none := tensor.NewList()
	require.NoError(t, none.AppendNamed("box", mat(t, tensor.Shape{3, 1}, 1, 9, 3)))
	require.NoError(t, none.AppendNamed("object", mat(t, tensor.Shape{3}, 0, 0, 0)))
	require.NoError(t, c.Update(none, preds))
	assert.InDelta(t, 0.5, c.Value(), 1e-12)
}
