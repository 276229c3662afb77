package tensor

import "fmt"

// Narrow returns a copy of the slice [start, start+length) of dimension dim.
// The rank is preserved.
//
// Example:
//
//	t.Shape()          // [4, 3]
//	n, _ := t.Narrow(1, 1, 2)
//	n.Shape()          // [4, 2]
func (t *Tensor) Narrow(dim, start, length int) (*Tensor, error) {
	if dim < 0 || dim >= len(t.shape) {
		return nil, &ShapeError{Op: "narrow", Left: t.shape, Detail: fmt.Sprintf("no dimension %d", dim)}
	}
	if start < 0 || length < 0 || start+length > t.shape[dim] {
		return nil, &ShapeError{
			Op:     "narrow",
			Left:   t.shape,
			Detail: fmt.Sprintf("range [%d, %d) outside dimension %d of size %d", start, start+length, dim, t.shape[dim]),
		}
	}

	outShape := t.shape.Clone()
	outShape[dim] = length

	// outer: product of dims before dim; inner: product of dims after dim.
	outer := 1
	for _, d := range t.shape[:dim] {
		outer *= d
	}
	inner := 1
	for _, d := range t.shape[dim+1:] {
		inner *= d
	}

	data := make([]float64, 0, outShape.NumElements())
	for o := 0; o < outer; o++ {
		base := o * t.shape[dim] * inner
		data = append(data, t.data[base+start*inner:base+(start+length)*inner]...)
	}
	return New(outShape, data, t.backend), nil
}

// Column returns column j of a 2-D tensor as a [rows, 1] tensor.
func (t *Tensor) Column(j int) (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, &ShapeError{Op: "column", Left: t.shape, Detail: "tensor must be 2-D"}
	}
	return t.Narrow(1, j, 1)
}

// SelectRows keeps the rows (entries of dimension 0) whose mask value is
// non-zero. The mask must hold one value per row, shaped [rows] or [rows, 1].
// Keeping no rows yields a tensor with a zero-sized first dimension.
func (t *Tensor) SelectRows(mask *Tensor) (*Tensor, error) {
	if len(t.shape) == 0 {
		return nil, &ShapeError{Op: "select_rows", Left: t.shape, Right: mask.shape, Detail: "tensor has no rows"}
	}
	rows := t.shape[0]
	if mask.NumElements() != rows || (mask.Rank() == 2 && mask.shape[1] != 1) || mask.Rank() > 2 {
		return nil, &ShapeError{Op: "select_rows", Left: t.shape, Right: mask.shape, Detail: "mask needs one value per row"}
	}

	rowSize := 1
	for _, d := range t.shape[1:] {
		rowSize *= d
	}

	kept := 0
	data := make([]float64, 0, len(t.data))
	for r, m := range mask.data {
		if m == 0 {
			continue
		}
		data = append(data, t.data[r*rowSize:(r+1)*rowSize]...)
		kept++
	}

	outShape := t.shape.Clone()
	outShape[0] = kept
	return New(outShape, data, t.backend), nil
}
