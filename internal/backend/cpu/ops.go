package cpu

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/lossmix/internal/tensor"
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.binary("add", a, b, floats.AddTo, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.binary("sub", a, b, floats.SubTo, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.binary("mul", a, b, floats.MulTo, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return cpu.binary("div", a, b, floats.DivTo, func(x, y float64) float64 { return x / y })
}

// binary dispatches to the vectorized kernel when shapes match and to the
// broadcasting loop otherwise.
func (cpu *CPUBackend) binary(
	op string,
	a, b *tensor.Tensor,
	vectorized func(dst, s, t []float64) []float64,
	scalar func(x, y float64) float64,
) (*tensor.Tensor, error) {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		if se, ok := err.(*tensor.ShapeError); ok {
			se.Op = op
		}
		return nil, err
	}

	out := make([]float64, outShape.NumElements())
	if !needsBroadcast {
		vectorized(out, a.Data(), b.Data())
	} else {
		cpu.broadcast(out, outShape, a, b, scalar)
	}
	return tensor.New(outShape, out, cpu), nil
}
