package cpu

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/lossmix/internal/tensor"
)

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.Tensor, scalar float64) *tensor.Tensor {
	out := make([]float64, x.NumElements())
	copy(out, x.Data())
	floats.Scale(scalar, out)
	return tensor.New(x.Shape(), out, cpu)
}

// AddScalar adds scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.Tensor, scalar float64) *tensor.Tensor {
	out := make([]float64, x.NumElements())
	copy(out, x.Data())
	floats.AddConst(scalar, out)
	return tensor.New(x.Shape(), out, cpu)
}

// Abs computes |x| element-wise.
func (cpu *CPUBackend) Abs(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, math.Abs)
}

// Exp computes e^x element-wise.
func (cpu *CPUBackend) Exp(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, math.Exp)
}

// Log computes the natural logarithm element-wise.
func (cpu *CPUBackend) Log(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, math.Log)
}

func (cpu *CPUBackend) unary(x *tensor.Tensor, fn func(float64) float64) *tensor.Tensor {
	src := x.Data()
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = fn(v)
	}
	return tensor.New(x.Shape(), out, cpu)
}
