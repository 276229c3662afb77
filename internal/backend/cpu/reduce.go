package cpu

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/lossmix/internal/tensor"
)

// Sum returns the sum of all elements.
func (cpu *CPUBackend) Sum(x *tensor.Tensor) float64 {
	return floats.Sum(x.Data())
}

// Mean returns the average of all elements, or 0 for an empty tensor.
func (cpu *CPUBackend) Mean(x *tensor.Tensor) float64 {
	if x.NumElements() == 0 {
		return 0
	}
	return stat.Mean(x.Data(), nil)
}

// LogSumExp reduces the last dimension: out[r] = log Σ_j exp(x[r, j]).
//
// gonum's LogSumExp subtracts the row maximum before exponentiating, so
// logits beyond float range do not overflow.
func (cpu *CPUBackend) LogSumExp(x *tensor.Tensor) *tensor.Tensor {
	shape := x.Shape()
	if len(shape) == 0 {
		return tensor.Scalar(x.Item(), cpu)
	}

	last := shape[len(shape)-1]
	outShape := shape[:len(shape)-1].Clone()
	rows := outShape.NumElements()
	out := make([]float64, rows)
	data := x.Data()
	for r := 0; r < rows; r++ {
		if last == 0 {
			out[r] = math.Inf(-1)
			continue
		}
		out[r] = floats.LogSumExp(data[r*last : (r+1)*last])
	}
	return tensor.New(outShape, out, cpu)
}
