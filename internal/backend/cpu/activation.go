package cpu

import (
	"math"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(t *tensor.Tensor) *tensor.Tensor {
	return mapFloat64(t, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid applies 1/(1+exp(-x)) element-wise.
func (cpu *CPUBackend) Sigmoid(t *tensor.Tensor) *tensor.Tensor {
	return mapFloat64(t, func(v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	})
}

// Tanh applies the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(t *tensor.Tensor) *tensor.Tensor {
	return mapFloat64(t, math.Tanh)
}

// GELU applies the Gaussian Error Linear Unit using the tanh approximation:
// 0.5*x*(1+tanh(sqrt(2/pi)*(x+0.044715*x^3))).
func (cpu *CPUBackend) GELU(t *tensor.Tensor) *tensor.Tensor {
	const c = 0.7978845608028654 // sqrt(2/pi)
	return mapFloat64(t, func(v float64) float64 {
		return 0.5 * v * (1 + math.Tanh(c*(v+0.044715*v*v*v)))
	})
}

func mapFloat64(t *tensor.Tensor, fn func(float64) float64) *tensor.Tensor {
	if t.DType() != tensor.Float64 {
		panic("cpu: activation kernels require Float64 tensors")
	}
	result := tensor.MustNew(t.Shape(), tensor.Float64)
	dst, src := result.AsFloat64(), t.AsFloat64()
	for i, v := range src {
		dst[i] = fn(v)
	}
	return result
}
