package cpu

import (
	"fmt"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// MatMul performs 2-D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (cpu *CPUBackend) MatMul(a, b *tensor.Tensor) *tensor.Tensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("cpu: MatMul dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("cpu: MatMul expects 2-D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("cpu: MatMul inner dimensions mismatch: %v @ %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	result := tensor.MustNew(tensor.Shape{m, n}, a.DType())

	switch a.DType() {
	case tensor.Float64:
		matmulFloat64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	case tensor.Complex128:
		matmulComplex128(result.AsComplex128(), a.AsComplex128(), b.AsComplex128(), m, k, n)
	}
	return result
}

// matmulFloat64 is the scalar kernel. The loop order (i, l, j) keeps the
// innermost access pattern contiguous in both b and c.
func matmulFloat64(c, a, b []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		ci := c[i*n : (i+1)*n]
		for l := 0; l < k; l++ {
			av := a[i*k+l]
			if av == 0 {
				continue
			}
			bl := b[l*n : (l+1)*n]
			for j := 0; j < n; j++ {
				ci[j] += av * bl[j]
			}
		}
	}
}

func matmulComplex128(c, a, b []complex128, m, k, n int) {
	for i := 0; i < m; i++ {
		ci := c[i*n : (i+1)*n]
		for l := 0; l < k; l++ {
			av := a[i*k+l]
			if av == 0 {
				continue
			}
			bl := b[l*n : (l+1)*n]
			for j := 0; j < n; j++ {
				ci[j] += av * bl[j]
			}
		}
	}
}
