package cpu

import (
	"fmt"

	"github.com/galerkin-ml/galerkin/internal/parallel"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication over the trailing two
// dimensions: [..., M, K] @ [..., K, N] -> [..., M, N]. The leading batch
// dimensions must match exactly; broadcasting across batches is not
// supported.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.Tensor) *tensor.Tensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("cpu: BatchMatMul dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) < 2 || len(bShape) < 2 {
		panic(fmt.Sprintf("cpu: BatchMatMul expects rank >= 2, got %v and %v", aShape, bShape))
	}
	if len(aShape) != len(bShape) {
		panic(fmt.Sprintf("cpu: BatchMatMul rank mismatch: %v vs %v", aShape, bShape))
	}

	rank := len(aShape)
	batchSize := 1
	for i := 0; i < rank-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("cpu: BatchMatMul batch dimensions mismatch: %v vs %v", aShape, bShape))
		}
		batchSize *= aShape[i]
	}

	m, k := aShape[rank-2], aShape[rank-1]
	if bShape[rank-2] != k {
		panic(fmt.Sprintf("cpu: BatchMatMul inner dimensions mismatch: %v @ %v", aShape, bShape))
	}
	n := bShape[rank-1]

	outShape := make(tensor.Shape, rank)
	copy(outShape, aShape[:rank-2])
	outShape[rank-2], outShape[rank-1] = m, n
	result := tensor.MustNew(outShape, a.DType())

	switch a.DType() {
	case tensor.Float64:
		batchMatmulFloat64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), batchSize, m, k, n)
	case tensor.Complex128:
		batchMatmulComplex128(result.AsComplex128(), a.AsComplex128(), b.AsComplex128(), batchSize, m, k, n)
	}
	return result
}

func batchMatmulFloat64(c, a, b []float64, batchSize, m, k, n int) {
	parallel.For(batchSize, workers, func(batch int) {
		aOff := batch * m * k
		bOff := batch * k * n
		cOff := batch * m * n
		matmulFloat64(c[cOff:cOff+m*n], a[aOff:aOff+m*k], b[bOff:bOff+k*n], m, k, n)
	})
}

func batchMatmulComplex128(c, a, b []complex128, batchSize, m, k, n int) {
	parallel.For(batchSize, workers, func(batch int) {
		aOff := batch * m * k
		bOff := batch * k * n
		cOff := batch * m * n
		matmulComplex128(c[cOff:cOff+m*n], a[aOff:aOff+m*k], b[bOff:bOff+k*n], m, k, n)
	})
}
