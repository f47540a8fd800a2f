// Package cpu implements the pure-Go CPU backend used by the operator
// layers. Kernels are written as straightforward loops over typed views of
// the tensor buffers; each public method dispatches on the data type and
// panics on dtype or shape misuse, which indicates a bug in the caller
// rather than a recoverable condition.
package cpu

import (
	"fmt"

	"github.com/galerkin-ml/galerkin/internal/parallel"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// workers splits FFT lines and batched matrix products across goroutines.
// Every parallel iteration writes a disjoint output region, so results are
// identical to the sequential order.
var workers = parallel.Default()

// CPUBackend executes tensor operations on the host CPU. It holds no state,
// so a single instance is safe for concurrent use.
type CPUBackend struct{}

// New creates a CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend identifier.
func (cpu *CPUBackend) Name() string {
	return "cpu"
}

// Add performs element-wise addition with broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.Tensor) *tensor.Tensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("cpu: Add dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: Add: %v", err))
	}

	result := tensor.MustNew(outShape, a.DType())

	if !needsBroadcast {
		switch a.DType() {
		case tensor.Float64:
			addFloat64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
		case tensor.Complex128:
			addComplex128(result.AsComplex128(), a.AsComplex128(), b.AsComplex128())
		}
		return result
	}

	aStrides := broadcastStrides(a.Shape(), a.Strides(), outShape)
	bStrides := broadcastStrides(b.Shape(), b.Strides(), outShape)

	switch a.DType() {
	case tensor.Float64:
		addBroadcastFloat64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outShape, aStrides, bStrides)
	case tensor.Complex128:
		addBroadcastComplex128(result.AsComplex128(), a.AsComplex128(), b.AsComplex128(), outShape, aStrides, bStrides)
	}
	return result
}

func addFloat64(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func addComplex128(dst, a, b []complex128) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func addBroadcastFloat64(dst, a, b []float64, shape tensor.Shape, aStrides, bStrides []int) {
	idx := make([]int, len(shape))
	for i := range dst {
		dst[i] = a[flatOffset(idx, aStrides)] + b[flatOffset(idx, bStrides)]
		incrementIndex(idx, shape)
	}
}

func addBroadcastComplex128(dst, a, b []complex128, shape tensor.Shape, aStrides, bStrides []int) {
	idx := make([]int, len(shape))
	for i := range dst {
		dst[i] = a[flatOffset(idx, aStrides)] + b[flatOffset(idx, bStrides)]
		incrementIndex(idx, shape)
	}
}

// Reshape returns a copy of t with the given shape. The element count must
// be preserved.
func (cpu *CPUBackend) Reshape(t *tensor.Tensor, shape tensor.Shape) *tensor.Tensor {
	result, err := t.WithShape(shape)
	if err != nil {
		panic(fmt.Sprintf("cpu: Reshape: %v", err))
	}
	return result
}

// Transpose permutes the axes of t. With no axes given the order is
// reversed; otherwise axes must be a permutation of [0, rank).
func (cpu *CPUBackend) Transpose(t *tensor.Tensor, axes ...int) *tensor.Tensor {
	rank := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("cpu: Transpose expects %d axes, got %d", rank, len(axes)))
	}
	seen := make([]bool, rank)
	for _, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			panic(fmt.Sprintf("cpu: Transpose axes %v is not a permutation of [0, %d)", axes, rank))
		}
		seen[ax] = true
	}

	srcShape := t.Shape()
	srcStrides := t.Strides()
	outShape := make(tensor.Shape, rank)
	permStrides := make([]int, rank)
	for i, ax := range axes {
		outShape[i] = srcShape[ax]
		permStrides[i] = srcStrides[ax]
	}

	result := tensor.MustNew(outShape, t.DType())
	switch t.DType() {
	case tensor.Float64:
		transposeFloat64(result.AsFloat64(), t.AsFloat64(), outShape, permStrides)
	case tensor.Complex128:
		transposeComplex128(result.AsComplex128(), t.AsComplex128(), outShape, permStrides)
	}
	return result
}

func transposeFloat64(dst, src []float64, shape tensor.Shape, srcStrides []int) {
	idx := make([]int, len(shape))
	for i := range dst {
		dst[i] = src[flatOffset(idx, srcStrides)]
		incrementIndex(idx, shape)
	}
}

func transposeComplex128(dst, src []complex128, shape tensor.Shape, srcStrides []int) {
	idx := make([]int, len(shape))
	for i := range dst {
		dst[i] = src[flatOffset(idx, srcStrides)]
		incrementIndex(idx, shape)
	}
}

// broadcastStrides maps the strides of a tensor onto a broadcast output
// shape, using stride 0 for expanded dimensions.
func broadcastStrides(shape tensor.Shape, strides []int, outShape tensor.Shape) []int {
	result := make([]int, len(outShape))
	offset := len(outShape) - len(shape)
	for i := range outShape {
		if i < offset {
			result[i] = 0
			continue
		}
		if shape[i-offset] == 1 && outShape[i] != 1 {
			result[i] = 0
		} else {
			result[i] = strides[i-offset]
		}
	}
	return result
}

// flatOffset computes the flat buffer offset for a multi-index.
func flatOffset(idx, strides []int) int {
	offset := 0
	for i, v := range idx {
		offset += v * strides[i]
	}
	return offset
}

// incrementIndex advances a multi-index in row-major (odometer) order.
func incrementIndex(idx []int, shape tensor.Shape) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return
		}
		idx[i] = 0
	}
}
