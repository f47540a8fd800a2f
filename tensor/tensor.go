// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensors in Galerkin.
//
// The package re-exports the core types and creation functions:
//   - Tensor: flat row-major buffer with shape and data type
//   - Shape, DataType: dimension and element-type descriptors
//   - Backend: interface for compute implementations
package tensor

import (
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Type aliases for public API

// DType constrains the element types a tensor can be built from.
// Supported types: float64, complex128.
type DType = tensor.DType

// DataType identifies the element type of a tensor at runtime.
type DataType = tensor.DataType

// Data type constants.
const (
	Float64    DataType = tensor.Float64
	Complex128 DataType = tensor.Complex128
)

// Shape holds the extent of each tensor dimension.
// Example: Shape{2, 1024, 8} is a rank-3 tensor with 2*1024*8 elements.
type Shape = tensor.Shape

// Tensor is a dense row-major tensor of Float64 or Complex128 elements.
//
// A Tensor owns a flat byte buffer; AsFloat64 and AsComplex128 expose typed
// views of it. Tensors do not carry a backend: operations live on Backend
// implementations, which receive tensors as arguments.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{3, 4}, tensor.Float64)
//	data := x.AsFloat64()
//	data[0] = 1.5
type Tensor = tensor.Tensor

// Creation functions

// New creates a zero-filled tensor, validating the shape.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	return tensor.New(shape, dtype)
}

// MustNew creates a zero-filled tensor and panics on an invalid shape.
func MustNew(shape Shape, dtype DataType) *Tensor {
	return tensor.MustNew(shape, dtype)
}

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float64)
func Zeros(shape Shape, dtype DataType) *Tensor {
	return tensor.Zeros(shape, dtype)
}

// Full creates a Float64 tensor filled with a specific value.
//
// Example:
//
//	x := tensor.Full(tensor.Shape{2, 3}, 3.14)
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// FromSlice creates a tensor from a Go slice. The slice length must match
// the shape's element count.
//
// Example:
//
//	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Randn creates a Float64 tensor with standard normal entries drawn from
// rng.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	return tensor.Randn(shape, rng)
}

// Uniform creates a Float64 tensor with entries drawn uniformly from
// [-bound, bound).
func Uniform(shape Shape, bound float64, rng *rand.Rand) *Tensor {
	return tensor.Uniform(shape, bound, rng)
}

// UniformComplex creates a Complex128 tensor whose real and imaginary parts
// are drawn uniformly from [-bound, bound).
func UniformComplex(shape Shape, bound float64, rng *rand.Rand) *Tensor {
	return tensor.UniformComplex(shape, bound, rng)
}

// Utility functions

// BroadcastShapes computes the broadcast shape of two shapes following
// NumPy alignment rules. The boolean reports whether either operand needs
// broadcasting.
//
// Example:
//
//	result, needsBroadcast, err := tensor.BroadcastShapes(
//	    tensor.Shape{3, 1},
//	    tensor.Shape{3, 4},
//	)
//	// result = [3 4], needsBroadcast = true
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
