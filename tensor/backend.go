// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/galerkin-ml/galerkin/internal/tensor"

// Backend defines the compute interface the operator layers are written
// against. Implementations own the kernels; tensors are passed in and new
// tensors come back.
//
// Implementations:
//   - backend/cpu: pure Go reference backend, including the real-FFT
//     capability the spectral layers require
//
// Backends may implement additional capability interfaces; layers assert
// for them at construction. The CPU backend provides activations (ReLU,
// Sigmoid, Tanh, GELU) and N-dimensional real FFTs on top of this core set.
//
// Example:
//
//	import (
//	    "github.com/galerkin-ml/galerkin/backend/cpu"
//	    "github.com/galerkin-ml/galerkin/tensor"
//	)
//
//	b := cpu.New()
//	x := tensor.Full(tensor.Shape{2, 3}, 1.0)
//	y := tensor.Full(tensor.Shape{2, 3}, 2.0)
//	z := b.Add(x, y)
type Backend interface {
	// Element-wise operations.
	Add(a, b *Tensor) *Tensor // Element-wise addition with broadcasting.

	// Matrix operations.
	MatMul(a, b *Tensor) *Tensor      // 2-D matrix multiplication.
	BatchMatMul(a, b *Tensor) *Tensor // Batched over leading dimensions.

	// Convolution: stride 1, zero same-padding, odd kernels, channel-last
	// layout (spatial..., channels, batch).
	Conv(x, kernel, bias *Tensor) *Tensor

	// Shape operations.
	Reshape(t *Tensor, shape Shape) *Tensor // Same element count, new shape.
	Transpose(t *Tensor, axes ...int) *Tensor

	// Metadata.
	Name() string
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
