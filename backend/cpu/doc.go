// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for Galerkin.
//
// # Overview
//
// The backend implements:
//   - Element-wise addition with NumPy-style broadcasting
//   - Matrix and batched matrix multiplication, real and complex
//   - N-dimensional stride-1 same-padding convolution
//   - N-dimensional real FFTs (half spectrum on the leading transform axis)
//     built on gonum's dsp/fourier package
//   - ReLU, Sigmoid, Tanh and GELU activations
//
// # Basic Usage
//
//	import (
//	    "github.com/galerkin-ml/galerkin/backend/cpu"
//	    "github.com/galerkin-ml/galerkin/tensor"
//	)
//
//	func main() {
//	    b := cpu.New()
//
//	    x := tensor.Full(tensor.Shape{2, 3}, 1.0)
//	    y := tensor.Full(tensor.Shape{2, 3}, 2.0)
//	    z := b.Add(x, y)
//	    _ = z
//	}
//
// # Thread Safety
//
// The backend holds no state, so a single instance is safe for concurrent
// use. Heavy kernels (FFT lines, batched matrix products) split their work
// across goroutines internally; results are independent of the split.
package cpu
