// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense tensors underlying the Galerkin
// operator layers.
//
// # Overview
//
// Tensors are flat, row-major buffers with a shape and one of two data
// types:
//   - Float64 for function values on grids
//   - Complex128 for Fourier-space coefficients
//
// Compute is delegated to a Backend; the layers in package operator accept
// any implementation. The CPU backend in backend/cpu is the reference one.
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
//	    x := tensor.Zeros(tensor.Shape{2, 1024, 8}, tensor.Float64)
//	    y := tensor.Full(tensor.Shape{2, 1024, 8}, 1.0)
//
//	    z := b.Add(x, y)
//	    _ = z
//	}
//
// # Layout Conventions
//
// Operator layers interpret the trailing axis as the batch. A channel-first
// field on a d-dimensional grid has shape (C, n_1, ..., n_d, B); the
// permuted layout moves channels after the grid: (n_1, ..., n_d, C, B).
//
// # Randomness
//
// Random creation functions take an explicit *rand.Rand so parameter
// initialization is reproducible:
//
//	rng := rand.New(rand.NewSource(42))
//	w := tensor.Randn(tensor.Shape{64, 2}, rng)
package tensor
