// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package operator provides neural operator architectures: layers that
// learn mappings between function spaces rather than between fixed-size
// vectors.
//
// # Overview
//
// Two architecture families are provided:
//   - FourierNeuralOperator: lifting, a stack of residual spectral blocks,
//     and projection. Each block mixes channels in truncated Fourier space
//     and adds a learned spatial path.
//   - DeepONet: a branch network encoding the sampled input function and a
//     trunk network encoding query locations, contracted over a shared
//     latent dimension.
//
// The building blocks (Dense, Conv, Chain, SpectralConv, OperatorKernel)
// are exported as well, so custom operator variants can be assembled from
// the same parts.
//
// # Functional Layers
//
// Layers are immutable descriptions of computations. Parameters and state
// live in Record trees created by Init and passed explicitly to Apply:
//
//	b := cpu.New()
//	fno, err := operator.NewFNO(b, operator.FNOConfig{
//	    Channels:   []int{2, 64, 64, 128, 1},
//	    Modes:      []int{16},
//	    Activation: operator.GELU,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rng := rand.New(rand.NewSource(42))
//	params, state := fno.Init(rng)
//
//	x := tensor.Randn(tensor.Shape{2, 1024, 8}, rng) // (channels, grid, batch)
//	y, state, err := fno.Apply(x, params, state)     // (1, 1024, 8)
//
// Because Apply never mutates its arguments, one layer value can serve
// concurrent evaluations with independent parameter records.
//
// # Layouts
//
// Field tensors are channel-first (channels, spatial..., batch) by default.
// Setting Permuted selects (spatial..., channels, batch), in which case
// lifting and projection become size-1 convolutions.
//
// # Checkpoints
//
// Parameter records serialize to .gkn snapshot files:
//
//	err = operator.SaveRecord("fno.gkn", params, "FourierNeuralOperator", nil)
//	params, header, err := operator.LoadRecord("fno.gkn")
package operator
