// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package operator

import (
	"github.com/galerkin-ml/galerkin/internal/spectral"
	"github.com/galerkin-ml/galerkin/tensor"
)

// FourierBackend is the capability interface for N-dimensional real FFTs.
// The spectral layers assert for it at construction; the CPU backend
// implements it.
type FourierBackend = spectral.FourierBackend

// FourierTransform bundles the forward real FFT, frequency truncation,
// zero-padding and the inverse transform for a fixed set of modes and
// transform axes.
type FourierTransform = spectral.FourierTransform

// NewFourierTransform creates a transform retaining modes[i] frequency bins
// along axes[i]. Axes must be strictly ascending; the first one carries the
// half spectrum.
//
// Example:
//
//	ft, err := operator.NewFourierTransform(b, []int{16}, []int{1})
func NewFourierTransform(b tensor.Backend, modes, axes []int) (*FourierTransform, error) {
	return spectral.NewFourierTransform(b, modes, axes)
}

// SpectralConv mixes channels per retained frequency: transform, truncate,
// one batched complex matrix multiply across all retained bins, pad back,
// inverse transform. The output is real by construction.
type SpectralConv = spectral.SpectralConv

// NewSpectralConv creates a spectral convolution with in input channels,
// out output channels and the given modes per spatial axis. permuted
// selects the (spatial..., channels, batch) layout.
//
// Example:
//
//	sc, err := operator.NewSpectralConv(b, 64, 64, []int{16}, false)
func NewSpectralConv(b tensor.Backend, in, out int, modes []int, permuted bool) (*SpectralConv, error) {
	return spectral.NewSpectralConv(b, in, out, modes, permuted)
}
