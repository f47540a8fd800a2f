// Package spectral implements truncated-frequency spectral convolution: the
// real FFT round trip with mode truncation and the learned per-frequency
// channel mix that together form the core of a Fourier neural operator.
package spectral

import (
	"fmt"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// FourierBackend is the capability interface for the real N-dimensional FFT
// pair. The first axis of a transform carries the non-redundant half
// spectrum; IRFFTN needs the original extent of that axis because lengths n
// and n+1 (n even) produce half spectra of the same size.
type FourierBackend interface {
	RFFTN(x *tensor.Tensor, axes []int) *tensor.Tensor
	IRFFTN(x *tensor.Tensor, axes []int, n int) *tensor.Tensor
}

// FourierTransform applies the real discrete Fourier transform over a fixed
// set of spatial axes and truncates the result to a configured number of
// retained modes per axis. Retained modes are the leading frequency
// indices, so truncation acts as a low-pass filter.
type FourierTransform struct {
	backend FourierBackend

	// modes[i] is the number of frequency bins retained along axes[i].
	modes []int
	// axes are the transformed (spatial) dimensions, strictly ascending.
	axes []int
}

// NewFourierTransform creates a transform over the given axes. The backend
// must provide the FFT capability, and modes and axes must pair up.
func NewFourierTransform(b tensor.Backend, modes, axes []int) (*FourierTransform, error) {
	fb, ok := b.(FourierBackend)
	if !ok {
		return nil, fmt.Errorf("spectral: backend %q does not support Fourier transforms", b.Name())
	}
	if len(modes) == 0 || len(modes) != len(axes) {
		return nil, fmt.Errorf("spectral: %d mode counts for %d transform axes", len(modes), len(axes))
	}
	for i, m := range modes {
		if m < 1 {
			return nil, fmt.Errorf("spectral: axis %d must retain at least one mode, got %d", axes[i], m)
		}
	}
	for i, ax := range axes {
		if ax < 0 {
			return nil, fmt.Errorf("spectral: transform axis %d is negative", ax)
		}
		if i > 0 && ax <= axes[i-1] {
			return nil, fmt.Errorf("spectral: transform axes %v must be strictly ascending", axes)
		}
	}
	return &FourierTransform{
		backend: fb,
		modes:   append([]int(nil), modes...),
		axes:    append([]int(nil), axes...),
	}, nil
}

// Modes returns the configured per-axis mode counts.
func (ft *FourierTransform) Modes() []int {
	return append([]int(nil), ft.modes...)
}

// Axes returns the transformed axes.
func (ft *FourierTransform) Axes() []int {
	return append([]int(nil), ft.axes...)
}

// Forward computes the full (untruncated) real transform of x over the
// configured axes. The first transformed axis of the result has
// floor(n/2)+1 bins; the remaining transformed axes keep their extent.
func (ft *FourierTransform) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	shape := x.Shape()
	if last := ft.axes[len(ft.axes)-1]; last >= len(shape) {
		return nil, fmt.Errorf("spectral: transform axes %v exceed input rank %d", ft.axes, len(shape))
	}
	return ft.backend.RFFTN(x, ft.axes), nil
}

// Truncate keeps the first configured number of bins along every
// transformed axis. Requesting more modes than the spectrum provides is a
// configuration error, never a silent clamp.
func (ft *FourierTransform) Truncate(spectrum *tensor.Tensor) (*tensor.Tensor, error) {
	shape := spectrum.Shape()
	outShape := shape.Clone()
	for i, ax := range ft.axes {
		if ft.modes[i] > shape[ax] {
			return nil, fmt.Errorf("spectral: axis %d retains %d modes but the spectrum has only %d bins",
				ax, ft.modes[i], shape[ax])
		}
		outShape[ax] = ft.modes[i]
	}

	out := tensor.MustNew(outShape, tensor.Complex128)
	copyBlock(out.AsComplex128(), spectrum.AsComplex128(), outShape, shape.ComputeStrides())
	return out, nil
}

// Pad zero-fills a truncated spectrum back to the full frequency extent
// implied by the target spatial size: floor(n_1/2)+1 bins on the first
// transformed axis and the plain extent elsewhere. The retained modes stay
// at the leading indices.
func (ft *FourierTransform) Pad(spectrum *tensor.Tensor, spatial tensor.Shape) (*tensor.Tensor, error) {
	if len(spatial) != len(ft.axes) {
		return nil, fmt.Errorf("spectral: %d spatial extents for %d transform axes", len(spatial), len(ft.axes))
	}
	shape := spectrum.Shape()
	outShape := shape.Clone()
	for i, ax := range ft.axes {
		bins := spatial[i]
		if i == 0 {
			bins = spatial[i]/2 + 1
		}
		if shape[ax] > bins {
			return nil, fmt.Errorf("spectral: axis %d holds %d modes but the target size %d provides only %d bins",
				ax, shape[ax], spatial[i], bins)
		}
		outShape[ax] = bins
	}

	out := tensor.Zeros(outShape, tensor.Complex128)
	scatterBlock(out.AsComplex128(), spectrum.AsComplex128(), shape, outShape.ComputeStrides())
	return out, nil
}

// Inverse recovers a real tensor from a full-extent spectrum. n1 is the
// original extent of the first transformed axis; it must be consistent with
// the spectrum's bin count.
func (ft *FourierTransform) Inverse(spectrum *tensor.Tensor, n1 int) (*tensor.Tensor, error) {
	shape := spectrum.Shape()
	first := ft.axes[0]
	if first >= len(shape) {
		return nil, fmt.Errorf("spectral: transform axes %v exceed spectrum rank %d", ft.axes, len(shape))
	}
	if shape[first] != n1/2+1 {
		return nil, fmt.Errorf("spectral: axis %d has %d bins, which cannot come from a length-%d transform",
			first, shape[first], n1)
	}
	return ft.backend.IRFFTN(spectrum, ft.axes, n1), nil
}

// copyBlock copies the leading block of the given shape out of a larger
// tensor: dst is dense over shape, src is addressed with srcStrides at the
// same coordinates.
func copyBlock(dst, src []complex128, shape tensor.Shape, srcStrides []int) {
	idx := make([]int, len(shape))
	for i := range dst {
		off := 0
		for d, v := range idx {
			off += v * srcStrides[d]
		}
		dst[i] = src[off]
		advance(idx, shape)
	}
}

// scatterBlock writes a dense block into the leading corner of a larger
// tensor: src is dense over shape, dst is addressed with dstStrides.
func scatterBlock(dst, src []complex128, shape tensor.Shape, dstStrides []int) {
	idx := make([]int, len(shape))
	for i := range src {
		off := 0
		for d, v := range idx {
			off += v * dstStrides[d]
		}
		dst[off] = src[i]
		advance(idx, shape)
	}
}

func advance(idx []int, shape tensor.Shape) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return
		}
		idx[i] = 0
	}
}
