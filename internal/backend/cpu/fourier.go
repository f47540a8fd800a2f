package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/galerkin-ml/galerkin/internal/parallel"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// RFFTN computes the N-dimensional discrete Fourier transform of a real
// tensor along the given axes. The first axis in axes carries the
// non-redundant half spectrum of floor(n/2)+1 bins; the remaining axes are
// transformed with full complex FFTs. Axes must be sorted ascending and
// refer to distinct dimensions of x.
//
// The transform is unnormalized, matching the gonum convention: the
// combined scale factor is applied once by IRFFTN.
func (cpu *CPUBackend) RFFTN(x *tensor.Tensor, axes []int) *tensor.Tensor {
	if x.DType() != tensor.Float64 {
		panic("cpu: RFFTN requires a Float64 tensor")
	}
	validateAxes(axes, len(x.Shape()))

	realAxis := axes[0]
	n := x.Shape()[realAxis]
	halfLen := n/2 + 1

	outShape := x.Shape().Clone()
	outShape[realAxis] = halfLen
	result := tensor.MustNew(outShape, tensor.Complex128)

	src := x.AsFloat64()
	dst := result.AsComplex128()
	srcStride := x.Shape().ComputeStrides()[realAxis]
	dstStride := outShape.ComputeStrides()[realAxis]
	srcBases := lineBases(x.Shape(), realAxis)
	dstBases := lineBases(outShape, realAxis)

	// gonum plans carry internal scratch, so each chunk gets its own.
	parallel.Chunks(len(srcBases), workers, func(start, end int) {
		plan := fourier.NewFFT(n)
		line := make([]float64, n)
		coeff := make([]complex128, halfLen)
		for li := start; li < end; li++ {
			base := srcBases[li]
			for i := range line {
				line[i] = src[base+i*srcStride]
			}
			plan.Coefficients(coeff, line)
			dstBase := dstBases[li]
			for i, c := range coeff {
				dst[dstBase+i*dstStride] = c
			}
		}
	})

	for _, axis := range axes[1:] {
		cfftAxis(result, axis, false)
	}
	return result
}

// IRFFTN inverts RFFTN, recovering a real tensor from a half-spectrum
// representation. n is the original extent of the first transformed axis,
// which cannot be deduced from the spectrum alone: both n and n+1 produce a
// half spectrum of the same length when n is even. The full 1/prod(n_i)
// normalization over the transformed axes is applied here.
func (cpu *CPUBackend) IRFFTN(x *tensor.Tensor, axes []int, n int) *tensor.Tensor {
	if x.DType() != tensor.Complex128 {
		panic("cpu: IRFFTN requires a Complex128 tensor")
	}
	validateAxes(axes, len(x.Shape()))

	realAxis := axes[0]
	halfLen := n/2 + 1
	if x.Shape()[realAxis] != halfLen {
		panic(fmt.Sprintf("cpu: IRFFTN axis %d has %d bins, want %d for length %d",
			realAxis, x.Shape()[realAxis], halfLen, n))
	}

	// Undo the full complex transforms in reverse order, on a copy so the
	// input spectrum is left untouched.
	work := x.Clone()
	for i := len(axes) - 1; i >= 1; i-- {
		cfftAxis(work, axes[i], true)
	}

	outShape := x.Shape().Clone()
	outShape[realAxis] = n
	result := tensor.MustNew(outShape, tensor.Float64)

	src := work.AsComplex128()
	dst := result.AsFloat64()
	srcStride := work.Shape().ComputeStrides()[realAxis]
	dstStride := outShape.ComputeStrides()[realAxis]
	srcBases := lineBases(work.Shape(), realAxis)
	dstBases := lineBases(outShape, realAxis)

	parallel.Chunks(len(srcBases), workers, func(start, end int) {
		plan := fourier.NewFFT(n)
		coeff := make([]complex128, halfLen)
		line := make([]float64, n)
		for li := start; li < end; li++ {
			base := srcBases[li]
			for i := range coeff {
				coeff[i] = src[base+i*srcStride]
			}
			plan.Sequence(line, coeff)
			dstBase := dstBases[li]
			for i, v := range line {
				dst[dstBase+i*dstStride] = v
			}
		}
	})

	scale := 1 / float64(n)
	for _, axis := range axes[1:] {
		scale /= float64(x.Shape()[axis])
	}
	floats.Scale(scale, dst)
	return result
}

// cfftAxis applies an unnormalized complex FFT (or its inverse) in place
// along one axis of t. Lines along the axis are independent, so chunks run
// concurrently with per-chunk plans.
func cfftAxis(t *tensor.Tensor, axis int, inverse bool) {
	shape := t.Shape()
	n := shape[axis]
	data := t.AsComplex128()
	stride := shape.ComputeStrides()[axis]
	bases := lineBases(shape, axis)

	parallel.Chunks(len(bases), workers, func(start, end int) {
		plan := fourier.NewCmplxFFT(n)
		line := make([]complex128, n)
		out := make([]complex128, n)
		for li := start; li < end; li++ {
			base := bases[li]
			for i := range line {
				line[i] = data[base+i*stride]
			}
			if inverse {
				plan.Sequence(out, line)
			} else {
				plan.Coefficients(out, line)
			}
			for i, c := range out {
				data[base+i*stride] = c
			}
		}
	})
}

// lineBases returns the flat offsets of the first element of every 1-D line
// along the given axis, in row-major order of the remaining dimensions.
func lineBases(shape tensor.Shape, axis int) []int {
	strides := shape.ComputeStrides()
	count := shape.NumElements() / shape[axis]
	bases := make([]int, 0, count)
	idx := make([]int, len(shape))
	for {
		bases = append(bases, flatOffset(idx, strides))
		i := len(idx) - 1
		for ; i >= 0; i-- {
			if i == axis {
				continue
			}
			idx[i]++
			if idx[i] < shape[i] {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return bases
		}
	}
}

func validateAxes(axes []int, rank int) {
	if len(axes) == 0 {
		panic("cpu: transform requires at least one axis")
	}
	for i, ax := range axes {
		if ax < 0 || ax >= rank {
			panic(fmt.Sprintf("cpu: axis %d out of range for rank %d", ax, rank))
		}
		if i > 0 && ax <= axes[i-1] {
			panic(fmt.Sprintf("cpu: axes %v must be strictly ascending", axes))
		}
	}
}
