package cpu

import (
	"fmt"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Conv performs an N-dimensional convolution with stride 1 and zero "same"
// padding, so the spatial extent of the output matches the input.
//
// Layouts:
//
//	x:      (n_1, ..., n_d, C_in, B)
//	kernel: (k_1, ..., k_d, C_in, C_out)
//	bias:   (C_out,) or nil
//	out:    (n_1, ..., n_d, C_out, B)
//
// Kernel extents must be odd so the padding is symmetric. Only Float64
// tensors are supported.
func (cpu *CPUBackend) Conv(x, kernel, bias *tensor.Tensor) *tensor.Tensor {
	if x.DType() != tensor.Float64 || kernel.DType() != tensor.Float64 {
		panic("cpu: Conv requires Float64 tensors")
	}
	xShape, kShape := x.Shape(), kernel.Shape()
	if len(xShape) != len(kShape) {
		panic(fmt.Sprintf("cpu: Conv rank mismatch: input %v vs kernel %v", xShape, kShape))
	}
	if len(xShape) < 3 {
		panic(fmt.Sprintf("cpu: Conv expects (spatial..., channels, batch) input, got %v", xShape))
	}

	spatialRank := len(xShape) - 2
	spatial := xShape[:spatialRank]
	cIn, batch := xShape[spatialRank], xShape[spatialRank+1]
	kSpatial := kShape[:spatialRank]
	if kShape[spatialRank] != cIn {
		panic(fmt.Sprintf("cpu: Conv input channels mismatch: input has %d, kernel expects %d", cIn, kShape[spatialRank]))
	}
	cOut := kShape[spatialRank+1]

	pad := make([]int, spatialRank)
	for i, k := range kSpatial {
		if k%2 == 0 {
			panic(fmt.Sprintf("cpu: Conv kernel extents must be odd, got %v", kSpatial))
		}
		pad[i] = k / 2
	}

	var biasData []float64
	if bias != nil {
		if !bias.Shape().Equal(tensor.Shape{cOut}) {
			panic(fmt.Sprintf("cpu: Conv bias shape %v does not match %d output channels", bias.Shape(), cOut))
		}
		biasData = bias.AsFloat64()
	}

	outShape := make(tensor.Shape, len(xShape))
	copy(outShape, spatial)
	outShape[spatialRank], outShape[spatialRank+1] = cOut, batch
	result := tensor.MustNew(outShape, tensor.Float64)

	convFloat64(result.AsFloat64(), x.AsFloat64(), kernel.AsFloat64(), biasData,
		spatial, kSpatial, pad, cIn, cOut, batch)
	return result
}

// convFloat64 is a direct convolution. The batch dimension is contiguous in
// both input and output, so the innermost loop runs over full batch lines.
func convFloat64(out, x, w, bias []float64, spatial, kSpatial tensor.Shape, pad []int, cIn, cOut, batch int) {
	d := len(spatial)
	xShape := append(append(tensor.Shape{}, spatial...), cIn, batch)
	outShape := append(append(tensor.Shape{}, spatial...), cOut, batch)
	wShape := append(append(tensor.Shape{}, kSpatial...), cIn, cOut)
	xStrides := xShape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	wStrides := wShape.ComputeStrides()

	pos := make([]int, d)
	tap := make([]int, d)
	src := make([]int, d)
	numPositions := spatial.NumElements()
	numTaps := kSpatial.NumElements()

	for p := 0; p < numPositions; p++ {
		outBase := flatOffset(pos, outStrides[:d])
		for co := 0; co < cOut; co++ {
			outLine := out[outBase+co*batch : outBase+(co+1)*batch]
			if bias != nil {
				for b := range outLine {
					outLine[b] = bias[co]
				}
			}

			for t := 0; t < numTaps; t++ {
				inBounds := true
				for i := 0; i < d; i++ {
					src[i] = pos[i] + tap[i] - pad[i]
					if src[i] < 0 || src[i] >= spatial[i] {
						inBounds = false
						break
					}
				}
				if inBounds {
					xBase := flatOffset(src, xStrides[:d])
					wBase := flatOffset(tap, wStrides[:d]) + co
					for ci := 0; ci < cIn; ci++ {
						wv := w[wBase+ci*cOut]
						if wv == 0 {
							continue
						}
						xLine := x[xBase+ci*batch : xBase+(ci+1)*batch]
						for b := range outLine {
							outLine[b] += wv * xLine[b]
						}
					}
				}
				incrementIndex(tap, kSpatial)
			}
		}
		incrementIndex(pos, spatial)
	}
}
