package spectral

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/nn"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// SpectralConv applies a learned linear map at each retained frequency of
// its input: dense across channels, block-diagonal across frequencies. The
// full pipeline is forward transform, truncation to the configured modes, a
// per-frequency channel mix, zero padding back to the full spectrum, and
// the inverse transform. Because the pipeline runs entirely through the
// real half spectrum, the output is real with no imaginary residue to
// discard.
type SpectralConv struct {
	backend tensor.Backend
	ft      *FourierTransform

	// In and Out are the channel counts of the frequency-domain mix.
	In, Out int
	// Modes holds the retained frequency bins per spatial axis.
	Modes []int
	// Permuted selects the (spatial..., channels, batch) layout instead of
	// the default (channels, spatial..., batch).
	Permuted bool
}

// NewSpectralConv creates a spectral convolution over len(modes) spatial
// axes. The backend must provide the Fourier capability.
func NewSpectralConv(b tensor.Backend, in, out int, modes []int, permuted bool) (*SpectralConv, error) {
	if in < 1 || out < 1 {
		return nil, fmt.Errorf("spectral: channel counts must be positive, got in=%d out=%d", in, out)
	}
	axes := make([]int, len(modes))
	for i := range axes {
		if permuted {
			axes[i] = i
		} else {
			axes[i] = i + 1
		}
	}
	ft, err := NewFourierTransform(b, modes, axes)
	if err != nil {
		return nil, err
	}
	return &SpectralConv{
		backend:  b,
		ft:       ft,
		In:       in,
		Out:      out,
		Modes:    append([]int(nil), modes...),
		Permuted: permuted,
	}, nil
}

// Init draws the complex spectral weight of shape (out, in, m_1, ..., m_d)
// from a Glorot-style uniform distribution on both real and imaginary
// parts. The layer carries no state.
func (sc *SpectralConv) Init(rng *rand.Rand) (*nn.Record, *nn.Record) {
	wShape := make(tensor.Shape, 0, len(sc.Modes)+2)
	wShape = append(wShape, sc.Out, sc.In)
	wShape = append(wShape, sc.Modes...)
	bound := math.Sqrt(6 / float64(sc.In+sc.Out))

	params := nn.NewRecord()
	params.SetTensor("weight", tensor.UniformComplex(wShape, bound, rng))
	return params, nn.NewRecord()
}

// Apply runs the spectral pipeline. The input must have len(Modes) spatial
// axes plus a channel and a batch axis, in the configured layout.
func (sc *SpectralConv) Apply(x *tensor.Tensor, params, state *nn.Record) (*tensor.Tensor, *nn.Record, error) {
	d := len(sc.Modes)
	shape := x.Shape()
	if len(shape) != d+2 {
		return nil, nil, fmt.Errorf("spectral: expected %d spatial axes plus channels and batch, got shape %v", d, shape)
	}

	chAxis := 0
	spatial := tensor.Shape(shape[1 : d+1])
	if sc.Permuted {
		chAxis = d
		spatial = tensor.Shape(shape[:d])
	}
	if shape[chAxis] != sc.In {
		return nil, nil, fmt.Errorf("spectral: input has %d channels, weight expects %d", shape[chAxis], sc.In)
	}
	batch := shape[d+1]

	weight := params.Tensor("weight")
	wantShape := make(tensor.Shape, 0, d+2)
	wantShape = append(wantShape, sc.Out, sc.In)
	wantShape = append(wantShape, sc.Modes...)
	if !weight.Shape().Equal(wantShape) {
		return nil, nil, fmt.Errorf("spectral: weight shape %v does not match %v for out=%d in=%d modes=%v",
			weight.Shape(), wantShape, sc.Out, sc.In, sc.Modes)
	}

	spectrum, err := sc.ft.Forward(x)
	if err != nil {
		return nil, nil, err
	}
	trunc, err := sc.ft.Truncate(spectrum)
	if err != nil {
		return nil, nil, err
	}

	mixed := sc.mix(trunc, weight, batch)

	padded, err := sc.ft.Pad(mixed, spatial)
	if err != nil {
		return nil, nil, err
	}
	out, err := sc.ft.Inverse(padded, spatial[0])
	if err != nil {
		return nil, nil, err
	}
	return out, state, nil
}

// mix performs the per-frequency channel contraction as one batched matrix
// multiply: the flattened frequency axis acts as the batch axis of the
// multiply, and the true batch rides along as the matrix column dimension.
func (sc *SpectralConv) mix(trunc, weight *tensor.Tensor, batch int) *tensor.Tensor {
	b := sc.backend
	freqs := 1
	for _, m := range sc.Modes {
		freqs *= m
	}

	// Weight (out, in, m...) -> (freqs, out, in).
	w := b.Reshape(weight, tensor.Shape{sc.Out, sc.In, freqs})
	w = b.Transpose(w, 2, 0, 1)

	if sc.Permuted {
		// (m..., in, batch) flattens directly to (freqs, in, batch).
		v := b.Reshape(trunc, tensor.Shape{freqs, sc.In, batch})
		y := b.BatchMatMul(w, v)

		outShape := make(tensor.Shape, 0, len(sc.Modes)+2)
		outShape = append(outShape, sc.Modes...)
		outShape = append(outShape, sc.Out, batch)
		return b.Reshape(y, outShape)
	}

	// (in, m..., batch) -> (freqs, in, batch).
	v := b.Reshape(trunc, tensor.Shape{sc.In, freqs, batch})
	v = b.Transpose(v, 1, 0, 2)
	y := b.BatchMatMul(w, v)

	// (freqs, out, batch) -> (out, m..., batch).
	y = b.Transpose(y, 1, 0, 2)
	outShape := make(tensor.Shape, 0, len(sc.Modes)+2)
	outShape = append(outShape, sc.Out)
	outShape = append(outShape, sc.Modes...)
	outShape = append(outShape, batch)
	return b.Reshape(y, outShape)
}
