package nn

import (
	"fmt"
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Conv is an N-dimensional convolution with stride 1 and zero "same"
// padding, so spatial extents are preserved. It uses the channel-last
// layout (n_1, ..., n_d, channels, batch); kernel extents must be odd.
// A kernel size of 1 in every dimension makes the layer a position-wise
// channel mix.
type Conv struct {
	backend tensor.Backend

	// KernelSize holds one odd extent per spatial dimension.
	KernelSize []int
	// In and Out are the channel counts.
	In, Out int
	// Activation is applied element-wise after the convolution.
	Activation Activation
	// Bias controls whether a per-output-channel bias is learned.
	Bias bool
}

// NewConv creates a convolution layer with a learned bias.
func NewConv(b tensor.Backend, kernelSize []int, in, out int, activation Activation) *Conv {
	return &Conv{
		backend:    b,
		KernelSize: append([]int(nil), kernelSize...),
		In:         in,
		Out:        out,
		Activation: activation,
		Bias:       true,
	}
}

// Init returns a Glorot-uniform kernel of shape (k_1, ..., k_d, in, out)
// and, when enabled, a zero bias of shape (out,).
func (c *Conv) Init(rng *rand.Rand) (*Record, *Record) {
	receptive := 1
	for _, k := range c.KernelSize {
		receptive *= k
	}
	wShape := make(tensor.Shape, 0, len(c.KernelSize)+2)
	wShape = append(wShape, c.KernelSize...)
	wShape = append(wShape, c.In, c.Out)

	params := NewRecord()
	params.SetTensor("weight", glorotUniform(wShape, c.In*receptive, c.Out*receptive, rng))
	if c.Bias {
		params.SetTensor("bias", tensor.Zeros(tensor.Shape{c.Out}, tensor.Float64))
	}
	return params, NewRecord()
}

// Apply convolves x with the learned kernel.
func (c *Conv) Apply(x *tensor.Tensor, params, state *Record) (*tensor.Tensor, *Record, error) {
	shape := x.Shape()
	if len(shape) != len(c.KernelSize)+2 {
		return nil, nil, fmt.Errorf("nn: conv expects %d spatial dimensions plus channels and batch, got shape %v",
			len(c.KernelSize), shape)
	}
	if got := shape[len(shape)-2]; got != c.In {
		return nil, nil, fmt.Errorf("nn: conv expects %d input channels, got %d in shape %v", c.In, got, shape)
	}

	var bias *tensor.Tensor
	if c.Bias {
		bias = params.Tensor("bias")
	}
	out := c.backend.Conv(x, params.Tensor("weight"), bias)

	out, err := c.Activation.Apply(c.backend, out)
	if err != nil {
		return nil, nil, err
	}
	return out, state, nil
}
