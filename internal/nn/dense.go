package nn

import (
	"fmt"
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Dense is a fully connected layer acting on the leading (feature) axis.
// Input of shape (in, d_1, ..., d_k) is treated as a stack of feature
// vectors: the trailing axes are flattened, the affine map is applied to
// every column, and the original trailing axes are restored. In particular
// a channel-first field (in, n_1, ..., n_d, batch) maps position-wise to
// (out, n_1, ..., n_d, batch).
type Dense struct {
	backend tensor.Backend

	// In and Out are the feature widths of the affine map.
	In, Out int
	// Activation is applied element-wise after the affine map.
	Activation Activation
	// Bias controls whether an additive bias is learned.
	Bias bool
}

// NewDense creates a dense layer with a learned bias.
func NewDense(b tensor.Backend, in, out int, activation Activation) *Dense {
	return &Dense{backend: b, In: in, Out: out, Activation: activation, Bias: true}
}

// NewDenseNoBias creates a dense layer without a bias term.
func NewDenseNoBias(b tensor.Backend, in, out int, activation Activation) *Dense {
	return &Dense{backend: b, In: in, Out: out, Activation: activation, Bias: false}
}

// Init returns Glorot-uniform weights of shape (out, in) and, when enabled,
// a zero bias of shape (out,). Dense layers carry no state.
func (d *Dense) Init(rng *rand.Rand) (*Record, *Record) {
	params := NewRecord()
	params.SetTensor("weight", glorotUniform(tensor.Shape{d.Out, d.In}, d.In, d.Out, rng))
	if d.Bias {
		params.SetTensor("bias", tensor.Zeros(tensor.Shape{d.Out}, tensor.Float64))
	}
	return params, NewRecord()
}

// Apply computes activation(W x + b) along the leading axis.
func (d *Dense) Apply(x *tensor.Tensor, params, state *Record) (*tensor.Tensor, *Record, error) {
	shape := x.Shape()
	if len(shape) < 1 || shape[0] != d.In {
		return nil, nil, fmt.Errorf("nn: dense expects %d input features on axis 0, got shape %v", d.In, shape)
	}

	cols := x.NumElements() / shape[0]
	flat := d.backend.Reshape(x, tensor.Shape{d.In, cols})
	out := d.backend.MatMul(params.Tensor("weight"), flat)
	if d.Bias {
		bias := d.backend.Reshape(params.Tensor("bias"), tensor.Shape{d.Out, 1})
		out = d.backend.Add(out, bias)
	}

	outShape := shape.Clone()
	outShape[0] = d.Out
	out = d.backend.Reshape(out, outShape)

	out, err := d.Activation.Apply(d.backend, out)
	if err != nil {
		return nil, nil, err
	}
	return out, state, nil
}
