package nn

import (
	"fmt"
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Reshape reinterprets the non-batch axes of its input. The batch axis is
// always last and passes through untouched, so a (f_1, ..., f_k, batch)
// input becomes (Target..., batch). The layer has no parameters.
type Reshape struct {
	backend tensor.Backend

	// Target is the desired shape of the non-batch axes.
	Target tensor.Shape
}

// NewReshape creates a reshape layer.
func NewReshape(b tensor.Backend, target tensor.Shape) *Reshape {
	return &Reshape{backend: b, Target: target.Clone()}
}

// Init returns empty records.
func (r *Reshape) Init(rng *rand.Rand) (*Record, *Record) {
	return NewRecord(), NewRecord()
}

// Apply reshapes x, preserving the trailing batch axis.
func (r *Reshape) Apply(x *tensor.Tensor, params, state *Record) (*tensor.Tensor, *Record, error) {
	shape := x.Shape()
	if len(shape) < 2 {
		return nil, nil, fmt.Errorf("nn: reshape expects at least a feature and a batch axis, got shape %v", shape)
	}
	batch := shape[len(shape)-1]
	features := x.NumElements() / batch
	if want := r.Target.NumElements(); features != want {
		return nil, nil, fmt.Errorf("nn: reshape target %v needs %d features per sample, input %v has %d",
			r.Target, want, shape, features)
	}

	outShape := make(tensor.Shape, 0, len(r.Target)+1)
	outShape = append(outShape, r.Target...)
	outShape = append(outShape, batch)
	return r.backend.Reshape(x, outShape), state, nil
}
