package nn

import (
	"math/rand"
	"strconv"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Chain composes layers sequentially. Parameter and state records carry one
// child per layer, named by its position: "0", "1", and so on.
type Chain struct {
	Layers []Layer
}

// NewChain creates a sequential composition of the given layers.
func NewChain(layers ...Layer) *Chain {
	return &Chain{Layers: layers}
}

// Init initializes every layer in order, drawing from the same rng so the
// composite is reproducible from a single seed.
func (c *Chain) Init(rng *rand.Rand) (*Record, *Record) {
	params, state := NewRecord(), NewRecord()
	for i, layer := range c.Layers {
		name := strconv.Itoa(i)
		p, s := layer.Init(rng)
		params.SetChild(name, p)
		state.SetChild(name, s)
	}
	return params, state
}

// Apply threads x through the layers in order, collecting each layer's
// updated state into a fresh record.
func (c *Chain) Apply(x *tensor.Tensor, params, state *Record) (*tensor.Tensor, *Record, error) {
	newState := NewRecord()
	var err error
	for i, layer := range c.Layers {
		name := strconv.Itoa(i)
		var s *Record
		x, s, err = layer.Apply(x, params.Child(name), state.Child(name))
		if err != nil {
			return nil, nil, err
		}
		newState.SetChild(name, s)
	}
	return x, newState, nil
}
