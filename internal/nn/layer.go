// Package nn provides functional neural network layers. A layer is an
// immutable description of a computation; its parameters and state live in
// Record trees created by Init and threaded explicitly through Apply. Apply
// never mutates its inputs, so a single layer value can serve concurrent
// evaluations with independent parameter sets.
package nn

import (
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Layer is the contract shared by all layers.
//
// Init draws fresh parameters from rng and returns them together with the
// layer's initial state. Layers without state return an empty Record, never
// nil. Apply evaluates the layer on x under the given parameters and state
// and returns the output along with the (possibly updated) state.
type Layer interface {
	Init(rng *rand.Rand) (params, state *Record)
	Apply(x *tensor.Tensor, params, state *Record) (*tensor.Tensor, *Record, error)
}

// ActivationBackend is the capability interface for the element-wise
// activation kernels. The CPU backend implements it; a backend that does
// not is rejected at the point of use.
type ActivationBackend interface {
	ReLU(*tensor.Tensor) *tensor.Tensor
	Sigmoid(*tensor.Tensor) *tensor.Tensor
	Tanh(*tensor.Tensor) *tensor.Tensor
	GELU(*tensor.Tensor) *tensor.Tensor
}
