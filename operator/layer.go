// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package operator

import (
	"github.com/galerkin-ml/galerkin/internal/nn"
	"github.com/galerkin-ml/galerkin/tensor"
)

// Layer is the contract shared by all layers: Init draws parameters and
// initial state from a random source, Apply evaluates the layer under a
// given parameter record.
type Layer = nn.Layer

// Record is an immutable tree of named tensors and named sub-records. It
// carries the parameters and state of a layer; composite layers nest one
// child record per sub-layer.
type Record = nn.Record

// NewRecord creates an empty record.
func NewRecord() *Record {
	return nn.NewRecord()
}

// Unflatten rebuilds a record tree from dotted tensor names, the inverse of
// Record.Flatten.
//
// Example:
//
//	flat := map[string]*tensor.Tensor{"lifting.weight": w, "lifting.bias": b}
//	rec, err := operator.Unflatten(flat)
func Unflatten(flat map[string]*tensor.Tensor) (*Record, error) {
	return nn.Unflatten(flat)
}

// Activation selects an element-wise nonlinearity.
type Activation = nn.Activation

// Activation constants. Identity is the zero value, so an unset config
// field means "no activation".
const (
	Identity Activation = nn.Identity
	ReLU     Activation = nn.ReLU
	GELU     Activation = nn.GELU
	Tanh     Activation = nn.Tanh
	Sigmoid  Activation = nn.Sigmoid
)

// ParseActivation maps the lower-case activation name ("relu", "gelu",
// "tanh", "sigmoid", "identity") to its constant.
func ParseActivation(s string) (Activation, error) {
	return nn.ParseActivation(s)
}

// ActivationBackend is the capability interface for element-wise activation
// kernels. Layers that apply activations assert for it at construction.
type ActivationBackend = nn.ActivationBackend

// Dense is an affine map over the leading (channel) axis; trailing axes are
// treated as independent positions.
type Dense = nn.Dense

// NewDense creates a dense layer with bias.
//
// Example:
//
//	layer := operator.NewDense(b, 64, 128, operator.GELU)
func NewDense(b tensor.Backend, in, out int, activation Activation) *Dense {
	return nn.NewDense(b, in, out, activation)
}

// NewDenseNoBias creates a dense layer without bias.
func NewDenseNoBias(b tensor.Backend, in, out int, activation Activation) *Dense {
	return nn.NewDenseNoBias(b, in, out, activation)
}

// Conv is an N-dimensional stride-1 same-padding convolution over the
// channel-last layout (spatial..., channels, batch). Kernel extents must be
// odd.
type Conv = nn.Conv

// NewConv creates a convolution layer.
//
// Example:
//
//	layer := operator.NewConv(b, []int{3, 3}, 8, 16, operator.ReLU)
func NewConv(b tensor.Backend, kernelSize []int, in, out int, activation Activation) *Conv {
	return nn.NewConv(b, kernelSize, in, out, activation)
}

// Chain evaluates layers in sequence. Record children are named "0", "1",
// and so on.
type Chain = nn.Chain

// NewChain creates a sequential container.
//
// Example:
//
//	stack := operator.NewChain(
//	    operator.NewDense(b, 64, 128, operator.ReLU),
//	    operator.NewDense(b, 128, 16, operator.Identity),
//	)
func NewChain(layers ...Layer) *Chain {
	return nn.NewChain(layers...)
}

// Reshape is a parameter-free layer that reshapes everything but the
// trailing batch axis.
type Reshape = nn.Reshape

// NewReshape creates a reshape layer. target excludes the batch axis, which
// passes through unchanged.
func NewReshape(b tensor.Backend, target tensor.Shape) *Reshape {
	return nn.NewReshape(b, target)
}
