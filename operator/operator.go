// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package operator

import (
	internalop "github.com/galerkin-ml/galerkin/internal/operator"
	"github.com/galerkin-ml/galerkin/tensor"
)

// SpatialPath selects the branch that runs in parallel with the spectral
// convolution inside an OperatorKernel.
type SpatialPath = internalop.SpatialPath

// Spatial path constants. The zero value is SpatialIdentity.
const (
	SpatialIdentity  SpatialPath = internalop.SpatialIdentity
	SpatialPointwise SpatialPath = internalop.SpatialPointwise
	SpatialLocal     SpatialPath = internalop.SpatialLocal
)

// KernelConfig describes one residual operator block.
type KernelConfig = internalop.KernelConfig

// OperatorKernel is one residual operator-learning block:
//
//	output = activation(SpectralConv(x) + SpatialPath(x))
type OperatorKernel = internalop.OperatorKernel

// NewOperatorKernel builds a residual block from its configuration.
//
// Example:
//
//	block, err := operator.NewOperatorKernel(b, operator.KernelConfig{
//	    In: 64, Out: 64,
//	    Modes:      []int{16},
//	    Activation: operator.GELU,
//	    Spatial:    operator.SpatialPointwise,
//	})
func NewOperatorKernel(b tensor.Backend, cfg KernelConfig) (*OperatorKernel, error) {
	return internalop.NewOperatorKernel(b, cfg)
}

// FNOConfig describes a full Fourier neural operator: the channel width
// sequence (at least five entries), the retained modes per spatial axis,
// the block activation, and the tensor layout.
type FNOConfig = internalop.FNOConfig

// FourierNeuralOperator maps an input field to an output field through
// lifting, a stack of residual spectral blocks, and projection.
type FourierNeuralOperator = internalop.FourierNeuralOperator

// NewFNO validates the configuration and builds the operator.
//
// Example:
//
//	fno, err := operator.NewFNO(b, operator.FNOConfig{
//	    Channels:   []int{2, 64, 64, 128, 1},
//	    Modes:      []int{16},
//	    Activation: operator.GELU,
//	})
func NewFNO(b tensor.Backend, cfg FNOConfig) (*FourierNeuralOperator, error) {
	return internalop.NewFNO(b, cfg)
}

// DeepONet approximates an operator through branch and trunk networks
// contracted over a shared latent dimension.
type DeepONet = internalop.DeepONet

// DeepONetConfig builds the standard all-dense DeepONet.
type DeepONetConfig = internalop.DeepONetConfig

// NewDeepONet assembles a DeepONet from arbitrary branch and trunk layers.
// additional may be nil; when set it post-processes the contracted result.
func NewDeepONet(b tensor.Backend, branch, trunk, additional Layer) *DeepONet {
	return internalop.NewDeepONet(b, branch, trunk, additional)
}

// NewDeepONetFromConfig builds dense branch and trunk stacks and checks
// that their latent widths agree.
//
// Example:
//
//	don, err := operator.NewDeepONetFromConfig(b, operator.DeepONetConfig{
//	    BranchWidths:     []int{64, 32, 16},
//	    TrunkWidths:      []int{1, 8, 16},
//	    BranchActivation: operator.Tanh,
//	    TrunkActivation:  operator.Tanh,
//	})
func NewDeepONetFromConfig(b tensor.Backend, cfg DeepONetConfig) (*DeepONet, error) {
	return internalop.NewDeepONetFromConfig(b, cfg)
}
