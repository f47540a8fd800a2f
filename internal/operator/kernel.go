// Package operator composes spectral and spatial layers into full neural
// operator architectures: the residual spectral kernel block, the Fourier
// neural operator, and the branch/trunk DeepONet.
package operator

import (
	"fmt"
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/nn"
	"github.com/galerkin-ml/galerkin/internal/spectral"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// SpatialPath selects the branch that runs in parallel with the spectral
// convolution inside an OperatorKernel.
type SpatialPath int

const (
	// SpatialIdentity adds the unmodified input; channel counts must match.
	SpatialIdentity SpatialPath = iota
	// SpatialPointwise adds a learned per-position channel mix, the
	// standard choice for Fourier neural operators.
	SpatialPointwise
	// SpatialLocal adds a local convolution with a configured odd kernel.
	// It requires the permuted (channel-last) layout.
	SpatialLocal
)

func (p SpatialPath) String() string {
	switch p {
	case SpatialIdentity:
		return "identity"
	case SpatialPointwise:
		return "pointwise"
	case SpatialLocal:
		return "local"
	default:
		return fmt.Sprintf("spatialpath(%d)", int(p))
	}
}

// KernelConfig describes one residual operator block.
type KernelConfig struct {
	// In and Out are the block's channel counts.
	In, Out int
	// Modes holds the retained frequency bins per spatial axis.
	Modes []int
	// Activation is applied after the spectral and spatial paths are summed.
	Activation nn.Activation
	// Permuted selects the (spatial..., channels, batch) layout.
	Permuted bool
	// Spatial selects the parallel path; the zero value is SpatialIdentity.
	Spatial SpatialPath
	// KernelSize holds the odd extents of the SpatialLocal convolution,
	// one per spatial axis. Ignored for the other paths.
	KernelSize []int
}

// OperatorKernel is one residual operator-learning block:
//
//	output = activation(SpectralConv(x) + SpatialPath(x))
//
// The spectral path captures global structure through the truncated
// frequency mix; the spatial path keeps local structure and acts as a
// learned skip connection.
type OperatorKernel struct {
	backend    tensor.Backend
	spectral   *spectral.SpectralConv
	spatial    nn.Layer
	activation nn.Activation
}

// NewOperatorKernel builds a residual block from its configuration.
func NewOperatorKernel(b tensor.Backend, cfg KernelConfig) (*OperatorKernel, error) {
	sc, err := spectral.NewSpectralConv(b, cfg.In, cfg.Out, cfg.Modes, cfg.Permuted)
	if err != nil {
		return nil, err
	}

	var spatialLayer nn.Layer
	switch cfg.Spatial {
	case SpatialIdentity:
		if cfg.In != cfg.Out {
			return nil, fmt.Errorf("operator: identity spatial path needs matching channels, got %d and %d", cfg.In, cfg.Out)
		}
	case SpatialPointwise:
		if cfg.Permuted {
			spatialLayer = nn.NewConv(b, onesKernel(len(cfg.Modes)), cfg.In, cfg.Out, nn.Identity)
		} else {
			spatialLayer = nn.NewDense(b, cfg.In, cfg.Out, nn.Identity)
		}
	case SpatialLocal:
		if !cfg.Permuted {
			return nil, fmt.Errorf("operator: local spatial path requires the permuted layout")
		}
		if len(cfg.KernelSize) != len(cfg.Modes) {
			return nil, fmt.Errorf("operator: %d kernel extents for %d spatial axes", len(cfg.KernelSize), len(cfg.Modes))
		}
		spatialLayer = nn.NewConv(b, cfg.KernelSize, cfg.In, cfg.Out, nn.Identity)
	default:
		return nil, fmt.Errorf("operator: unknown spatial path %s", cfg.Spatial)
	}

	return &OperatorKernel{
		backend:    b,
		spectral:   sc,
		spatial:    spatialLayer,
		activation: cfg.Activation,
	}, nil
}

// Init initializes both paths. The record children are named "spectral"
// and, when a learned spatial path exists, "spatial".
func (k *OperatorKernel) Init(rng *rand.Rand) (*nn.Record, *nn.Record) {
	params, state := nn.NewRecord(), nn.NewRecord()
	p, s := k.spectral.Init(rng)
	params.SetChild("spectral", p)
	state.SetChild("spectral", s)
	if k.spatial != nil {
		p, s = k.spatial.Init(rng)
		params.SetChild("spatial", p)
		state.SetChild("spatial", s)
	}
	return params, state
}

// Apply evaluates both paths on the same input, sums them, and applies the
// activation.
func (k *OperatorKernel) Apply(x *tensor.Tensor, params, state *nn.Record) (*tensor.Tensor, *nn.Record, error) {
	newState := nn.NewRecord()

	spectralOut, s, err := k.spectral.Apply(x, params.Child("spectral"), state.Child("spectral"))
	if err != nil {
		return nil, nil, err
	}
	newState.SetChild("spectral", s)

	spatialOut := x
	if k.spatial != nil {
		spatialOut, s, err = k.spatial.Apply(x, params.Child("spatial"), state.Child("spatial"))
		if err != nil {
			return nil, nil, err
		}
		newState.SetChild("spatial", s)
	}

	out, err := k.activation.Apply(k.backend, k.backend.Add(spectralOut, spatialOut))
	if err != nil {
		return nil, nil, err
	}
	return out, newState, nil
}

func onesKernel(d int) []int {
	k := make([]int, d)
	for i := range k {
		k[i] = 1
	}
	return k
}
