package operator

import (
	"fmt"
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/nn"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// FNOConfig describes a full Fourier neural operator.
//
// Channels is the width sequence through the network and needs at least
// five entries: the raw input width, the lifted width, the widths through
// the operator blocks, the projection hidden width, and the output width.
// With channels (c_0, ..., c_{L-1}) the stages are
//
//	lifting:  c_0 -> c_1 (linear)
//	mapping:  one operator block c_i -> c_{i+1} for i = 1..L-4
//	project:  c_{L-3} -> c_{L-2} (activation), c_{L-2} -> c_{L-1} (linear)
type FNOConfig struct {
	Channels []int
	// Modes holds the retained frequency bins per spatial axis.
	Modes []int
	// Activation is used inside the operator blocks and the projection
	// hidden layer.
	Activation nn.Activation
	// Permuted selects the (spatial..., channels, batch) layout. Lifting
	// and projection then use size-1 convolutions instead of dense maps.
	Permuted bool
}

// FourierNeuralOperator maps an input field to an output field through
// lifting, a stack of residual spectral blocks, and projection. Parameter
// and state records carry one child per stage: "lifting", "mapping" and
// "project".
type FourierNeuralOperator struct {
	cfg     FNOConfig
	lifting nn.Layer
	mapping *nn.Chain
	project *nn.Chain
}

// NewFNO validates the configuration and builds the three stages.
func NewFNO(b tensor.Backend, cfg FNOConfig) (*FourierNeuralOperator, error) {
	ch := cfg.Channels
	if len(ch) < 5 {
		return nil, fmt.Errorf("operator: channel sequence needs at least 5 entries (lift in, lift out, block widths, hidden, out), got %d", len(ch))
	}
	if len(cfg.Modes) == 0 {
		return nil, fmt.Errorf("operator: at least one spatial axis of modes is required")
	}

	var lifting nn.Layer
	var project *nn.Chain
	if cfg.Permuted {
		ones := onesKernel(len(cfg.Modes))
		lifting = nn.NewConv(b, ones, ch[0], ch[1], nn.Identity)
		project = nn.NewChain(
			nn.NewConv(b, ones, ch[len(ch)-3], ch[len(ch)-2], cfg.Activation),
			nn.NewConv(b, ones, ch[len(ch)-2], ch[len(ch)-1], nn.Identity),
		)
	} else {
		lifting = nn.NewDense(b, ch[0], ch[1], nn.Identity)
		project = nn.NewChain(
			nn.NewDense(b, ch[len(ch)-3], ch[len(ch)-2], cfg.Activation),
			nn.NewDense(b, ch[len(ch)-2], ch[len(ch)-1], nn.Identity),
		)
	}

	blocks := make([]nn.Layer, 0, len(ch)-4)
	for i := 1; i <= len(ch)-4; i++ {
		block, err := NewOperatorKernel(b, KernelConfig{
			In:         ch[i],
			Out:        ch[i+1],
			Modes:      cfg.Modes,
			Activation: cfg.Activation,
			Permuted:   cfg.Permuted,
			Spatial:    SpatialPointwise,
		})
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return &FourierNeuralOperator{
		cfg:     cfg,
		lifting: lifting,
		mapping: nn.NewChain(blocks...),
		project: project,
	}, nil
}

// Config returns the configuration the operator was built from.
func (f *FourierNeuralOperator) Config() FNOConfig {
	return f.cfg
}

// Init initializes all three stages from one random source.
func (f *FourierNeuralOperator) Init(rng *rand.Rand) (*nn.Record, *nn.Record) {
	params, state := nn.NewRecord(), nn.NewRecord()
	for _, stage := range []struct {
		name  string
		layer nn.Layer
	}{
		{"lifting", f.lifting},
		{"mapping", f.mapping},
		{"project", f.project},
	} {
		p, s := stage.layer.Init(rng)
		params.SetChild(stage.name, p)
		state.SetChild(stage.name, s)
	}
	return params, state
}

// Apply threads x through lifting, the operator blocks, and projection,
// reassembling the per-stage states into a fresh record.
func (f *FourierNeuralOperator) Apply(x *tensor.Tensor, params, state *nn.Record) (*tensor.Tensor, *nn.Record, error) {
	newState := nn.NewRecord()
	for _, stage := range []struct {
		name  string
		layer nn.Layer
	}{
		{"lifting", f.lifting},
		{"mapping", f.mapping},
		{"project", f.project},
	} {
		var s *nn.Record
		var err error
		x, s, err = stage.layer.Apply(x, params.Child(stage.name), state.Child(stage.name))
		if err != nil {
			return nil, nil, err
		}
		newState.SetChild(stage.name, s)
	}
	return x, newState, nil
}
