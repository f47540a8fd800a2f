package operator

import (
	"fmt"
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/nn"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// DeepONet approximates an operator G by encoding the sampled input
// function u through a branch network and the query locations y through a
// trunk network, then contracting the two over a shared latent dimension:
//
//	G(u)(y_j) = sum_p branch(u)[p] * trunk(y)[p, j]
//
// The branch may carry extra axes between the latent and batch axes to
// produce vector- or tensor-valued outputs. An optional additional network
// post-processes the contracted result.
type DeepONet struct {
	backend    tensor.Backend
	branch     nn.Layer
	trunk      nn.Layer
	additional nn.Layer
}

// NewDeepONet assembles a DeepONet from its sub-networks. additional may be
// nil, in which case the raw contraction is returned.
func NewDeepONet(b tensor.Backend, branch, trunk, additional nn.Layer) *DeepONet {
	return &DeepONet{backend: b, branch: branch, trunk: trunk, additional: additional}
}

// DeepONetConfig builds the standard all-dense DeepONet: every hidden layer
// uses the configured activation and the final layer of each sub-network is
// linear.
type DeepONetConfig struct {
	// BranchWidths and TrunkWidths list the layer widths of each
	// sub-network, input first. Their last entries must agree: that shared
	// width is the contracted latent dimension.
	BranchWidths []int
	TrunkWidths  []int
	// BranchActivation and TrunkActivation are applied on hidden layers.
	BranchActivation nn.Activation
	TrunkActivation  nn.Activation
}

// NewDeepONetFromConfig builds dense branch and trunk stacks. The latent
// widths are known statically here, so the match is checked up front.
func NewDeepONetFromConfig(b tensor.Backend, cfg DeepONetConfig) (*DeepONet, error) {
	if len(cfg.BranchWidths) < 2 || len(cfg.TrunkWidths) < 2 {
		return nil, fmt.Errorf("operator: branch and trunk each need at least an input and an output width")
	}
	bp := cfg.BranchWidths[len(cfg.BranchWidths)-1]
	tp := cfg.TrunkWidths[len(cfg.TrunkWidths)-1]
	if bp != tp {
		return nil, fmt.Errorf("operator: branch latent width %d does not match trunk latent width %d", bp, tp)
	}
	return NewDeepONet(b,
		denseStack(b, cfg.BranchWidths, cfg.BranchActivation),
		denseStack(b, cfg.TrunkWidths, cfg.TrunkActivation),
		nil,
	), nil
}

func denseStack(b tensor.Backend, widths []int, activation nn.Activation) *nn.Chain {
	layers := make([]nn.Layer, 0, len(widths)-1)
	for i := 0; i < len(widths)-1; i++ {
		act := activation
		if i == len(widths)-2 {
			act = nn.Identity
		}
		layers = append(layers, nn.NewDense(b, widths[i], widths[i+1], act))
	}
	return nn.NewChain(layers...)
}

// Init initializes the sub-networks. Record children are named "branch",
// "trunk" and, when configured, "additional".
func (d *DeepONet) Init(rng *rand.Rand) (*nn.Record, *nn.Record) {
	params, state := nn.NewRecord(), nn.NewRecord()
	p, s := d.branch.Init(rng)
	params.SetChild("branch", p)
	state.SetChild("branch", s)
	p, s = d.trunk.Init(rng)
	params.SetChild("trunk", p)
	state.SetChild("trunk", s)
	if d.additional != nil {
		p, s = d.additional.Init(rng)
		params.SetChild("additional", p)
		state.SetChild("additional", s)
	}
	return params, state
}

// Apply evaluates G(u) at the query locations y.
//
// The branch output must be (latent, extra..., batch) and the trunk output
// (latent, queries, batch); the latent widths must agree, which is only
// checkable here once both sub-networks have run. The result is
// (extra..., queries, batch), with the extra axis dropped entirely for the
// common scalar case of a rank-2 branch output.
func (d *DeepONet) Apply(u, y *tensor.Tensor, params, state *nn.Record) (*tensor.Tensor, *nn.Record, error) {
	newState := nn.NewRecord()

	branchOut, s, err := d.branch.Apply(u, params.Child("branch"), state.Child("branch"))
	if err != nil {
		return nil, nil, err
	}
	newState.SetChild("branch", s)

	trunkOut, s, err := d.trunk.Apply(y, params.Child("trunk"), state.Child("trunk"))
	if err != nil {
		return nil, nil, err
	}
	newState.SetChild("trunk", s)

	out, err := d.combine(branchOut, trunkOut)
	if err != nil {
		return nil, nil, err
	}

	if d.additional != nil {
		out, s, err = d.additional.Apply(out, params.Child("additional"), state.Child("additional"))
		if err != nil {
			return nil, nil, err
		}
		newState.SetChild("additional", s)
	}
	return out, newState, nil
}

// combine contracts branch and trunk over the shared latent axis with the
// batch axis broadcast: one batched matrix multiply with the batch as the
// batch axis, the flattened branch extras as rows, and the queries as
// columns.
func (d *DeepONet) combine(branch, trunk *tensor.Tensor) (*tensor.Tensor, error) {
	bShape, tShape := branch.Shape(), trunk.Shape()
	if len(bShape) < 2 {
		return nil, fmt.Errorf("operator: branch output must be at least (latent, batch), got shape %v", bShape)
	}
	if len(tShape) != 3 {
		return nil, fmt.Errorf("operator: trunk output must be (latent, queries, batch), got shape %v", tShape)
	}
	if bShape[0] != tShape[0] {
		return nil, fmt.Errorf("operator: branch latent width %d does not match trunk latent width %d", bShape[0], tShape[0])
	}
	batch := bShape[len(bShape)-1]
	if tShape[2] != batch {
		return nil, fmt.Errorf("operator: branch batch %d does not match trunk batch %d", batch, tShape[2])
	}

	p, queries := tShape[0], tShape[1]
	extras := tensor.Shape(bShape[1 : len(bShape)-1])
	extraSize := extras.NumElements()

	be := d.backend
	// (p, extras..., batch) -> (batch, extraSize, p)
	b3 := be.Reshape(branch, tensor.Shape{p, extraSize, batch})
	bT := be.Transpose(b3, 2, 1, 0)
	// (p, queries, batch) -> (batch, p, queries)
	tT := be.Transpose(trunk, 2, 0, 1)

	prod := be.BatchMatMul(bT, tT)
	// (batch, extraSize, queries) -> (extraSize, queries, batch)
	prod = be.Transpose(prod, 1, 2, 0)

	if len(bShape) == 2 {
		return be.Reshape(prod, tensor.Shape{queries, batch}), nil
	}
	outShape := make(tensor.Shape, 0, len(extras)+2)
	outShape = append(outShape, extras...)
	outShape = append(outShape, queries, batch)
	return be.Reshape(prod, outShape), nil
}
