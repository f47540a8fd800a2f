package operator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galerkin-ml/galerkin/internal/backend/cpu"
	"github.com/galerkin-ml/galerkin/internal/nn"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

func TestDeepONetScalarCase(t *testing.T) {
	b := cpu.New()
	don, err := NewDeepONetFromConfig(b, DeepONetConfig{
		BranchWidths:     []int{64, 32, 16},
		TrunkWidths:      []int{1, 8, 16},
		BranchActivation: nn.Tanh,
		TrunkActivation:  nn.Tanh,
	})
	require.NoError(t, err)
	params, state := don.Init(rand.New(rand.NewSource(1)))

	for _, batch := range []int{1, 4} {
		for _, queries := range []int{1, 10} {
			u := tensor.Randn(tensor.Shape{64, batch}, rand.New(rand.NewSource(2)))
			y := tensor.Randn(tensor.Shape{1, queries, batch}, rand.New(rand.NewSource(3)))
			out, _, err := don.Apply(u, y, params, state)
			require.NoErrorf(t, err, "batch=%d queries=%d", batch, queries)
			assert.Equal(t, tensor.Shape{queries, batch}, out.Shape())
		}
	}
}

func TestDeepONetVectorCase(t *testing.T) {
	b := cpu.New()
	const (
		p = 16
		k = 3
	)
	// The branch emits k*p features and reinterprets them as a (p, k)
	// block, giving a vector-valued output field with k components.
	branch := nn.NewChain(
		nn.NewDense(b, 64, k*p, nn.Tanh),
		nn.NewReshape(b, tensor.Shape{p, k}),
	)
	trunk := nn.NewChain(
		nn.NewDense(b, 1, 8, nn.Tanh),
		nn.NewDense(b, 8, p, nn.Identity),
	)
	don := NewDeepONet(b, branch, trunk, nil)
	params, state := don.Init(rand.New(rand.NewSource(4)))

	const (
		queries = 7
		batch   = 5
	)
	u := tensor.Randn(tensor.Shape{64, batch}, rand.New(rand.NewSource(5)))
	y := tensor.Randn(tensor.Shape{1, queries, batch}, rand.New(rand.NewSource(6)))
	out, _, err := don.Apply(u, y, params, state)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{k, queries, batch}, out.Shape())
}

func TestDeepONetLatentMismatch(t *testing.T) {
	b := cpu.New()
	branch := nn.NewChain(nn.NewDense(b, 64, 20, nn.Identity))
	trunk := nn.NewChain(nn.NewDense(b, 1, 16, nn.Identity))
	don := NewDeepONet(b, branch, trunk, nil)
	params, state := don.Init(rand.New(rand.NewSource(7)))

	for _, batch := range []int{1, 3} {
		for _, queries := range []int{1, 9} {
			t.Run(fmt.Sprintf("batch=%d_queries=%d", batch, queries), func(t *testing.T) {
				u := tensor.Randn(tensor.Shape{64, batch}, rand.New(rand.NewSource(8)))
				y := tensor.Randn(tensor.Shape{1, queries, batch}, rand.New(rand.NewSource(9)))
				_, _, err := don.Apply(u, y, params, state)
				require.Error(t, err)
				assert.Contains(t, err.Error(), "20")
				assert.Contains(t, err.Error(), "16")
			})
		}
	}
}

func TestDeepONetConfigMismatchCaughtEarly(t *testing.T) {
	b := cpu.New()
	_, err := NewDeepONetFromConfig(b, DeepONetConfig{
		BranchWidths: []int{64, 20},
		TrunkWidths:  []int{1, 16},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20")
	assert.Contains(t, err.Error(), "16")
}

func TestDeepONetCombineKnownValues(t *testing.T) {
	b := cpu.New()
	// Identity-weight single layers keep the inputs as the latents, so the
	// output is the plain inner product of the supplied vectors.
	branch := nn.NewDenseNoBias(b, 2, 2, nn.Identity)
	trunk := nn.NewDenseNoBias(b, 2, 2, nn.Identity)
	don := NewDeepONet(b, branch, trunk, nil)

	eye, err := tensor.FromSlice([]float64{1, 0, 0, 1}, tensor.Shape{2, 2})
	require.NoError(t, err)
	params := nn.NewRecord().
		SetChild("branch", nn.NewRecord().SetTensor("weight", eye)).
		SetChild("trunk", nn.NewRecord().SetTensor("weight", eye.Clone()))
	state := nn.NewRecord().
		SetChild("branch", nn.NewRecord()).
		SetChild("trunk", nn.NewRecord())

	u, err := tensor.FromSlice([]float64{2, 3}, tensor.Shape{2, 1})
	require.NoError(t, err)
	// Two query points with latents (1, 0) and (4, 5).
	y, err := tensor.FromSlice([]float64{1, 4, 0, 5}, tensor.Shape{2, 2, 1})
	require.NoError(t, err)

	out, _, err := don.Apply(u, y, params, state)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2, 1}, out.Shape())
	assert.InDeltaSlice(t, []float64{2, 23}, out.AsFloat64(), 1e-12)
}

func TestDeepONetAdditionalTransform(t *testing.T) {
	b := cpu.New()
	const (
		p = 16
		k = 3
	)
	branch := nn.NewChain(
		nn.NewDense(b, 64, k*p, nn.Tanh),
		nn.NewReshape(b, tensor.Shape{p, k}),
	)
	trunk := nn.NewChain(nn.NewDense(b, 1, p, nn.Tanh))
	// Recalibrate the k output components down to 2, independent of p.
	additional := nn.NewDense(b, k, 2, nn.Identity)
	don := NewDeepONet(b, branch, trunk, additional)

	params, state := don.Init(rand.New(rand.NewSource(10)))
	assert.Equal(t, []string{"additional", "branch", "trunk"}, params.ChildNames())

	u := tensor.Randn(tensor.Shape{64, 4}, rand.New(rand.NewSource(11)))
	y := tensor.Randn(tensor.Shape{1, 6, 4}, rand.New(rand.NewSource(12)))
	out, newState, err := don.Apply(u, y, params, state)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 6, 4}, out.Shape())
	assert.Equal(t, []string{"additional", "branch", "trunk"}, newState.ChildNames())
}

func TestDeepONetBatchMismatch(t *testing.T) {
	b := cpu.New()
	don, err := NewDeepONetFromConfig(b, DeepONetConfig{
		BranchWidths: []int{8, 4},
		TrunkWidths:  []int{1, 4},
	})
	require.NoError(t, err)
	params, state := don.Init(rand.New(rand.NewSource(13)))

	u := tensor.Randn(tensor.Shape{8, 2}, rand.New(rand.NewSource(14)))
	y := tensor.Randn(tensor.Shape{1, 5, 3}, rand.New(rand.NewSource(15)))
	_, _, err = don.Apply(u, y, params, state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch")
}

func TestDeepONetDeterminism(t *testing.T) {
	b := cpu.New()
	don, err := NewDeepONetFromConfig(b, DeepONetConfig{
		BranchWidths:     []int{32, 16, 8},
		TrunkWidths:      []int{2, 16, 8},
		BranchActivation: nn.GELU,
		TrunkActivation:  nn.GELU,
	})
	require.NoError(t, err)
	params, state := don.Init(rand.New(rand.NewSource(16)))

	u := tensor.Randn(tensor.Shape{32, 3}, rand.New(rand.NewSource(17)))
	y := tensor.Randn(tensor.Shape{2, 11, 3}, rand.New(rand.NewSource(18)))
	first, _, err := don.Apply(u, y, params, state)
	require.NoError(t, err)
	second, _, err := don.Apply(u, y, params, state)
	require.NoError(t, err)
	assert.Equal(t, first.AsFloat64(), second.AsFloat64())
}
