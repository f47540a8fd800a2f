package operator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galerkin-ml/galerkin/internal/backend/cpu"
	"github.com/galerkin-ml/galerkin/internal/nn"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

func burgersConfig() FNOConfig {
	return FNOConfig{
		Channels:   []int{2, 64, 64, 128, 1},
		Modes:      []int{16},
		Activation: nn.GELU,
	}
}

func TestFNOConstructionGuard(t *testing.T) {
	b := cpu.New()

	for _, chs := range [][]int{{}, {2}, {2, 64}, {2, 64, 64}, {2, 64, 64, 1}} {
		_, err := NewFNO(b, FNOConfig{Channels: chs, Modes: []int{16}})
		require.Errorf(t, err, "channels %v should be rejected", chs)
		assert.Contains(t, err.Error(), "at least 5")
	}

	_, err := NewFNO(b, burgersConfig())
	require.NoError(t, err)

	_, err = NewFNO(b, FNOConfig{Channels: []int{2, 64, 64, 128, 1}})
	require.Error(t, err, "missing modes should be rejected")
}

func TestFNOEndToEndShape(t *testing.T) {
	b := cpu.New()
	fno, err := NewFNO(b, burgersConfig())
	require.NoError(t, err)
	params, state := fno.Init(rand.New(rand.NewSource(1)))

	for _, batch := range []int{1, 5, 8} {
		x := tensor.Randn(tensor.Shape{2, 1024, batch}, rand.New(rand.NewSource(int64(batch))))
		out, _, err := fno.Apply(x, params, state)
		require.NoErrorf(t, err, "batch %d", batch)
		assert.Equal(t, tensor.Shape{1, 1024, batch}, out.Shape())
	}
}

func TestFNORecordStructure(t *testing.T) {
	b := cpu.New()
	fno, err := NewFNO(b, burgersConfig())
	require.NoError(t, err)
	params, state := fno.Init(rand.New(rand.NewSource(1)))

	assert.Equal(t, []string{"lifting", "mapping", "project"}, params.ChildNames())
	assert.Equal(t, []string{"0"}, params.Child("mapping").ChildNames())
	block := params.Child("mapping").Child("0")
	assert.Equal(t, []string{"spatial", "spectral"}, block.ChildNames())
	assert.Equal(t, tensor.Shape{64, 64, 16}, block.Child("spectral").Tensor("weight").Shape())

	// 2->64 lifting, one 64->64 block (complex spectral weight plus dense
	// spatial mix), 64->128->1 projection.
	assert.Equal(t, 78337, params.NumParams())

	x := tensor.Randn(tensor.Shape{2, 64, 1}, rand.New(rand.NewSource(2)))
	_, newState, err := fno.Apply(x, params, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"lifting", "mapping", "project"}, newState.ChildNames())
}

func TestFNODeepStack(t *testing.T) {
	b := cpu.New()
	fno, err := NewFNO(b, FNOConfig{
		Channels:   []int{2, 16, 24, 32, 48, 1},
		Modes:      []int{8},
		Activation: nn.GELU,
	})
	require.NoError(t, err)
	params, state := fno.Init(rand.New(rand.NewSource(3)))

	assert.Equal(t, []string{"0", "1"}, params.Child("mapping").ChildNames())

	x := tensor.Randn(tensor.Shape{2, 64, 3}, rand.New(rand.NewSource(4)))
	out, _, err := fno.Apply(x, params, state)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 64, 3}, out.Shape())
}

func TestFNOPermutedLayout(t *testing.T) {
	b := cpu.New()
	fno, err := NewFNO(b, FNOConfig{
		Channels:   []int{2, 8, 8, 16, 1},
		Modes:      []int{6},
		Activation: nn.GELU,
		Permuted:   true,
	})
	require.NoError(t, err)
	params, state := fno.Init(rand.New(rand.NewSource(5)))

	x := tensor.Randn(tensor.Shape{32, 2, 4}, rand.New(rand.NewSource(6)))
	out, _, err := fno.Apply(x, params, state)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{32, 1, 4}, out.Shape())
}

func TestFNO2D(t *testing.T) {
	b := cpu.New()
	fno, err := NewFNO(b, FNOConfig{
		Channels:   []int{3, 8, 8, 16, 1},
		Modes:      []int{4, 4},
		Activation: nn.GELU,
	})
	require.NoError(t, err)
	params, state := fno.Init(rand.New(rand.NewSource(7)))

	x := tensor.Randn(tensor.Shape{3, 16, 12, 2}, rand.New(rand.NewSource(8)))
	out, _, err := fno.Apply(x, params, state)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 16, 12, 2}, out.Shape())
}

func TestFNODeterminism(t *testing.T) {
	b := cpu.New()
	fno, err := NewFNO(b, FNOConfig{
		Channels:   []int{2, 8, 8, 16, 1},
		Modes:      []int{4},
		Activation: nn.GELU,
	})
	require.NoError(t, err)
	params, state := fno.Init(rand.New(rand.NewSource(9)))

	x := tensor.Randn(tensor.Shape{2, 32, 2}, rand.New(rand.NewSource(10)))
	first, _, err := fno.Apply(x, params, state)
	require.NoError(t, err)
	second, _, err := fno.Apply(x, params, state)
	require.NoError(t, err)
	assert.Equal(t, first.AsFloat64(), second.AsFloat64())
}

func TestFNOModesExceedResolution(t *testing.T) {
	b := cpu.New()
	fno, err := NewFNO(b, burgersConfig())
	require.NoError(t, err)
	params, state := fno.Init(rand.New(rand.NewSource(11)))

	// 16 modes need at least 31 grid points; 16 provide only 9 bins.
	x := tensor.Randn(tensor.Shape{2, 16, 1}, rand.New(rand.NewSource(12)))
	_, _, err = fno.Apply(x, params, state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modes")
}
