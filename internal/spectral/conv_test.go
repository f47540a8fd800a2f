package spectral

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/galerkin-ml/galerkin/internal/backend/cpu"
	"github.com/galerkin-ml/galerkin/internal/nn"
	"github.com/galerkin-ml/galerkin/internal/tensor"
)

func TestSpectralConvShapeContract(t *testing.T) {
	b := cpu.New()
	tests := []struct {
		name         string
		cIn, cOut, n int
		modes        []int
		batch        int
	}{
		{"narrow", 1, 1, 16, []int{4}, 1},
		{"widen", 2, 8, 64, []int{12}, 5},
		{"shrink", 8, 2, 100, []int{16}, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc, err := NewSpectralConv(b, tc.cIn, tc.cOut, tc.modes, false)
			require.NoError(t, err)
			params, state := sc.Init(rand.New(rand.NewSource(1)))

			x := tensor.Randn(tensor.Shape{tc.cIn, tc.n, tc.batch}, rand.New(rand.NewSource(2)))
			out, _, err := sc.Apply(x, params, state)
			require.NoError(t, err)
			assert.Equal(t, tensor.Shape{tc.cOut, tc.n, tc.batch}, out.Shape())
			assert.Equal(t, tensor.Float64, out.DType())
		})
	}
}

func TestSpectralConvShapeContract2D(t *testing.T) {
	b := cpu.New()
	sc, err := NewSpectralConv(b, 3, 5, []int{6, 4}, false)
	require.NoError(t, err)
	params, state := sc.Init(rand.New(rand.NewSource(1)))

	x := tensor.Randn(tensor.Shape{3, 24, 16, 2}, rand.New(rand.NewSource(2)))
	out, _, err := sc.Apply(x, params, state)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{5, 24, 16, 2}, out.Shape())
}

func TestSpectralConvPermutedLayout(t *testing.T) {
	b := cpu.New()
	sc, err := NewSpectralConv(b, 2, 4, []int{8}, true)
	require.NoError(t, err)
	params, state := sc.Init(rand.New(rand.NewSource(1)))

	x := tensor.Randn(tensor.Shape{32, 2, 3}, rand.New(rand.NewSource(2)))
	out, _, err := sc.Apply(x, params, state)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{32, 4, 3}, out.Shape())
}

func TestSpectralConvWeightShape(t *testing.T) {
	b := cpu.New()
	sc, err := NewSpectralConv(b, 3, 7, []int{5, 4}, false)
	require.NoError(t, err)
	params, _ := sc.Init(rand.New(rand.NewSource(1)))

	w := params.Tensor("weight")
	assert.Equal(t, tensor.Shape{7, 3, 5, 4}, w.Shape())
	assert.Equal(t, tensor.Complex128, w.DType())
}

func TestSpectralConvDCPassthrough(t *testing.T) {
	b := cpu.New()
	// One channel, one retained mode: only the mean survives, scaled by the
	// (real) spectral weight.
	sc, err := NewSpectralConv(b, 1, 1, []int{1}, false)
	require.NoError(t, err)

	w, err := tensor.FromSlice([]complex128{complex(2, 0)}, tensor.Shape{1, 1, 1})
	require.NoError(t, err)
	params := nn.NewRecord().SetTensor("weight", w)

	const n = 8
	x := tensor.Full(tensor.Shape{1, n, 1}, 3)
	out, _, err := sc.Apply(x, params, nn.NewRecord())
	require.NoError(t, err)

	for i, v := range out.AsFloat64() {
		assert.InDeltaf(t, 6, v, 1e-12, "element %d", i)
	}
}

func TestSpectralConvMatchesPerFrequencyReference(t *testing.T) {
	b := cpu.New()
	const (
		cIn, cOut = 3, 2
		n, batch  = 16, 4
		m         = 5
	)
	sc, err := NewSpectralConv(b, cIn, cOut, []int{m}, false)
	require.NoError(t, err)
	params, state := sc.Init(rand.New(rand.NewSource(3)))

	x := tensor.Randn(tensor.Shape{cIn, n, batch}, rand.New(rand.NewSource(4)))
	got, _, err := sc.Apply(x, params, state)
	require.NoError(t, err)

	// Same transform chain, but mix each frequency with an explicit
	// matrix-vector loop instead of the batched multiply.
	spectrum, err := sc.ft.Forward(x)
	require.NoError(t, err)
	trunc, err := sc.ft.Truncate(spectrum)
	require.NoError(t, err)

	src := trunc.AsComplex128()
	w := params.Tensor("weight").AsComplex128()
	mixed := tensor.MustNew(tensor.Shape{cOut, m, batch}, tensor.Complex128)
	dst := mixed.AsComplex128()
	for o := 0; o < cOut; o++ {
		for k := 0; k < m; k++ {
			for bi := 0; bi < batch; bi++ {
				var sum complex128
				for i := 0; i < cIn; i++ {
					sum += w[(o*cIn+i)*m+k] * src[(i*m+k)*batch+bi]
				}
				dst[(o*m+k)*batch+bi] = sum
			}
		}
	}
	padded, err := sc.ft.Pad(mixed, tensor.Shape{n})
	require.NoError(t, err)
	want, err := sc.ft.Inverse(padded, n)
	require.NoError(t, err)

	assert.True(t, floats.EqualApprox(want.AsFloat64(), got.AsFloat64(), 1e-12))
}

func TestSpectralConvChannelMismatch(t *testing.T) {
	b := cpu.New()
	sc, err := NewSpectralConv(b, 4, 2, []int{4}, false)
	require.NoError(t, err)
	params, state := sc.Init(rand.New(rand.NewSource(1)))

	x := tensor.Randn(tensor.Shape{3, 16, 1}, rand.New(rand.NewSource(2)))
	_, _, err = sc.Apply(x, params, state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 channels")
	assert.Contains(t, err.Error(), "expects 4")
}

func TestSpectralConvTooManyModes(t *testing.T) {
	b := cpu.New()
	// 16 modes need at least 16 bins, but a length-8 axis only has 5. The
	// error surfaces at call time, when the input size is first known.
	sc, err := NewSpectralConv(b, 1, 1, []int{16}, false)
	require.NoError(t, err)
	params, state := sc.Init(rand.New(rand.NewSource(1)))

	x := tensor.Randn(tensor.Shape{1, 8, 1}, rand.New(rand.NewSource(2)))
	_, _, err = sc.Apply(x, params, state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "16 modes")
}

func TestSpectralConvDeterminism(t *testing.T) {
	b := cpu.New()
	sc, err := NewSpectralConv(b, 2, 3, []int{6}, false)
	require.NoError(t, err)
	params, state := sc.Init(rand.New(rand.NewSource(7)))

	x := tensor.Randn(tensor.Shape{2, 32, 4}, rand.New(rand.NewSource(8)))
	first, _, err := sc.Apply(x, params, state)
	require.NoError(t, err)
	second, _, err := sc.Apply(x, params, state)
	require.NoError(t, err)

	assert.Equal(t, first.AsFloat64(), second.AsFloat64())
}

func TestSpectralConvStatelessRecords(t *testing.T) {
	b := cpu.New()
	sc, err := NewSpectralConv(b, 2, 2, []int{4}, false)
	require.NoError(t, err)
	params, state := sc.Init(rand.New(rand.NewSource(1)))
	assert.True(t, state.IsEmpty())
	assert.Equal(t, []string{"weight"}, params.TensorNames())
}
