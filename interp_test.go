package godrt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTauGridSizeAndSpan(t *testing.T) {
	freqs := []float64{1, 10, 100}

	taus, err := TauGrid(freqs)
	require.NoError(t, err)
	require.Len(t, taus, 10*len(freqs))

	// One decade beyond the measured range on each side: tau in [0.1/fmax, 10/fmin].
	assert.InDelta(t, 1e-3, taus[0], 1e-12)
	assert.InDelta(t, 10, taus[len(taus)-1], 1e-9)

	// Strictly ascending.
	for i := 1; i < len(taus); i++ {
		assert.Greater(t, taus[i], taus[i-1])
	}
}

func TestTauGridOrderIndependent(t *testing.T) {
	desc, err := TauGrid([]float64{100, 10, 1})
	require.NoError(t, err)
	asc, err := TauGrid([]float64{1, 10, 100})
	require.NoError(t, err)
	assert.Equal(t, asc, desc)
}

func TestInterpolateNonNegative(t *testing.T) {
	freqs := []float64{1, 10, 100, 1000}
	weights := []float64{0.5, 2, 0, 1.5}
	taus, err := TauGrid(freqs)
	require.NoError(t, err)

	curve, err := Interpolate(taus, freqs, weights, 0.7, GaussianKernel{})
	require.NoError(t, err)
	require.Len(t, curve, len(taus))

	// Non-negative weights with a non-negative kernel give a non-negative curve.
	for i, v := range curve {
		assert.GreaterOrEqual(t, v, 0.0, "curve value at %d", i)
	}
}

func TestInterpolateRecoversBasisCenter(t *testing.T) {
	// A single unit weight at f = 10 puts the curve maximum at tau = 0.1.
	freqs := []float64{1, 10, 100}
	weights := []float64{0, 1, 0}
	taus, err := TauGrid(freqs)
	require.NoError(t, err)

	curve, err := Interpolate(taus, freqs, weights, 0.7, GaussianKernel{})
	require.NoError(t, err)

	maxIdx := 0
	for i, v := range curve {
		if v > curve[maxIdx] {
			maxIdx = i
		}
	}
	// 30 grid points over 4 decades leave ~37% between neighbors, so the
	// maximum can sit up to one grid step away from the basis center.
	step := math.Log(taus[1] / taus[0])
	assert.LessOrEqual(t, math.Abs(math.Log(taus[maxIdx]/0.1)), step+1e-12)
}

func TestInterpolateLengthMismatch(t *testing.T) {
	var invalid *InvalidInputError
	_, err := Interpolate([]float64{0.1, 1}, []float64{1, 10}, []float64{1}, 0.7, GaussianKernel{})
	require.ErrorAs(t, err, &invalid)
}
