package godrt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// testFreqs returns n log-spaced frequencies between lo and hi.
func testFreqs(lo, hi float64, n int) []float64 {
	return floats.LogSpan(make([]float64, n), lo, hi)
}

func TestComputeDRTSingleRelaxationTime(t *testing.T) {
	const tau0 = 1e-2
	freqs := testFreqs(1e-1, 1e5, 61)
	z := VoigtImpedance(freqs, 10, []VoigtPair{{R: 100, Tau: tau0}})

	res, err := ComputeDRT(freqs, z)
	require.NoError(t, err)
	assert.Equal(t, OK, res.Status)

	// Grid contract: 10*N points, one decade beyond the input range each side.
	require.Len(t, res.TauGrid, 10*len(freqs))
	assert.InDelta(t, 0.1/1e5, res.TauGrid[0], 1e-12)
	assert.InDelta(t, 10/1e-1, res.TauGrid[len(res.TauGrid)-1], 1e-6)
	require.Len(t, res.Gamma, len(res.TauGrid))

	// Non-negative weights and kernel give a non-negative curve.
	for _, v := range res.Gamma {
		assert.GreaterOrEqual(t, v, 0.0)
	}
	for _, w := range res.Weights {
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1e8)
	}

	// A single RC element yields a single peak at its relaxation time.
	require.Len(t, res.PeakTaus, 1)
	assert.InDelta(t, 0, math.Log(res.PeakTaus[0]/tau0), 0.15)

	maxGamma := floats.Max(res.Gamma)
	for _, amp := range res.PeakGammas {
		assert.LessOrEqual(t, amp, maxGamma)
		assert.Greater(t, amp, DefaultPeakStrictness*maxGamma)
	}
}

func TestComputeDRTDefaultsConverge(t *testing.T) {
	// A wide spectrum with one sharp process drives most weights onto the
	// lower bound, the configuration that stalls a plain quasi-Newton run.
	// The default pipeline must still come back with a solution, not a
	// ConvergenceError.
	freqs := testFreqs(1e-1, 1e5, 61)
	z := VoigtImpedance(freqs, 10, []VoigtPair{{R: 100, Tau: 1e-2}})

	res, err := ComputeDRT(freqs, z)
	require.NoError(t, err)
	var conv *ConvergenceError
	assert.False(t, errors.As(err, &conv))
	assert.Equal(t, OK, res.Status)
	assert.NotEmpty(t, res.PeakTaus)
}

func TestComputeDRTTwoRelaxationTimes(t *testing.T) {
	taus := []float64{1e-3, 1e0}
	freqs := testFreqs(1e-2, 1e4, 61)
	z := VoigtImpedance(freqs, 5, []VoigtPair{
		{R: 80, Tau: taus[0]},
		{R: 120, Tau: taus[1]},
	})

	res, err := ComputeDRT(freqs, z)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.PeakTaus), 2)

	// Each true relaxation time has a detected peak close by.
	for _, tau0 := range taus {
		closest := math.Inf(1)
		for _, p := range res.PeakTaus {
			if d := math.Abs(math.Log(p / tau0)); d < closest {
				closest = d
			}
		}
		assert.Less(t, closest, 0.25, "no peak near tau %g", tau0)
	}
}

func TestSolveJointMethod(t *testing.T) {
	const tau0 = 1e-2
	freqs := testFreqs(1e-1, 1e4, 51)
	s := NewSolver(freqs, VoigtImpedance(freqs, 10, []VoigtPair{{R: 100, Tau: tau0}}))
	s.Method = MethodReIm

	res, err := s.Solve()
	require.NoError(t, err)
	require.NotEmpty(t, res.PeakTaus)

	// Dominant peak sits at the true relaxation time.
	best := 0
	for i, amp := range res.PeakGammas {
		if amp > res.PeakGammas[best] {
			best = i
		}
	}
	assert.InDelta(t, 0, math.Log(res.PeakTaus[best]/tau0), 0.25)
}

func TestSolveRealMethod(t *testing.T) {
	freqs := testFreqs(1e-1, 1e4, 51)
	s := NewSolver(freqs, VoigtImpedance(freqs, 10, []VoigtPair{{R: 100, Tau: 1e-2}}))
	s.Method = MethodRe

	res, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, OK, res.Status)
	require.Len(t, res.Gamma, 10*len(freqs))
}

func TestSolveLevenbergMarquardt(t *testing.T) {
	const tau0 = 1e-2
	freqs := testFreqs(1e0, 1e3, 31)
	s := NewSolver(freqs, VoigtImpedance(freqs, 10, []VoigtPair{{R: 100, Tau: tau0}}))
	s.OptimMethod = OptimLM

	res, err := s.Solve()
	require.NoError(t, err)
	require.NotEmpty(t, res.PeakTaus)

	best := 0
	for i, amp := range res.PeakGammas {
		if amp > res.PeakGammas[best] {
			best = i
		}
	}
	assert.InDelta(t, 0, math.Log(res.PeakTaus[best]/tau0), 0.3)
}

func TestComputeDRTDeterministic(t *testing.T) {
	freqs := testFreqs(1e-1, 1e4, 41)
	z := VoigtImpedance(freqs, 10, []VoigtPair{{R: 100, Tau: 1e-2}})

	r1, err := ComputeDRT(freqs, z)
	require.NoError(t, err)
	r2, err := ComputeDRT(freqs, z)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
}

func TestSolveInvalidInput(t *testing.T) {
	good := testFreqs(1e-1, 1e3, 21)
	goodZ := VoigtImpedance(good, 10, []VoigtPair{{R: 100, Tau: 1e-1}})

	cases := []struct {
		name   string
		mutate func(*Solver)
	}{
		{"zero frequency", func(s *Solver) { s.Freqs[3] = 0 }},
		{"negative frequency", func(s *Solver) { s.Freqs[3] = -10 }},
		{"too few points", func(s *Solver) { s.Freqs = s.Freqs[:2]; s.Z = s.Z[:2] }},
		{"length mismatch", func(s *Solver) { s.Z = s.Z[:len(s.Z)-1] }},
		{"non-finite impedance", func(s *Solver) { s.Z[0] = complex(math.NaN(), 0) }},
		{"unknown method", func(s *Solver) { s.Method = "modulus" }},
		{"unknown optimizer", func(s *Solver) { s.OptimMethod = "annealing" }},
		{"negative lambda", func(s *Solver) { s.Lambda = -1 }},
		{"zero width coefficient", func(s *Solver) { s.WidthCoeff = 0 }},
		{"strictness out of range", func(s *Solver) { s.PeakStrictness = 1 }},
		{"nil kernel", func(s *Solver) { s.Kernel = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSolver(append([]float64(nil), good...), append([]complex128(nil), goodZ...))
			tc.mutate(s)
			_, err := s.Solve()
			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestVoigtImpedanceNoisyDeterministic(t *testing.T) {
	freqs := testFreqs(1e0, 1e3, 13)
	pairs := []VoigtPair{{R: 50, Tau: 1e-2}}

	a := VoigtImpedanceNoisy(freqs, 5, pairs, 0.01, 42)
	b := VoigtImpedanceNoisy(freqs, 5, pairs, 0.01, 42)
	c := VoigtImpedanceNoisy(freqs, 5, pairs, 0.01, 43)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
