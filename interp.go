package godrt

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// gridFactor sets the output resolution: the relaxation-time grid carries
// gridFactor points per measured frequency.
const gridFactor = 10

// TauGrid builds the dense output relaxation-time grid: 10*N log-spaced
// values spanning one decade beyond the measured range on each side
// (tau = 1/f, so the decade extension applies on the inverted axis).
func TauGrid(freqs []float64) ([]float64, error) {
	if err := validateFreqs(freqs, 2); err != nil {
		return nil, err
	}
	fmin, fmax := freqRange(freqs)
	return floats.LogSpan(make([]float64, gridFactor*len(freqs)), 0.1/fmax, 10/fmin), nil
}

// Interpolate evaluates the fitted RBF expansion on the output grid:
//
//	gamma(tau_k) = sum_j w_j * k(eps*ln f_k, eps*ln f_j),  f_k = 1/tau_k.
//
// weights are the discretization weights only; the series-resistance term has
// no place on the relaxation-time axis and must be trimmed by the caller.
func Interpolate(taus, freqs, weights []float64, eps float64, k Kernel) ([]float64, error) {
	if len(weights) != len(freqs) {
		return nil, invalidInputf("got %d weights for %d frequencies", len(weights), len(freqs))
	}
	if err := validateForward(freqs, eps); err != nil {
		return nil, err
	}
	for i, tau := range taus {
		if !isFinite(tau) || tau <= 0 {
			return nil, invalidInputf("relaxation time at index %d is %g, must be positive", i, tau)
		}
	}

	x0 := make([]float64, len(freqs))
	for j, f := range freqs {
		x0[j] = eps * math.Log(f)
	}

	curve := make([]float64, len(taus))
	for i, tau := range taus {
		x := -eps * math.Log(tau)
		var sum float64
		for j := range x0 {
			sum += weights[j] * k.Eval(x, x0[j])
		}
		curve[i] = sum
	}
	return curve, nil
}

func freqRange(freqs []float64) (fmin, fmax float64) {
	fmin, fmax = freqs[0], freqs[0]
	for _, f := range freqs[1:] {
		if f < fmin {
			fmin = f
		}
		if f > fmax {
			fmax = f
		}
	}
	return fmin, fmax
}
