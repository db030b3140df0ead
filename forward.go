package godrt

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BuildRealMatrix constructs the N x (N+1) matrix mapping discretization
// weights to the reconstructed real impedance at each measured frequency.
// Entry (i, j) is the kernel's real Debye transform at omegaTau = 2*pi*f_i*tau_j
// with tau_j = 1/f_j. The extra last column is the series (high-frequency)
// resistance term, which shifts every real sample by the same amount.
func BuildRealMatrix(freqs []float64, eps float64, k Kernel) (*mat.Dense, error) {
	if err := validateForward(freqs, eps); err != nil {
		return nil, err
	}
	n := len(freqs)
	a := mat.NewDense(n, n+1, nil)
	for i, fi := range freqs {
		for j, fj := range freqs {
			a.Set(i, j, k.RealTransform(eps, 2*math.Pi*fi/fj))
		}
		a.Set(i, n, 1)
	}
	return a, nil
}

// BuildImagMatrix is the imaginary-part counterpart of BuildRealMatrix. The
// series-resistance column is zero: a pure resistance has no imaginary
// response.
func BuildImagMatrix(freqs []float64, eps float64, k Kernel) (*mat.Dense, error) {
	if err := validateForward(freqs, eps); err != nil {
		return nil, err
	}
	n := len(freqs)
	a := mat.NewDense(n, n+1, nil)
	for i, fi := range freqs {
		for j, fj := range freqs {
			a.Set(i, j, k.ImagTransform(eps, 2*math.Pi*fi/fj))
		}
	}
	return a, nil
}

func validateForward(freqs []float64, eps float64) error {
	if err := validateFreqs(freqs, 2); err != nil {
		return err
	}
	if !isFinite(eps) || eps <= 0 {
		return invalidInputf("shape factor is %g, must be positive", eps)
	}
	return nil
}
