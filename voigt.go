package godrt

import (
	"math"
	"math/rand"
)

// VoigtPair is one parallel RC element of a Voigt chain: polarization
// resistance R with relaxation time Tau.
type VoigtPair struct {
	R   float64
	Tau float64
}

// VoigtImpedance generates the impedance of a series resistance plus a Voigt
// chain at the given frequencies:
//
//	Z(f) = Rinf + sum_k R_k / (1 + i*2*pi*f*Tau_k)
//
// Useful for synthetic spectra with known relaxation times.
func VoigtImpedance(freqs []float64, rinf float64, pairs []VoigtPair) []complex128 {
	z := make([]complex128, len(freqs))
	for i, f := range freqs {
		sum := complex(rinf, 0)
		w := 2 * math.Pi * f
		for _, p := range pairs {
			sum += complex(p.R, 0) / complex(1, w*p.Tau)
		}
		z[i] = sum
	}
	return z
}

// VoigtImpedanceNoisy perturbs each point of a Voigt spectrum by uniform
// relative noise of the given level. The seed is explicit so generated
// spectra stay reproducible.
func VoigtImpedanceNoisy(freqs []float64, rinf float64, pairs []VoigtPair, level float64, seed int64) []complex128 {
	rng := rand.New(rand.NewSource(seed))
	z := VoigtImpedance(freqs, rinf, pairs)
	for i, v := range z {
		re := real(v) * (1 + level*(2*rng.Float64()-1))
		im := imag(v) * (1 + level*(2*rng.Float64()-1))
		z[i] = complex(re, im)
	}
	return z
}
