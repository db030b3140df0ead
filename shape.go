package godrt

import "math"

// ShapeFactor calibrates the RBF width parameter from the measured frequency
// spacing. The width coefficient scales the kernel's full width at half
// maximum against the mean spacing of the points in log-relaxation-time space,
// so denser spectra get narrower basis functions.
func ShapeFactor(freqs []float64, coeff float64, k Kernel) (float64, error) {
	if err := validateFreqs(freqs, 2); err != nil {
		return 0, err
	}
	if !isFinite(coeff) || coeff <= 0 {
		return 0, invalidInputf("width coefficient is %g, must be positive", coeff)
	}

	// tau = 1/f, so |diff(ln tau)| == |diff(ln f)|.
	var sum float64
	for i := 1; i < len(freqs); i++ {
		sum += math.Abs(math.Log(freqs[i]) - math.Log(freqs[i-1]))
	}
	delta := sum / float64(len(freqs)-1)
	if delta == 0 {
		return 0, invalidInputf("frequencies are all identical, spacing is undefined")
	}
	return coeff * k.FWHM() / delta, nil
}
