package godrt

// FindPeaks returns the indices of local maxima on the DRT curve whose
// amplitude exceeds strictness times the largest peak amplitude. strictness 0
// keeps every detected maximum; values approaching 1 keep only the global one.
// An empty result is valid: a flat or monotonic curve simply has no peaks.
func FindPeaks(curve []float64, strictness float64) ([]int, error) {
	if !isFinite(strictness) || strictness < 0 || strictness >= 1 {
		return nil, invalidInputf("peak strictness is %g, must be in [0, 1)", strictness)
	}
	peaks := localMaxima(curve)
	if len(peaks) == 0 || strictness == 0 {
		return peaks, nil
	}

	maxAmp := curve[peaks[0]]
	for _, i := range peaks[1:] {
		if curve[i] > maxAmp {
			maxAmp = curve[i]
		}
	}

	kept := make([]int, 0, len(peaks))
	for _, i := range peaks {
		if curve[i] > strictness*maxAmp {
			kept = append(kept, i)
		}
	}
	return kept, nil
}

// localMaxima returns indices of strict local maxima in ascending order.
// Plateau points and the two edge samples are never reported.
func localMaxima(y []float64) []int {
	var idx []int
	for i := 1; i < len(y)-1; i++ {
		if y[i] > y[i-1] && y[i] > y[i+1] {
			idx = append(idx, i)
		}
	}
	return idx
}
