package godrt

import (
	"fmt"
	"math"
)

// InvalidInputError reports malformed caller input: non-positive or non-finite
// frequencies, mismatched sequence lengths, or an unrecognized method tag.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return "godrt: invalid input: " + e.Msg
}

func invalidInputf(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Msg: fmt.Sprintf(format, args...)}
}

// ConvergenceError reports that the minimizer did not reach a stationary point
// within its iteration budget. Best holds the last iterate, already mapped back
// to weight space; it must not be used as a DRT solution.
type ConvergenceError struct {
	Reason string
	Best   []float64
}

func (e *ConvergenceError) Error() string {
	return "godrt: optimizer did not converge: " + e.Reason
}

// NumericalError reports a non-finite value produced mid-pipeline, with the
// stage that produced it.
type NumericalError struct {
	Stage string
	Msg   string
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("godrt: numerical failure in %s: %s", e.Stage, e.Msg)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if !isFinite(x) {
			return false
		}
	}
	return true
}

// validateFreqs rejects short, non-positive and non-finite frequency sequences
// before any matrix work happens.
func validateFreqs(freqs []float64, minLen int) error {
	if len(freqs) < minLen {
		return invalidInputf("need at least %d frequencies, got %d", minLen, len(freqs))
	}
	for i, f := range freqs {
		if !isFinite(f) {
			return invalidInputf("frequency at index %d is not finite", i)
		}
		if f <= 0 {
			return invalidInputf("frequency at index %d is %g, must be positive", i, f)
		}
	}
	return nil
}
