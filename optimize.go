package godrt

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

const (
	weightLowerBound = 0
	weightUpperBound = 1e8
	initialWeight    = 0.05

	maxMajorIterations = 5000
	maxLMIterations    = 300
	lbfgsRestarts      = 3
)

// boxTransform maps unconstrained optimizer variables onto [lo, hi] weights
// via the squared-variable substitution x = lo + z^2. The substitution keeps
// the lower bound exact and differentiable; the upper bound is a guard rail
// enforced by projection, far above any physically meaningful weight.
type boxTransform struct {
	lo, hi float64
}

func (t boxTransform) apply(z []float64) []float64 {
	x := make([]float64, len(z))
	for i, v := range z {
		x[i] = math.Min(t.lo+v*v, t.hi)
	}
	return x
}

func (t boxTransform) invert(x []float64) []float64 {
	z := make([]float64, len(x))
	for i, v := range x {
		z[i] = math.Sqrt(v - t.lo)
	}
	return z
}

// chain scales a weight-space gradient into optimizer space: dF/dz = dF/dx * 2z.
func (t boxTransform) chain(grad, z []float64) {
	for i := range grad {
		grad[i] *= 2 * z[i]
	}
}

// minimizeBounded wraps the gonum quasi-Newton minimizer as the box-constrained
// collaborator of the pipeline: objective and optional gradient in, weight
// vector within [lo, hi] out. A nil grad falls back to central finite
// differences. The line search can stall on iterates where the bound transform
// flattens the gradient (weights sitting on the lower bound have z near 0), so
// a stall or budget exhaustion triggers a cold restart from the best point with
// fresh curvature memory. Only after the restarts are spent does the stall
// surface as ConvergenceError with the best iterate attached.
func minimizeBounded(obj func([]float64) float64, grad func(grad, x []float64), x0 []float64, lo, hi float64) ([]float64, error) {
	tr := boxTransform{lo: lo, hi: hi}

	wrapped := func(z []float64) float64 {
		return obj(tr.apply(z))
	}
	wrappedGrad := func(g, z []float64) {
		fd.Gradient(g, wrapped, z, nil)
	}
	if grad != nil {
		wrappedGrad = func(g, z []float64) {
			grad(g, tr.apply(z))
			tr.chain(g, z)
		}
	}

	problem := optimize.Problem{
		Func: wrapped,
		Grad: wrappedGrad,
	}
	settings := &optimize.Settings{
		MajorIterations:   maxMajorIterations,
		GradientThreshold: 1e-8,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-12,
			Iterations: 50,
		},
	}

	z := tr.invert(x0)
	best := append([]float64(nil), x0...)
	bestF := math.Inf(1)
	for attempt := 0; ; attempt++ {
		res, err := optimize.Minimize(problem, z, settings, &optimize.LBFGS{})
		if res == nil {
			return best, &ConvergenceError{Reason: err.Error(), Best: best}
		}
		if res.F < bestF {
			bestF = res.F
			best = tr.apply(res.X)
		}
		if err == nil && res.Status != optimize.IterationLimit && res.Status != optimize.Failure {
			return best, nil
		}
		if attempt == lbfgsRestarts {
			reason := fmt.Sprintf("stopped with status %v after %d iterations", res.Status, res.Stats.MajorIterations)
			if err != nil {
				reason = err.Error()
			}
			return best, &ConvergenceError{Reason: reason, Best: best}
		}
		z = tr.invert(best)
	}
}

// minimizeBoundedLS is the least-squares variant of minimizeBounded, solving
// the stacked residual system with Levenberg-Marquardt under the same bound
// transform. The LM implementation panics on singular normal equations, so
// that path is recovered into a ConvergenceError as well.
func minimizeBoundedLS(resid func(dst, x []float64), size int, x0 []float64, lo, hi float64) (best []float64, err error) {
	tr := boxTransform{lo: lo, hi: hi}
	z0 := tr.invert(x0)

	wrapped := func(dst, z []float64) {
		resid(dst, tr.apply(z))
	}
	jac := lm.NumJac{Func: wrapped}

	problem := lm.LMProblem{
		Dim:        len(x0),
		Size:       size,
		Func:       wrapped,
		Jac:        jac.Jac,
		InitParams: z0,
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	defer func() {
		if r := recover(); r != nil {
			best = append([]float64(nil), x0...)
			err = &ConvergenceError{Reason: fmt.Sprintf("levenberg-marquardt panic: %v", r), Best: best}
		}
	}()

	res, lmErr := lm.LM(problem, &lm.Settings{Iterations: maxLMIterations, ObjectiveTol: 1e-16})
	if lmErr != nil {
		best = append([]float64(nil), x0...)
		return best, &ConvergenceError{Reason: lmErr.Error(), Best: best}
	}
	return tr.apply(res.X), nil
}
