// Package godrt computes the distribution of relaxation times (DRT) of an
// electrochemical impedance spectrum. The spectrum is discretized with radial
// basis functions centered at the measured frequencies, the weights are
// recovered by Tikhonov-regularized non-negative least squares, and the
// continuous DRT curve is interpolated on a dense relaxation-time grid.
package godrt

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Objective selection tags: fit the negated imaginary part, the real part, or
// both jointly.
const (
	MethodIm   = "im"
	MethodRe   = "re"
	MethodReIm = "re_im"
)

// Optimizer backends.
const (
	OptimLBFGS = "lbfgs"
	OptimLM    = "lm"
)

// Defaults applied by NewSolver.
const (
	DefaultWidthCoeff     = 0.10
	DefaultLambda         = 1e-2
	DefaultPeakStrictness = 0.01
)

// OK is the status of a successfully solved spectrum.
const OK = "OK"

// Solver holds one DRT computation: the measured spectrum and its settings.
// Each call to Solve allocates its own matrices and buffers, so independent
// solvers may run concurrently.
type Solver struct {
	Freqs          []float64
	Z              []complex128
	Method         string
	OptimMethod    string
	WidthCoeff     float64
	Lambda         float64
	PeakStrictness float64
	Kernel         Kernel
}

// Result is the output of one DRT computation. PeakTaus and PeakGammas are
// index-aligned; TauGrid and Gamma are index-aligned.
type Result struct {
	PeakTaus   []float64
	PeakGammas []float64
	TauGrid    []float64
	Gamma      []float64
	Weights    []float64
	Rinf       float64
	Eps        float64
	Min        float64
	Status     string
}

// NewSolver returns a solver with the default configuration: imaginary-part
// fit, L-BFGS backend, Gaussian kernel.
func NewSolver(freqs []float64, z []complex128) *Solver {
	return &Solver{
		Freqs:          freqs,
		Z:              z,
		Method:         MethodIm,
		OptimMethod:    OptimLBFGS,
		WidthCoeff:     DefaultWidthCoeff,
		Lambda:         DefaultLambda,
		PeakStrictness: DefaultPeakStrictness,
		Kernel:         GaussianKernel{},
	}
}

// ComputeDRT runs the full pipeline with default settings.
func ComputeDRT(freqs []float64, z []complex128) (Result, error) {
	return NewSolver(freqs, z).Solve()
}

// Solve runs the pipeline: shape factor, forward matrices, regularized
// constrained fit, interpolation, peak extraction. Any stage failure is fatal
// and propagates immediately; no partial result is ever returned.
func (s *Solver) Solve() (Result, error) {
	if err := s.validate(); err != nil {
		return Result{}, err
	}
	n := len(s.Freqs)

	eps, err := ShapeFactor(s.Freqs, s.WidthCoeff, s.Kernel)
	if err != nil {
		return Result{}, err
	}

	// EIS sign convention: the capacitive imaginary part is negated before use.
	bre := make([]float64, n)
	bim := make([]float64, n)
	for i, z := range s.Z {
		bre[i] = real(z)
		bim[i] = -imag(z)
	}

	var (
		obj     func([]float64) float64
		grad    func(grad, x []float64)
		mats    []*mat.Dense
		targets [][]float64
	)
	switch s.Method {
	case MethodIm:
		aim, err := BuildImagMatrix(s.Freqs, eps, s.Kernel)
		if err != nil {
			return Result{}, err
		}
		obj = Objective(aim, bim, s.Lambda)
		grad = ObjectiveGrad(aim, bim, s.Lambda)
		mats, targets = []*mat.Dense{aim}, [][]float64{bim}
	case MethodRe:
		are, err := BuildRealMatrix(s.Freqs, eps, s.Kernel)
		if err != nil {
			return Result{}, err
		}
		obj = Objective(are, bre, s.Lambda)
		grad = ObjectiveGrad(are, bre, s.Lambda)
		mats, targets = []*mat.Dense{are}, [][]float64{bre}
	case MethodReIm:
		aim, err := BuildImagMatrix(s.Freqs, eps, s.Kernel)
		if err != nil {
			return Result{}, err
		}
		are, err := BuildRealMatrix(s.Freqs, eps, s.Kernel)
		if err != nil {
			return Result{}, err
		}
		obj = JointObjective(aim, bim, are, bre, s.Lambda)
		grad = JointObjectiveGrad(aim, bim, are, bre, s.Lambda)
		mats, targets = []*mat.Dense{aim, are}, [][]float64{bim, bre}
	default:
		return Result{}, invalidInputf("unknown method %q, want %q, %q or %q", s.Method, MethodIm, MethodRe, MethodReIm)
	}

	// N discretization weights plus the series-resistance term, all started
	// slightly off the lower bound.
	x0 := make([]float64, n+1)
	for i := range x0 {
		x0[i] = initialWeight
	}
	if !isFinite(obj(x0)) {
		return Result{}, &NumericalError{Stage: "objective", Msg: "loss is not finite at the initial guess"}
	}

	var theta []float64
	switch s.OptimMethod {
	case OptimLBFGS, "":
		theta, err = minimizeBounded(obj, grad, x0, weightLowerBound, weightUpperBound)
		var stall *ConvergenceError
		if errors.As(err, &stall) {
			// Sparse solutions park most weights on the lower bound, exactly
			// where the quasi-Newton line search stalls. Polish from the best
			// iterate with the least-squares backend before giving up.
			resid, size := stackedResiduals(mats, targets, s.Lambda, n+1)
			theta, err = minimizeBoundedLS(resid, size, stall.Best, weightLowerBound, weightUpperBound)
		}
	case OptimLM:
		resid, size := stackedResiduals(mats, targets, s.Lambda, n+1)
		theta, err = minimizeBoundedLS(resid, size, x0, weightLowerBound, weightUpperBound)
	default:
		return Result{}, invalidInputf("unknown optimizer %q, want %q or %q", s.OptimMethod, OptimLBFGS, OptimLM)
	}
	if err != nil {
		return Result{}, err
	}
	if !allFinite(theta) {
		return Result{}, &NumericalError{Stage: "optimize", Msg: "weight vector contains non-finite entries"}
	}

	weights := theta[:n]
	rinf := theta[n]

	taus, err := TauGrid(s.Freqs)
	if err != nil {
		return Result{}, err
	}
	gamma, err := Interpolate(taus, s.Freqs, weights, eps, s.Kernel)
	if err != nil {
		return Result{}, err
	}
	if !allFinite(gamma) {
		return Result{}, &NumericalError{Stage: "interpolate", Msg: "DRT curve contains non-finite values"}
	}

	peaks, err := FindPeaks(gamma, s.PeakStrictness)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		PeakTaus:   make([]float64, 0, len(peaks)),
		PeakGammas: make([]float64, 0, len(peaks)),
		TauGrid:    taus,
		Gamma:      gamma,
		Weights:    weights,
		Rinf:       rinf,
		Eps:        eps,
		Min:        obj(theta),
		Status:     OK,
	}
	for _, i := range peaks {
		res.PeakTaus = append(res.PeakTaus, taus[i])
		res.PeakGammas = append(res.PeakGammas, gamma[i])
	}
	return res, nil
}

func (s *Solver) validate() error {
	if err := validateFreqs(s.Freqs, 3); err != nil {
		return err
	}
	if len(s.Z) != len(s.Freqs) {
		return invalidInputf("got %d impedance values for %d frequencies", len(s.Z), len(s.Freqs))
	}
	for i, z := range s.Z {
		if !isFinite(real(z)) || !isFinite(imag(z)) {
			return invalidInputf("impedance at index %d is not finite", i)
		}
	}
	if !isFinite(s.Lambda) || s.Lambda < 0 {
		return invalidInputf("lambda is %g, must be non-negative", s.Lambda)
	}
	if !isFinite(s.WidthCoeff) || s.WidthCoeff <= 0 {
		return invalidInputf("width coefficient is %g, must be positive", s.WidthCoeff)
	}
	if !isFinite(s.PeakStrictness) || s.PeakStrictness < 0 || s.PeakStrictness >= 1 {
		return invalidInputf("peak strictness is %g, must be in [0, 1)", s.PeakStrictness)
	}
	if s.Kernel == nil {
		return invalidInputf("kernel must not be nil")
	}
	return nil
}
