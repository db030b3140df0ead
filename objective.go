package godrt

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Objective returns the Tikhonov-regularized least-squares loss
//
//	|| A*x - b ||^2 + lambda * ||x||^2
//
// as a closure over the weight vector. lambda = 0 degenerates to plain least
// squares, which is unstable for this ill-posed problem; callers should keep
// the regularization on.
func Objective(a *mat.Dense, b []float64, lambda float64) func(x []float64) float64 {
	return func(x []float64) float64 {
		return residualSq(a, b, x) + lambda*normSq(x)
	}
}

// ObjectiveGrad returns the analytic gradient 2*A^T*(A*x-b) + 2*lambda*x of
// the single-part objective, in the in-place signature the minimizer expects.
func ObjectiveGrad(a *mat.Dense, b []float64, lambda float64) func(grad, x []float64) {
	return func(grad, x []float64) {
		for i := range grad {
			grad[i] = 2 * lambda * x[i]
		}
		addResidualGrad(grad, a, b, x)
	}
}

// JointObjective sums the imaginary- and real-part squared residuals with a
// single shared regularization penalty (not doubled).
func JointObjective(aim *mat.Dense, bim []float64, are *mat.Dense, bre []float64, lambda float64) func(x []float64) float64 {
	return func(x []float64) float64 {
		return residualSq(aim, bim, x) + residualSq(are, bre, x) + lambda*normSq(x)
	}
}

func JointObjectiveGrad(aim *mat.Dense, bim []float64, are *mat.Dense, bre []float64, lambda float64) func(grad, x []float64) {
	return func(grad, x []float64) {
		for i := range grad {
			grad[i] = 2 * lambda * x[i]
		}
		addResidualGrad(grad, aim, bim, x)
		addResidualGrad(grad, are, bre, x)
	}
}

func residualSq(a *mat.Dense, b []float64, x []float64) float64 {
	r, _ := a.Dims()
	ax := mat.NewVecDense(r, nil)
	ax.MulVec(a, mat.NewVecDense(len(x), x))
	var sum float64
	for i := 0; i < r; i++ {
		d := ax.AtVec(i) - b[i]
		sum += d * d
	}
	return sum
}

// addResidualGrad accumulates 2*A^T*(A*x-b) into grad.
func addResidualGrad(grad []float64, a *mat.Dense, b []float64, x []float64) {
	r, c := a.Dims()
	res := mat.NewVecDense(r, nil)
	res.MulVec(a, mat.NewVecDense(len(x), x))
	for i := 0; i < r; i++ {
		res.SetVec(i, res.AtVec(i)-b[i])
	}
	at := mat.NewVecDense(c, nil)
	at.MulVec(a.T(), res)
	for i := 0; i < c; i++ {
		grad[i] += 2 * at.AtVec(i)
	}
}

func normSq(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// stackedResiduals flattens one or more weighted least-squares blocks plus the
// Tikhonov penalty rows sqrt(lambda)*x into a single residual vector, the form
// the Levenberg-Marquardt backend consumes. Returns the residual function and
// its total row count.
func stackedResiduals(mats []*mat.Dense, targets [][]float64, lambda float64, dim int) (func(dst, x []float64), int) {
	size := dim
	for _, t := range targets {
		size += len(t)
	}
	sqrtLam := math.Sqrt(lambda)
	f := func(dst, x []float64) {
		xv := mat.NewVecDense(len(x), x)
		off := 0
		for k, a := range mats {
			r, _ := a.Dims()
			ax := mat.NewVecDense(r, nil)
			ax.MulVec(a, xv)
			for i := 0; i < r; i++ {
				dst[off+i] = ax.AtVec(i) - targets[k][i]
			}
			off += r
		}
		for i, v := range x {
			dst[off+i] = sqrtLam * v
		}
	}
	return f, size
}
