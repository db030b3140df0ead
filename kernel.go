package godrt

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Kernel is the radial basis function family used to discretize the DRT.
//
// Eval is the pointwise kernel value for two scaled log-frequency coordinates.
// RealTransform and ImagTransform give the contribution of a basis function to
// the reconstructed real and imaginary impedance for a dimensionless product
// omegaTau = 2*pi*f*tau, i.e. the integrals
//
//	int k(eps*u) / (1 + (omegaTau*e^u)^2) du
//	int k(eps*u) * omegaTau*e^u / (1 + (omegaTau*e^u)^2) du
//
// over the log-relaxation-time axis. FWHM is the full width at half maximum of
// the unscaled profile k(z, 0), used for shape-factor calibration.
type Kernel interface {
	Eval(u, v float64) float64
	RealTransform(eps, omegaTau float64) float64
	ImagTransform(eps, omegaTau float64) float64
	FWHM() float64
}

// hermiteNodes is the fixed Gauss-Hermite order for the Gaussian transforms.
// The integrands are smooth sigmoids in the Hermite variable, so a moderate
// order already gives near machine-precision results.
const hermiteNodes = 60

// legendreNodes is the fixed Gauss-Legendre order used after the tan
// substitution for kernels without a Gaussian weight.
const legendreNodes = 128

// GaussianKernel is the squared-exponential kernel exp(-(u-v)^2), the default
// basis for the DRT discretization.
type GaussianKernel struct{}

func (GaussianKernel) Eval(u, v float64) float64 {
	d := u - v
	return math.Exp(-d * d)
}

// RealTransform integrates the Debye real part against the Gaussian profile.
// The kernel itself is the Gauss-Hermite weight, so only the Debye factor
// remains under the quadrature.
func (GaussianKernel) RealTransform(eps, omegaTau float64) float64 {
	f := func(t float64) float64 {
		x := omegaTau * math.Exp(t/eps)
		if math.IsInf(x, 1) {
			return 0
		}
		return 1 / (1 + x*x)
	}
	return quad.Fixed(f, math.Inf(-1), math.Inf(1), hermiteNodes, quad.Hermite{}, 0) / eps
}

func (GaussianKernel) ImagTransform(eps, omegaTau float64) float64 {
	f := func(t float64) float64 {
		x := omegaTau * math.Exp(t/eps)
		if math.IsInf(x, 1) {
			return 0
		}
		return x / (1 + x*x)
	}
	return quad.Fixed(f, math.Inf(-1), math.Inf(1), hermiteNodes, quad.Hermite{}, 0) / eps
}

func (GaussianKernel) FWHM() float64 {
	return 2 * math.Sqrt(math.Ln2)
}

// InverseQuadraticKernel is the Cauchy-type kernel 1/(1+(u-v)^2). Its heavier
// tails make it less local than the Gaussian; useful for sparse spectra.
type InverseQuadraticKernel struct{}

func (InverseQuadraticKernel) Eval(u, v float64) float64 {
	d := u - v
	return 1 / (1 + d*d)
}

func (k InverseQuadraticKernel) RealTransform(eps, omegaTau float64) float64 {
	return k.transform(eps, omegaTau, func(x float64) float64 {
		return 1 / (1 + x*x)
	})
}

func (k InverseQuadraticKernel) ImagTransform(eps, omegaTau float64) float64 {
	return k.transform(eps, omegaTau, func(x float64) float64 {
		return x / (1 + x*x)
	})
}

// transform maps the infinite log-time axis onto (-pi/2, pi/2) with u = tan(s)
// and integrates with fixed Gauss-Legendre. The substitution keeps the node
// density high where the kernel mass sits.
func (InverseQuadraticKernel) transform(eps, omegaTau float64, debye func(float64) float64) float64 {
	f := func(s float64) float64 {
		u := math.Tan(s)
		sec := 1 / math.Cos(s)
		x := omegaTau * math.Exp(u)
		var d float64
		if !math.IsInf(x, 1) {
			d = debye(x)
		}
		eu := eps * u
		return sec * sec * d / (1 + eu*eu)
	}
	return quad.Fixed(f, -math.Pi/2, math.Pi/2, legendreNodes, quad.Legendre{}, 0)
}

func (InverseQuadraticKernel) FWHM() float64 {
	return 2
}
