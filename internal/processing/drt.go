package processing

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kacperjurak/godrt"
	"github.com/kacperjurak/godrt/pkg/config"
)

// Processor turns service configuration into solver runs.
type Processor struct{}

// New creates a processor.
func New() *Processor {
	return &Processor{}
}

// Kernel resolves a configured kernel name.
func Kernel(name string) (godrt.Kernel, error) {
	switch name {
	case "", "gaussian":
		return godrt.GaussianKernel{}, nil
	case "inverse-quadratic":
		return godrt.InverseQuadraticKernel{}, nil
	default:
		return nil, eris.Errorf("unknown kernel %q", name)
	}
}

// Process computes the DRT of one spectrum with the given service config.
// Validation and numeric failures propagate unchanged apart from stage
// context; no fallback result is ever produced.
func (p *Processor) Process(freqs []float64, z []complex128, cfg *config.Config) (godrt.Result, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if len(freqs) == 0 {
		return godrt.Result{}, eris.New("no frequency data provided")
	}
	if len(freqs) != len(z) {
		return godrt.Result{}, eris.Errorf("frequency and impedance length mismatch: %d vs %d", len(freqs), len(z))
	}

	k, err := Kernel(cfg.Kernel)
	if err != nil {
		return godrt.Result{}, err
	}

	s := godrt.NewSolver(freqs, z)
	s.Kernel = k
	if cfg.Method != "" {
		s.Method = cfg.Method
	}
	if cfg.Optimizer != "" {
		s.OptimMethod = cfg.Optimizer
	}
	if cfg.WidthCoeff > 0 {
		s.WidthCoeff = cfg.WidthCoeff
	}
	if cfg.Lambda > 0 {
		s.Lambda = cfg.Lambda
	}
	if cfg.PeakStrictness > 0 {
		s.PeakStrictness = cfg.PeakStrictness
	}

	start := time.Now()
	res, err := s.Solve()
	if err != nil {
		return godrt.Result{}, eris.Wrap(err, "compute DRT")
	}

	if !cfg.Quiet {
		zap.L().Info("DRT computed",
			zap.Int("points", len(freqs)),
			zap.String("method", s.Method),
			zap.Int("peaks", len(res.PeakTaus)),
			zap.Float64("residual", res.Min),
			zap.Duration("elapsed", time.Since(start)))
	}
	return res, nil
}
