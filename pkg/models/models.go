package models

import (
	"time"

	"github.com/kacperjurak/godrt"
)

// ImpedancePoint is one complex impedance sample on the wire.
type ImpedancePoint struct {
	Real float64 `json:"real"`
	Imag float64 `json:"imag"`
}

// SpectrumData is an incoming impedance spectrum.
type SpectrumData struct {
	Timestamp   string           `json:"timestamp"`
	Frequencies []float64        `json:"frequencies"`
	Impedance   []ImpedancePoint `json:"impedance"`
}

// Decompose converts the wire format into the solver's inputs.
func (s SpectrumData) Decompose() ([]float64, []complex128) {
	z := make([]complex128, len(s.Impedance))
	for i, p := range s.Impedance {
		z[i] = complex(p.Real, p.Imag)
	}
	return s.Frequencies, z
}

// BatchItem is a single spectrum within a batch, tagged with its iteration.
type BatchItem struct {
	SpectrumData SpectrumData `json:"spectrum_data"`
	Iteration    int          `json:"iteration"`
}

// SpectrumBatch is a batch of impedance spectra processed as one unit.
type SpectrumBatch struct {
	BatchID   string      `json:"batch_id"`
	Timestamp time.Time   `json:"timestamp"`
	Spectra   []BatchItem `json:"spectra"`
}

// WorkItem is one DRT computation task for the worker pool.
type WorkItem struct {
	ID        int
	RequestID string
	BatchID   string
	Iteration int
	Freqs     []float64
	Z         []complex128
	StartTime time.Time
}

// WorkResult carries the outcome of one DRT computation.
type WorkResult struct {
	ID             int
	RequestID      string
	BatchID        string
	Iteration      int
	Result         godrt.Result
	Err            error
	ProcessingTime time.Duration
	Success        bool
}

// WebhookItem queues a finished computation for downstream delivery.
type WebhookItem struct {
	RequestID string
	Method    string
	Result    godrt.Result
}

// WebhookPayload is the JSON document pushed to the webhook consumer.
type WebhookPayload struct {
	ID         string    `json:"id"`
	Time       string    `json:"time"`
	Method     string    `json:"method"`
	PeakTaus   []float64 `json:"peak_relaxation_times"`
	PeakGammas []float64 `json:"peak_amplitudes"`
	TauGrid    []float64 `json:"relaxation_times"`
	Gamma      []float64 `json:"drt"`
	Rinf       float64   `json:"r_inf"`
	Residual   float64   `json:"residual"`
}

// SpectrumTiming tracks per-spectrum batch metrics.
type SpectrumTiming struct {
	Iteration      int           `json:"iteration"`
	ProcessingTime time.Duration `json:"processing_time_ms"`
	Residual       float64       `json:"residual"`
	Peaks          int           `json:"peaks"`
	Success        bool          `json:"success"`
}
