package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kacperjurak/godrt/pkg/models"
	"github.com/kacperjurak/godrt/pkg/worker"
)

// BatchHandler accepts a batch of spectra, fans them out over the worker pool
// and reports aggregate timing once every spectrum is done.
type BatchHandler struct {
	pool   *worker.Pool
	method string
}

// NewBatchHandler creates the batch handler.
func NewBatchHandler(pool *worker.Pool, method string) *BatchHandler {
	return &BatchHandler{pool: pool, method: method}
}

// ServeHTTP implements http.Handler.
func (h *BatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var batch models.SpectrumBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if len(batch.Spectra) == 0 {
		writeError(w, "no spectra provided in batch", http.StatusBadRequest)
		return
	}
	for i, item := range batch.Spectra {
		if len(item.SpectrumData.Frequencies) != len(item.SpectrumData.Impedance) {
			writeError(w, "frequency and impedance counts differ in spectrum "+strconv.Itoa(i), http.StatusBadRequest)
			return
		}
	}
	if batch.BatchID == "" {
		batch.BatchID = uuid.NewString()
	}

	zap.L().Info("batch processing started",
		zap.String("batch_id", batch.BatchID),
		zap.Int("spectra", len(batch.Spectra)))

	go h.processBatchAsync(batch)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success":  true,
		"batch_id": batch.BatchID,
		"spectra":  len(batch.Spectra),
		"message":  "batch processing started",
	})
}

func (h *BatchHandler) processBatchAsync(batch models.SpectrumBatch) {
	start := time.Now()

	// Submission runs alongside collection: the collector keeps the results
	// channel drained while Submit blocks on a saturated jobs queue, so batch
	// size is not capped by the pool's channel capacity.
	submitted := make(chan int, 1)
	go func() {
		n := 0
		for i, item := range batch.Spectra {
			freqs, z := item.SpectrumData.Decompose()
			ok := h.pool.Submit(models.WorkItem{
				ID:        i,
				RequestID: uuid.NewString(),
				BatchID:   batch.BatchID,
				Iteration: item.Iteration,
				Freqs:     freqs,
				Z:         z,
				StartTime: time.Now(),
			})
			if !ok {
				zap.L().Warn("pool shut down mid-batch", zap.String("batch_id", batch.BatchID))
				break
			}
			n++
		}
		submitted <- n
	}()

	timings := make([]models.SpectrumTiming, 0, len(batch.Spectra))
	succeeded := 0
	expected := len(batch.Spectra)
	for collected := 0; collected < expected; {
		select {
		case res := <-h.pool.Results():
			collected++
			timings = append(timings, models.SpectrumTiming{
				Iteration:      res.Iteration,
				ProcessingTime: res.ProcessingTime,
				Residual:       res.Result.Min,
				Peaks:          len(res.Result.PeakTaus),
				Success:        res.Success,
			})
			if res.Success {
				succeeded++
				h.pool.QueueWebhook(models.WebhookItem{
					RequestID: res.RequestID,
					Method:    h.method,
					Result:    res.Result,
				})
			}
		case n := <-submitted:
			expected = n
			submitted = nil
		}
	}

	var total time.Duration
	for _, t := range timings {
		total += t.ProcessingTime
	}
	zap.L().Info("batch processing completed",
		zap.String("batch_id", batch.BatchID),
		zap.Int("spectra", len(batch.Spectra)),
		zap.Int("succeeded", succeeded),
		zap.Duration("wall_time", time.Since(start)),
		zap.Duration("cpu_time", total))
}
