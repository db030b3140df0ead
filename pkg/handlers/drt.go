package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kacperjurak/godrt"
	"github.com/kacperjurak/godrt/pkg/models"
	"github.com/kacperjurak/godrt/pkg/worker"
)

// ProcessorFunc computes the DRT for one spectrum.
type ProcessorFunc func(freqs []float64, z []complex128) (godrt.Result, error)

// DRTHandler accepts a single impedance spectrum, computes its DRT
// asynchronously and pushes the result through the webhook queue.
type DRTHandler struct {
	pool      *worker.Pool
	processor ProcessorFunc
	method    string
}

// NewDRTHandler creates the single-spectrum handler.
func NewDRTHandler(pool *worker.Pool, processor ProcessorFunc, method string) *DRTHandler {
	return &DRTHandler{pool: pool, processor: processor, method: method}
}

// ServeHTTP implements http.Handler.
func (h *DRTHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var data models.SpectrumData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if len(data.Frequencies) == 0 {
		writeError(w, "no data points provided", http.StatusBadRequest)
		return
	}
	if len(data.Frequencies) != len(data.Impedance) {
		writeError(w, "frequency and impedance counts differ", http.StatusBadRequest)
		return
	}

	requestID := uuid.NewString()
	go h.processAsync(requestID, data)

	zap.L().Info("DRT request accepted",
		zap.String("request_id", requestID),
		zap.Int("points", len(data.Frequencies)))

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success":    true,
		"request_id": requestID,
		"message":    "processing started",
	})
}

func (h *DRTHandler) processAsync(requestID string, data models.SpectrumData) {
	freqs, z := data.Decompose()
	res, err := h.processor(freqs, z)
	if err != nil {
		zap.L().Error("DRT request failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return
	}
	h.pool.QueueWebhook(models.WebhookItem{
		RequestID: requestID,
		Method:    h.method,
		Result:    res,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
