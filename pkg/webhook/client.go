package webhook

import (
	"bytes"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/kacperjurak/godrt/pkg/models"
)

// Client posts finished DRT results to a downstream consumer, typically a
// plotting frontend.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a webhook client with connection pooling tuned for many
// small JSON posts to a single host.
func NewClient(url string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout:   45 * time.Second,
			Transport: transport,
		},
	}
}

// Send delivers one result. Non-2xx responses count as delivery failures.
func (c *Client) Send(item models.WebhookItem) error {
	payload := models.WebhookPayload{
		ID:         item.RequestID,
		Time:       time.Now().Format(time.RFC3339Nano),
		Method:     item.Method,
		PeakTaus:   item.Result.PeakTaus,
		PeakGammas: item.Result.PeakGammas,
		TauGrid:    item.Result.TauGrid,
		Gamma:      item.Result.Gamma,
		Rinf:       sanitizeFloat(item.Result.Rinf),
		Residual:   sanitizeFloat(item.Result.Min),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "marshal webhook payload")
	}

	resp, err := c.httpClient.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "send webhook")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return eris.Errorf("webhook request failed with status %d", resp.StatusCode)
	}
	return nil
}

// sanitizeFloat replaces values JSON cannot carry.
func sanitizeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
