package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperjurak/godrt"
	"github.com/kacperjurak/godrt/pkg/models"
)

func stubProcessor(residual float64, err error) ProcessorFunc {
	return func(freqs []float64, z []complex128) (godrt.Result, error) {
		return godrt.Result{Min: residual, Status: godrt.OK}, err
	}
}

func TestPoolProcessesJobs(t *testing.T) {
	p := New(Options{Workers: 3, Processor: stubProcessor(0.5, nil)})
	defer p.Shutdown()

	const jobs = 10
	for i := 0; i < jobs; i++ {
		ok := p.Submit(models.WorkItem{
			ID:        i,
			RequestID: "req",
			Iteration: i,
			Freqs:     []float64{1, 10, 100},
			Z:         []complex128{1, 1, 1},
		})
		require.True(t, ok)
	}

	seen := make(map[int]bool)
	for i := 0; i < jobs; i++ {
		select {
		case res := <-p.Results():
			assert.True(t, res.Success)
			assert.NoError(t, res.Err)
			assert.Equal(t, 0.5, res.Result.Min)
			seen[res.ID] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for results")
		}
	}
	assert.Len(t, seen, jobs)
}

func TestPoolReportsFailedJobs(t *testing.T) {
	p := New(Options{Workers: 1, Processor: stubProcessor(0, errors.New("boom"))})
	defer p.Shutdown()

	require.True(t, p.Submit(models.WorkItem{ID: 1}))

	select {
	case res := <-p.Results():
		assert.False(t, res.Success)
		assert.Error(t, res.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}
}

func TestPoolDeliversWebhooks(t *testing.T) {
	delivered := make(chan models.WebhookItem, 1)
	p := New(Options{
		Workers:   1,
		Processor: stubProcessor(0, nil),
		Sender:    func(item models.WebhookItem) { delivered <- item },
	})
	defer p.Shutdown()

	p.QueueWebhook(models.WebhookItem{RequestID: "abc", Method: "im"})

	select {
	case item := <-delivered:
		assert.Equal(t, "abc", item.RequestID)
		assert.Equal(t, "im", item.Method)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was never delivered")
	}
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	p := New(Options{Workers: 2, Processor: stubProcessor(0, nil)})
	p.Shutdown()

	assert.False(t, p.Submit(models.WorkItem{ID: 1}))
}

func TestPoolDefaultWorkerCount(t *testing.T) {
	p := New(Options{Processor: stubProcessor(0, nil)})
	defer p.Shutdown()

	assert.Equal(t, 5, p.Workers())
}
