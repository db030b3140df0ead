package worker

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kacperjurak/godrt"
	"github.com/kacperjurak/godrt/pkg/models"
)

// ProcessorFunc computes the DRT for one spectrum.
type ProcessorFunc func(freqs []float64, z []complex128) (godrt.Result, error)

// SenderFunc delivers one webhook item; nil disables delivery.
type SenderFunc func(models.WebhookItem)

// Pool runs DRT computations on a fixed set of workers. Every job allocates
// its own matrices inside the solver, so workers never share numeric state.
type Pool struct {
	jobs         chan models.WorkItem
	results      chan models.WorkResult
	webhookQueue chan models.WebhookItem
	workers      int
	shutdown     chan struct{}
	wg           sync.WaitGroup
	processor    ProcessorFunc
	sender       SenderFunc
}

// Options configures a new pool.
type Options struct {
	Workers   int
	Processor ProcessorFunc
	Sender    SenderFunc
}

// New creates and starts a worker pool.
func New(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 5
	}
	p := &Pool{
		jobs:         make(chan models.WorkItem, opts.Workers*2),
		results:      make(chan models.WorkResult, opts.Workers*2),
		webhookQueue: make(chan models.WebhookItem, opts.Workers*4),
		workers:      opts.Workers,
		shutdown:     make(chan struct{}),
		processor:    opts.Processor,
		sender:       opts.Sender,
	}
	p.start()
	return p
}

func (p *Pool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.wg.Add(1)
	go p.webhookProcessor()

	zap.L().Info("worker pool started", zap.Int("workers", p.workers))
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			p.results <- p.processJob(job)
		case <-p.shutdown:
			return
		}
	}
}

func (p *Pool) processJob(job models.WorkItem) models.WorkResult {
	start := time.Now()
	res, err := p.processor(job.Freqs, job.Z)
	if err != nil {
		zap.L().Error("DRT job failed",
			zap.String("request_id", job.RequestID),
			zap.String("batch_id", job.BatchID),
			zap.Int("iteration", job.Iteration),
			zap.Error(err))
	}
	return models.WorkResult{
		ID:             job.ID,
		RequestID:      job.RequestID,
		BatchID:        job.BatchID,
		Iteration:      job.Iteration,
		Result:         res,
		Err:            err,
		ProcessingTime: time.Since(start),
		Success:        err == nil,
	}
}

func (p *Pool) webhookProcessor() {
	defer p.wg.Done()
	for {
		select {
		case item := <-p.webhookQueue:
			if p.sender != nil {
				// Delivery must not block the queue drain.
				go p.sender(item)
			}
		case <-p.shutdown:
			return
		}
	}
}

// Submit queues a job. Blocks when the pool is saturated; returns false after
// shutdown. The shutdown channel is checked first so a buffered slot on a dead
// pool can never win the race.
func (p *Pool) Submit(job models.WorkItem) bool {
	select {
	case <-p.shutdown:
		return false
	default:
	}
	select {
	case p.jobs <- job:
		return true
	case <-p.shutdown:
		return false
	}
}

// Results exposes the result stream for batch collectors.
func (p *Pool) Results() <-chan models.WorkResult {
	return p.results
}

// QueueWebhook queues a finished computation for asynchronous delivery. Items
// are dropped with a log entry when the queue is full.
func (p *Pool) QueueWebhook(item models.WebhookItem) {
	select {
	case p.webhookQueue <- item:
	default:
		zap.L().Warn("webhook queue full, dropping item", zap.String("request_id", item.RequestID))
	}
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Shutdown stops all workers and waits for them to exit.
func (p *Pool) Shutdown() {
	close(p.shutdown)
	p.wg.Wait()
}
