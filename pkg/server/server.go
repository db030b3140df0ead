package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kacperjurak/godrt/pkg/config"
	"github.com/kacperjurak/godrt/pkg/handlers"
	"github.com/kacperjurak/godrt/pkg/models"
	"github.com/kacperjurak/godrt/pkg/profiling"
	"github.com/kacperjurak/godrt/pkg/webhook"
	"github.com/kacperjurak/godrt/pkg/worker"
)

// Server wires the DRT HTTP API: router, worker pool, webhook client and the
// optional profiling sidecar.
type Server struct {
	cfg        *config.Config
	serverCfg  *config.ServerConfig
	pool       *worker.Pool
	httpServer *http.Server
	profiler   *profiling.Profiler
}

// Options configures a new server.
type Options struct {
	Config       *config.Config
	ServerConfig *config.ServerConfig
	Processor    worker.ProcessorFunc
}

// New assembles a server; Start brings it up.
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.ServerConfig == nil {
		opts.ServerConfig = config.DefaultServerConfig()
	}

	whClient := webhook.NewClient(opts.ServerConfig.WebhookURL)
	pool := worker.New(worker.Options{
		Workers:   opts.ServerConfig.WorkerCount,
		Processor: opts.Processor,
		Sender: func(item models.WebhookItem) {
			if err := whClient.Send(item); err != nil {
				zap.L().Warn("webhook delivery failed",
					zap.String("request_id", item.RequestID),
					zap.Error(err))
			}
		},
	})

	s := &Server{
		cfg:       opts.Config,
		serverCfg: opts.ServerConfig,
		pool:      pool,
	}
	if opts.ServerConfig.EnableProfiling {
		s.profiler = profiling.New(opts.ServerConfig.ProfilingPort)
	}

	s.httpServer = &http.Server{
		Addr:         ":" + opts.ServerConfig.Port,
		Handler:      s.router(handlers.ProcessorFunc(opts.Processor)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) router(processor handlers.ProcessorFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Handle("/drt", handlers.NewDRTHandler(s.pool, processor, s.cfg.Method))
	r.Handle("/drt/batch", handlers.NewBatchHandler(s.pool, s.cfg.Method))
	r.Get("/health", s.healthHandler)
	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Start runs the HTTP listener; it blocks until the server stops.
func (s *Server) Start() error {
	if s.profiler != nil {
		s.profiler.Start()
	}
	zap.L().Info("server starting",
		zap.String("port", s.serverCfg.Port),
		zap.Int("workers", s.pool.Workers()))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains the pool and stops the listeners.
func (s *Server) Shutdown(ctx context.Context) error {
	s.pool.Shutdown()
	if s.profiler != nil {
		if err := s.profiler.Stop(ctx); err != nil {
			zap.L().Warn("profiler shutdown failed", zap.Error(err))
		}
	}
	return s.httpServer.Shutdown(ctx)
}
