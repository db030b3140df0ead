package profiling

import (
	"context"
	"net/http"
	"net/http/pprof"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Profiler serves pprof endpoints on a dedicated port, kept off the main
// service listener.
type Profiler struct {
	port   string
	server *http.Server
}

// New creates a profiler for the given port.
func New(port string) *Profiler {
	return &Profiler{port: port}
}

// Start launches the profiling server in the background.
func (p *Profiler) Start() {
	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	p.server = &http.Server{
		Addr:              ":" + p.port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	zap.L().Info("profiling server starting", zap.String("port", p.port))
	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Error("profiling server error", zap.Error(err))
		}
	}()
}

// Stop shuts the profiling server down.
func (p *Profiler) Stop(ctx context.Context) error {
	if p.server == nil {
		return nil
	}
	return p.server.Shutdown(ctx)
}
