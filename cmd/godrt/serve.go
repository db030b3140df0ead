package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kacperjurak/godrt"
	"github.com/kacperjurak/godrt/internal/processing"
	"github.com/kacperjurak/godrt/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the DRT HTTP service",
	Long:  "Starts the HTTP API that accepts impedance spectra, computes their DRT on a worker pool and delivers results via webhook.",
	RunE: func(cmd *cobra.Command, args []string) error {
		proc := processing.New()
		srv := server.New(server.Options{
			Config:       cfg,
			ServerConfig: serverCfg,
			Processor: func(freqs []float64, z []complex128) (godrt.Result, error) {
				return proc.Process(freqs, z, cfg)
			},
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	},
}
