package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/musegen/muse/internal/config"
	"github.com/musegen/muse/pkg/lifecycle"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP generation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			logger.Info(
				"muse starting",
				"version", cfg.Version,
				"addr", cfg.Server.Addr(),
				"env", cfg.Env(),
			)

			return serve(cfg, logger)
		},
	}
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	rt := buildRuntime(cfg, logger)
	router := buildRouter(cfg, rt, logger)

	lc := lifecycle.New()
	startHTTPServer(cfg, router, logger.With("system", "http"), lc)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("initiating shutdown")
	if err := lc.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		return err
	}

	logger.Info("muse stopped")
	return nil
}

func startHTTPServer(
	cfg *config.Config,
	handler http.Handler,
	logger *slog.Logger,
	lc *lifecycle.Coordinator,
) {
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		} else {
			logger.Info("server shutdown complete")
		}
	})
}
