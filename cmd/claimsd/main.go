package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/claimsight/claim-analyzer/internal/app"
	"github.com/claimsight/claim-analyzer/internal/common"
	"github.com/claimsight/claim-analyzer/internal/ingest"
	"github.com/claimsight/claim-analyzer/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.DB.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	logger.Info("db.health.ok")

	// optional drop-folder intake alongside the API
	if cfg.Intake.WatchDir != "" {
		in := ingest.NewIntake(a.Processor, logger)
		go func() {
			err := in.RunWatch(ctx, ingest.WatchConfig{
				Roots:       []string{cfg.Intake.WatchDir},
				InitialScan: true,
				Debounce:    cfg.Intake.Debounce,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("intake watcher stopped", "error", err)
			}
		}()
		logger.Info("intake.watch.started", "dir", cfg.Intake.WatchDir)
	}

	srv := server.New(a.Processor, a.Claims, a.Exporter, a.DB, logger)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http.listen", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("shutdown complete")
}
