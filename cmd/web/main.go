// Command web serves the assessment performance API: workbook ingestion,
// metric enrichment, and the student/batch/credential query surface.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gradepulse/internal/config"
	"gradepulse/internal/infrastructure"
	"gradepulse/internal/repository"
	"gradepulse/internal/roster"
	"gradepulse/internal/services"
	transport "gradepulse/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	if cfg.Auth.TokenSecret == config.DevTokenSecret {
		logger.Warn("using built-in development token secret, override GRADEPULSE_AUTH_TOKEN_SECRET in production")
	}

	repo := repository.New(cfg.Paths.DataDir, logger)
	rosterSvc := roster.New(cfg.Paths.LoginFile, logger)
	authSvc := services.NewAuthService(rosterSvc, cfg.Auth.TokenSecret, cfg.Auth.TokenTTL, logger)
	dataSvc := services.NewDataService(repo, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      transport.NewRouter(cfg, logger, authSvc, dataSvc),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.Int("port", cfg.Server.Port),
			slog.String("data_dir", cfg.Paths.DataDir))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
