package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"trendmoni/api"
	"trendmoni/config"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the scheduled email digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	for _, w := range startupWarnings(cfg) {
		logger.Warn("[serve] %s", w)
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	router := api.NewRouter(api.Deps{
		Authority:   a.authority,
		Profiles:    a.profiles,
		Datasets:    a.datasets,
		Recommender: a.recommender,
		Logger:      logger,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go a.digest.Schedule(ctx, cfg.DigestInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("=== Trend-Moni API listening on :%s ===", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("[serve] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startupWarnings lists configuration an operator should know about before
// exposing the API.
func startupWarnings(cfg *config.Config) []string {
	var warnings []string
	if cfg.JWTSecret == "change-me" {
		warnings = append(warnings, "JWT_SECRET is the default value; set it before exposing the API")
	}
	if cfg.UsePostgres() {
		warnings = append(warnings, "login credentials are held in memory only; profiles persist in PostgreSQL but registered logins are lost on restart")
	}
	return warnings
}
