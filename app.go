package main

import (
	"context"
	"fmt"
	"time"

	"trendmoni/auth"
	"trendmoni/config"
	"trendmoni/services"
	"trendmoni/storage"
	"trendmoni/utils"
)

// profileBackend is what the composition root needs from a store.
type profileBackend interface {
	storage.ProfileStore
	storage.ProfileLister
}

// app wires the long-lived components from configuration.
type app struct {
	cfg    *config.Config
	logger *utils.Logger

	store       profileBackend
	authority   *auth.Authority
	generator   *services.Generator
	cleaner     *services.Cleaner
	profiles    *services.ProfileService
	datasets    *services.DatasetCache
	recommender *services.RecommendationService
	digest      *services.DigestService
}

func newApp(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*app, error) {
	retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 500 * time.Millisecond, Logger: logger}

	var store profileBackend
	if cfg.UsePostgres() {
		pg, err := storage.NewPostgresStore(ctx, cfg.DSN(), cfg.AppID, retry)
		if err != nil {
			return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		store = pg
		logger.Info("[app] Profile store: PostgreSQL %s:%s/%s", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	} else {
		store = storage.NewMemoryStore(cfg.AppID)
		logger.Warn("[app] Profile store: in-memory, profiles are lost on exit")
	}

	a := &app{cfg: cfg, logger: logger, store: store}
	a.authority = auth.NewAuthority(cfg.AppID, cfg.JWTSecret, cfg.TokenTTL)
	a.generator = services.NewGenerator(logger, cfg.GeneratorSeed)
	a.cleaner = services.NewCleaner(logger)
	a.profiles = services.NewProfileService(store, a.cleaner, logger)
	a.datasets = services.NewDatasetCache(a.generator)
	a.recommender = services.NewRecommendationService(logger)
	a.digest = services.NewDigestService(store, a.datasets, services.NewLogMailer(logger), retry,
		logger, cfg.MaxConcurrency, cfg.RateLimitMs)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("[app] Closing profile store: %v", err)
	}
}
