package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/phxevent/eventbook-console/internal/api/metrics"
	"github.com/phxevent/eventbook-console/internal/core/ports"
	"github.com/phxevent/eventbook-console/internal/core/service"
	"github.com/phxevent/eventbook-console/internal/infrastructure/backend"
	"github.com/phxevent/eventbook-console/internal/infrastructure/config"
	"github.com/phxevent/eventbook-console/internal/infrastructure/db"
	"github.com/phxevent/eventbook-console/pkg/logger"
)

// app holds the wired dependencies every command works with.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	storage ports.Storage
	client  *backend.Client
	session *service.AuthService

	closeStorage func() error
}

func newApp(ctx context.Context, lookuper envconfig.Lookuper, logLevel string) (*app, error) {
	cfg, err := config.LoadWith(ctx, lookuper)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	log := logger.Init(logger.Options{Level: logLevel, Pretty: cfg.IsDevelopment(), App: appName})

	storage, closeStorage, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a := &app{cfg: cfg, log: log, storage: storage, closeStorage: closeStorage}
	a.client = backend.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger.Component("backend"),
		backend.WithObserver(metrics.ObserveBackend),
		backend.WithTokenSource(func(ctx context.Context) (string, bool) {
			return a.session.Token(ctx)
		}),
	)

	a.session, err = service.NewAuthService(ctx, a.client, storage, logger.Component("session"))
	if err != nil {
		_ = closeStorage()
		return nil, err
	}

	log.Debug().
		Str("storage", cfg.Storage.Driver).
		Str("api", cfg.APIBaseURL).
		Msg("app ready")
	return a, nil
}

func (a *app) Close() {
	if err := a.closeStorage(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close storage")
	}
}
