// Package db opens the durable storage driver selected by configuration.
package db

import (
	"context"
	"fmt"

	"github.com/phxevent/eventbook-console/internal/core/domain"
	"github.com/phxevent/eventbook-console/internal/core/ports"
	"github.com/phxevent/eventbook-console/internal/infrastructure/config"
	"github.com/phxevent/eventbook-console/internal/infrastructure/db/file"
	"github.com/phxevent/eventbook-console/internal/infrastructure/db/memory"
	"github.com/phxevent/eventbook-console/internal/infrastructure/db/mongo"
	"github.com/phxevent/eventbook-console/internal/infrastructure/db/redis"
)

// Open returns the Storage for cfg.Storage.Driver and a func releasing its
// connections.
func Open(ctx context.Context, cfg *config.Config) (ports.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case config.DriverFile:
		s, err := file.NewStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case config.DriverMemory:
		return memory.NewStore(), noop, nil

	case config.DriverRedis:
		s, err := redis.Open(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Prefix: cfg.Redis.Prefix})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.DriverMongo:
		s, err := mongo.Open(ctx, mongo.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
			AppName:    "eventbook",
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}

	return nil, nil, fmt.Errorf("open storage %q: %w", cfg.Storage.Driver, domain.ErrUnknownStorageDriver)
}
