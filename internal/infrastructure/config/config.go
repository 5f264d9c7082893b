package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

type Config struct {
	Addr       string        `env:"ADDR,        default=127.0.0.1:4200"`
	Env        string        `env:"ENV,         default=development"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	APIBaseURL string        `env:"API_BASE_URL, default=http://localhost:8080/api"`
	APITimeout time.Duration `env:"API_TIMEOUT, default=15s"`

	// DashboardRoles restricts /dashboard to these roles; empty allows any
	// authenticated identity.
	DashboardRoles []string `env:"DASHBOARD_ROLES"`

	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=file"`
	// Path of the file driver's document; defaults to <user config dir>/eventbook/storage.json.
	Path string `env:"STORAGE_PATH"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=eventbook"`
	Collection string `env:"MONGO_COLLECTION, default=local_storage"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=eventbook:"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case DriverFile, DriverMemory, DriverRedis, DriverMongo:
	default:
		return nil, fmt.Errorf("config: STORAGE_DRIVER %q: %w", cfg.Storage.Driver, domain.ErrUnknownStorageDriver)
	}

	if cfg.Storage.Driver == DriverFile && cfg.Storage.Path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config: STORAGE_PATH not set and no user config dir: %w", err)
		}
		cfg.Storage.Path = filepath.Join(dir, "eventbook", "storage.json")
	}

	if _, err := cfg.RequiredDashboardRoles(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequiredDashboardRoles parses DASHBOARD_ROLES.
func (c *Config) RequiredDashboardRoles() ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(c.DashboardRoles))
	for _, raw := range c.DashboardRoles {
		r := domain.Role(strings.ToUpper(strings.TrimSpace(raw)))
		if r == "" {
			continue
		}
		if !r.Valid() {
			return nil, fmt.Errorf("config: DASHBOARD_ROLES: unknown role %q", raw)
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}
