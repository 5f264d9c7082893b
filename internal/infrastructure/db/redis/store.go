package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix      = "eventbook:"
	defaultDialTimeout = 5 * time.Second
)

// Config selects the Redis server and the key namespace for session keys.
type Config struct {
	Addr        string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// Store keeps the session keys in Redis without expiry.
// Key format: <prefix><key>, e.g. eventbook:token
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore wraps client. An empty prefix falls back to "eventbook:".
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Open dials Redis and returns a Store once the server answers a PING.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB, DialTimeout: dial})

	s := NewStore(client, cfg.Prefix)
	pingCtx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open redis storage at %s: %w", cfg.Addr, err)
	}
	return s, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(key string) string {
	return s.prefix + key
}
