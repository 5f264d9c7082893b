package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewStore_DefaultPrefix(t *testing.T) {
	s := NewStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "")
	t.Cleanup(func() { _ = s.Close() })

	if got := s.key("token"); got != "eventbook:token" {
		t.Fatalf("unexpected key: %s", got)
	}

	custom := NewStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "console:")
	t.Cleanup(func() { _ = custom.Close() })
	if got := custom.key("currentUser"); got != "console:currentUser" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewStore(client, "")
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "token"); err == nil || ok {
		t.Fatalf("expected connection error, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "token", "x"); err == nil {
		t.Fatalf("expected connection error")
	}
	if err := s.Remove(ctx, "token"); err == nil {
		t.Fatalf("expected connection error")
	}
	if err := s.Ping(ctx); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestOpen_Unreachable(t *testing.T) {
	s, err := Open(context.Background(), Config{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	if err == nil || s != nil {
		t.Fatalf("expected ping error, got store=%v err=%v", s, err)
	}
}
