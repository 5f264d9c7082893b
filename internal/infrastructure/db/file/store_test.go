package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, ok, err := s.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "token", "abc.def.ghi"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, err := s.Get(ctx, "token"); err != nil || !ok || v != "abc.def.ghi" {
		t.Fatalf("Get: v=%q ok=%v err=%v", v, ok, err)
	}
	if err := s.Remove(ctx, "token"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "token"); err != nil {
		t.Fatalf("Remove of missing key: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "token"); ok {
		t.Fatalf("key still present after Remove")
	}
}

func TestStore_SharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	a, _ := NewStore(path)
	b, _ := NewStore(path)

	if err := a.Set(ctx, "currentUser", `{"email":"a@example.com"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, err := b.Get(ctx, "currentUser"); err != nil || !ok || v != `{"email":"a@example.com"}` {
		t.Fatalf("second instance did not see write: v=%q ok=%v err=%v", v, ok, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := NewStore(path)
	if _, _, err := s.Get(context.Background(), "token"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStore_Ping(t *testing.T) {
	s, _ := NewStore(filepath.Join(t.TempDir(), "storage.json"))
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if _, err := NewStore(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
