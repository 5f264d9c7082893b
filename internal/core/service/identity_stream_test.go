package service

import (
	"sync"
	"testing"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

func TestIdentityStream_ReplaysLatestOnSubscribe(t *testing.T) {
	s := NewIdentityStream(&domain.Identity{Email: "first@example.com"})
	s.Publish(&domain.Identity{Email: "second@example.com"})

	var got []*domain.Identity
	s.Subscribe(func(id *domain.Identity) { got = append(got, id) })

	if len(got) != 1 || got[0].Email != "second@example.com" {
		t.Fatalf("expected replay of latest value, got %+v", got)
	}
}

func TestIdentityStream_DeliversInPublishOrder(t *testing.T) {
	s := NewIdentityStream(nil)

	var a, b []string
	s.Subscribe(func(id *domain.Identity) { a = append(a, id.DisplayName()) })
	s.Subscribe(func(id *domain.Identity) { b = append(b, id.DisplayName()) })

	s.Publish(&domain.Identity{Email: "one@example.com"})
	s.Publish(nil)
	s.Publish(&domain.Identity{Email: "two@example.com"})

	want := []string{"", "one@example.com", "", "two@example.com"}
	for i := range want {
		if a[i] != want[i] || b[i] != want[i] {
			t.Fatalf("delivery %d: a=%q b=%q want %q", i, a[i], b[i], want[i])
		}
	}
}

func TestIdentityStream_Unsubscribe(t *testing.T) {
	s := NewIdentityStream(nil)
	calls := 0
	unsubscribe := s.Subscribe(func(*domain.Identity) { calls++ })
	unsubscribe()
	unsubscribe()

	s.Publish(&domain.Identity{Email: "x@example.com"})
	if calls != 1 {
		t.Fatalf("expected only the replay call, got %d", calls)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", s.Len())
	}
}

func TestIdentityStream_SubscribersCannotMutatePublishedValue(t *testing.T) {
	s := NewIdentityStream(nil)
	s.Subscribe(func(id *domain.Identity) {
		if id != nil {
			id.Email = "tampered@example.com"
		}
	})
	s.Publish(&domain.Identity{Email: "real@example.com"})

	if got := s.Value().Email; got != "real@example.com" {
		t.Fatalf("published value was mutated: %q", got)
	}
}

func TestIdentityStream_ConcurrentPublishKeepsPerSubscriberOrder(t *testing.T) {
	s := NewIdentityStream(nil)
	var mu sync.Mutex
	var seenA, seenB []string
	s.Subscribe(func(id *domain.Identity) { mu.Lock(); seenA = append(seenA, id.DisplayName()); mu.Unlock() })
	s.Subscribe(func(id *domain.Identity) { mu.Lock(); seenB = append(seenB, id.DisplayName()); mu.Unlock() })

	var wg sync.WaitGroup
	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io"} {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			s.Publish(&domain.Identity{Email: email})
		}(email)
	}
	wg.Wait()

	if len(seenA) != 5 || len(seenB) != 5 {
		t.Fatalf("expected 5 deliveries each, got %d and %d", len(seenA), len(seenB))
	}
	for i := range seenA {
		if seenA[i] != seenB[i] {
			t.Fatalf("subscribers observed different orders: %v vs %v", seenA, seenB)
		}
	}
}
