package service

import (
	"sync"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

type subscriber struct {
	id uint64
	fn func(*domain.Identity)
}

// IdentityStream is a replay-latest observer list. Subscribers receive the
// current value on Subscribe and then every Publish, in publish order.
// Callbacks run synchronously and must not call Subscribe or Publish.
type IdentityStream struct {
	deliver sync.Mutex // serializes replays and publishes

	mu     sync.RWMutex
	latest *domain.Identity
	subs   []subscriber
	nextID uint64
}

// NewIdentityStream returns a stream whose initial value is initial.
func NewIdentityStream(initial *domain.Identity) *IdentityStream {
	return &IdentityStream{latest: initial.Clone()}
}

// Value returns a copy of the latest published identity.
func (s *IdentityStream) Value() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest.Clone()
}

// Subscribe registers fn and immediately replays the latest value to it.
func (s *IdentityStream) Subscribe(fn func(*domain.Identity)) (unsubscribe func()) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	current := s.latest.Clone()
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

// Publish stores identity as the latest value and notifies every subscriber.
func (s *IdentityStream) Publish(identity *domain.Identity) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.latest = identity.Clone()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(identity.Clone())
	}
}

// Len reports the number of live subscribers.
func (s *IdentityStream) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *IdentityStream) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
