package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/phxevent/eventbook-console/internal/core/domain"
	"github.com/phxevent/eventbook-console/internal/core/ports"
)

// Option customises an AuthService at construction time.
type Option func(*AuthService)

// WithClock overrides the clock used by the token expiry check.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// AuthService is the session store: the single authority for who is logged
// in. Construct it once at startup and pass it to every consumer; it is only
// reset through Logout.
type AuthService struct {
	backend ports.AuthBackend
	storage ports.Storage
	stream  *IdentityStream
	log     zerolog.Logger
	now     func() time.Time

	// mu serializes Login persistence and Logout so the stored pair and the
	// published identity always change together.
	mu sync.Mutex
}

// NewAuthService restores the persisted session from storage, the way a page
// reload would, and returns the ready store.
func NewAuthService(ctx context.Context, backend ports.AuthBackend, storage ports.Storage, log zerolog.Logger, opts ...Option) (*AuthService, error) {
	s := &AuthService{
		backend: backend,
		storage: storage,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	identity, err := s.restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if identity != nil {
		s.log.Debug().Str("email", identity.Email).Str("role", string(identity.Role)).Msg("session restored")
	}
	s.stream = NewIdentityStream(identity)
	return s, nil
}

func (s *AuthService) restore(ctx context.Context) (*domain.Identity, error) {
	rawUser, hasUser, err := s.storage.Get(ctx, ports.KeyCurrentUser)
	if err != nil {
		return nil, err
	}
	token, hasToken, err := s.storage.Get(ctx, ports.KeyToken)
	if err != nil {
		return nil, err
	}
	hasToken = hasToken && token != ""

	var identity *domain.Identity
	if hasUser && rawUser != "" {
		if err := json.Unmarshal([]byte(rawUser), &identity); err != nil {
			s.log.Warn().Err(err).Msg("discarding unreadable persisted identity")
			s.clear(ctx)
			return nil, nil
		}
	}

	if (identity != nil) != hasToken {
		s.log.Warn().
			Bool("has_identity", identity != nil).
			Bool("has_token", hasToken).
			Msg("discarding half-persisted session")
		s.clear(ctx)
		return nil, nil
	}
	return identity, nil
}

// Login sends the credentials to the backend. On success the token and the
// derived identity are persisted, the identity is published once, and the
// full backend response is returned. On failure nothing changes.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	resp, err := s.backend.Login(ctx, req)
	if err != nil {
		s.log.Info().Err(err).Str("email", req.Email).Msg("login rejected")
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login: response carries no token: %w", domain.ErrBackendUnavailable)
	}

	identity := resp.Identity()
	rawUser, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("login: encode identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevToken, hadToken, err := s.storage.Get(ctx, ports.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("login: read token: %w", err)
	}
	if err := s.storage.Set(ctx, ports.KeyToken, resp.Token); err != nil {
		return nil, fmt.Errorf("login: persist token: %w", err)
	}
	if err := s.storage.Set(ctx, ports.KeyCurrentUser, string(rawUser)); err != nil {
		s.rollbackToken(ctx, prevToken, hadToken)
		return nil, fmt.Errorf("login: persist identity: %w", err)
	}

	s.stream.Publish(identity)
	s.log.Info().Str("email", identity.Email).Str("role", string(identity.Role)).Msg("logged in")
	return resp, nil
}

func (s *AuthService) rollbackToken(ctx context.Context, prev string, had bool) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if had {
		err = s.storage.Set(ctx, ports.KeyToken, prev)
	} else {
		err = s.storage.Remove(ctx, ports.KeyToken)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to roll back token after login failure")
	}
}

// Register forwards the registration to the backend. It never touches the
// local session.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Acknowledgement, error) {
	ack, err := s.backend.Register(ctx, req)
	if err != nil {
		s.log.Info().Err(err).Str("email", req.Email).Msg("registration rejected")
		return nil, fmt.Errorf("register: %w", err)
	}
	s.log.Info().Str("email", req.Email).Str("role", string(req.Role)).Msg("registered")
	return ack, nil
}

// Logout clears the persisted token and identity and publishes nil.
// It always succeeds; storage failures are logged.
func (s *AuthService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear(ctx)
	s.stream.Publish(nil)
	s.log.Info().Msg("logged out")
}

func (s *AuthService) clear(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range []string{ports.KeyToken, ports.KeyCurrentUser} {
		if err := s.storage.Remove(ctx, key); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("failed to clear session key")
		}
	}
}

// CurrentIdentity returns a snapshot of the latest published identity, or nil.
func (s *AuthService) CurrentIdentity() *domain.Identity {
	return s.stream.Value()
}

// Subscribe registers fn for identity changes; fn first receives the current
// value. The returned func unregisters it.
func (s *AuthService) Subscribe(fn func(*domain.Identity)) (unsubscribe func()) {
	return s.stream.Subscribe(fn)
}

// Token returns the persisted bearer token.
func (s *AuthService) Token(ctx context.Context) (string, bool) {
	token, ok, err := s.storage.Get(ctx, ports.KeyToken)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read token")
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// IsAuthenticated reports whether a token is present and not expired.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	token, ok := s.Token(ctx)
	return ok && !tokenExpired(token, s.now())
}

// HasRole reports whether an identity is present and its role is in roles.
func (s *AuthService) HasRole(roles ...domain.Role) bool {
	identity := s.stream.Value()
	if identity == nil {
		return false
	}
	return slices.Contains(roles, identity.Role)
}

// Reconcile re-reads the persisted pair and republishes it when another
// process sharing the storage has changed it. A half-persisted pair is
// cleared. It reports whether the published identity changed.
func (s *AuthService) Reconcile(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.restore(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to re-read session")
		return false
	}
	if sameIdentity(s.stream.Value(), stored) {
		return false
	}

	s.stream.Publish(stored)
	if stored == nil {
		s.log.Info().Msg("session cleared in storage")
	} else {
		s.log.Info().Str("email", stored.Email).Str("role", string(stored.Role)).Msg("session changed in storage")
	}
	return true
}

// ExpireStale reconciles with storage, then logs the session out when its
// token has expired or vanished while an identity is still published. It
// reports whether a logout happened.
func (s *AuthService) ExpireStale(ctx context.Context) bool {
	s.Reconcile(ctx)

	token, ok := s.Token(ctx)
	switch {
	case ok && tokenExpired(token, s.now()):
		s.log.Info().Msg("session token expired")
	case !ok && s.stream.Value() != nil:
		s.log.Info().Msg("session token missing")
	default:
		return false
	}
	s.Logout(ctx)
	return true
}

// sameIdentity compares identities by their persisted encoding.
func sameIdentity(a, b *domain.Identity) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ra, rb)
}
