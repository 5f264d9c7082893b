package ports

import (
	"context"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

// SessionService is the public contract of the session store consumed by
// forms, the route guard and the navigation chrome.
type SessionService interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Acknowledgement, error)
	Logout(ctx context.Context)

	CurrentIdentity() *domain.Identity
	// Subscribe delivers the current identity immediately, then every change.
	Subscribe(fn func(*domain.Identity)) (unsubscribe func())

	Token(ctx context.Context) (string, bool)
	IsAuthenticated(ctx context.Context) bool
	HasRole(roles ...domain.Role) bool
	// Reconcile picks up changes other processes made to the shared storage.
	Reconcile(ctx context.Context) bool
	ExpireStale(ctx context.Context) bool
}
