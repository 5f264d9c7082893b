package ports

import (
	"context"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

// AuthBackend is the remote authentication API.
type AuthBackend interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Acknowledgement, error)
}

// EventCatalog lists events published by the remote API.
type EventCatalog interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
}
