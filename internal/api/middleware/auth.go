package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

// IdentityKey is the echo context key Identity stores the signed-in user under.
const IdentityKey = "identity"

// IdentitySource returns the currently published identity, or nil.
// Reconcile brings it in line with the shared storage first.
type IdentitySource interface {
	Reconcile(ctx context.Context) bool
	CurrentIdentity() *domain.Identity
}

// Identity reconciles the session with storage and injects the current
// identity into the echo context so the guard and views agree on who is
// signed in. It never rejects a request.
func Identity(src IdentitySource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			src.Reconcile(c.Request().Context())
			if identity := src.CurrentIdentity(); identity != nil {
				c.Set(IdentityKey, identity)
			}
			return next(c)
		}
	}
}
