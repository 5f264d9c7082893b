package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phxevent/eventbook-console/internal/api/metrics"
	"github.com/phxevent/eventbook-console/internal/core/domain"
)

const (
	LoginPath        = "/auth/login"
	UnauthorizedPath = "/unauthorized"
)

// Session is the part of the session store the guard reads.
type Session interface {
	IsAuthenticated(ctx context.Context) bool
	HasRole(roles ...domain.Role) bool
}

// Decision is the outcome of CanActivate. RedirectTo is set iff Allow is false.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// CanActivate decides whether a navigation to a protected view may proceed.
// An empty requiredRoles admits any authenticated user.
func CanActivate(ctx context.Context, s Session, requiredRoles []domain.Role) Decision {
	if !s.IsAuthenticated(ctx) {
		return Decision{RedirectTo: LoginPath}
	}
	if len(requiredRoles) > 0 && !s.HasRole(requiredRoles...) {
		return Decision{RedirectTo: UnauthorizedPath}
	}
	return Decision{Allow: true}
}

// Guard applies CanActivate to every request, answering 302 on deny.
func Guard(s Session, requiredRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := CanActivate(c.Request().Context(), s, requiredRoles)
			switch {
			case d.Allow:
				metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
				return next(c)
			case d.RedirectTo == UnauthorizedPath:
				metrics.GuardDecisionsTotal.WithLabelValues("unauthorized").Inc()
			default:
				metrics.GuardDecisionsTotal.WithLabelValues("login").Inc()
			}
			return c.Redirect(http.StatusFound, d.RedirectTo)
		}
	}
}
