package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

type staticIdentity struct{ identity *domain.Identity }

func (s staticIdentity) Reconcile(context.Context) bool { return false }

func (s staticIdentity) CurrentIdentity() *domain.Identity { return s.identity }

// syncingIdentity picks up its identity only when reconciled.
type syncingIdentity struct {
	stored     *domain.Identity
	published  *domain.Identity
	reconciled int
}

func (s *syncingIdentity) Reconcile(context.Context) bool {
	s.reconciled++
	changed := s.published != s.stored
	s.published = s.stored
	return changed
}

func (s *syncingIdentity) CurrentIdentity() *domain.Identity { return s.published }

func TestIdentityMiddleware_SetsIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Identity(staticIdentity{identity: &domain.Identity{Email: "alice@example.com", Role: domain.RoleAdmin}})
	handler := mw(func(c echo.Context) error {
		called = true
		identity, ok := c.Get(IdentityKey).(*domain.Identity)
		if !ok || identity.Email != "alice@example.com" {
			t.Fatalf("identity not set: %v", c.Get(IdentityKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestIdentityMiddleware_Anonymous(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Identity(staticIdentity{})(func(c echo.Context) error {
		if c.Get(IdentityKey) != nil {
			t.Fatalf("identity must not be set for anonymous requests")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestIdentityMiddleware_ReconcilesBeforeReading(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	src := &syncingIdentity{stored: &domain.Identity{Email: "cli@example.com", Role: domain.RoleVendor}}
	handler := Identity(src)(func(c echo.Context) error {
		identity, ok := c.Get(IdentityKey).(*domain.Identity)
		if !ok || identity.Email != "cli@example.com" {
			t.Fatalf("expected the reconciled identity, got %v", c.Get(IdentityKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if src.reconciled != 1 {
		t.Fatalf("expected one reconcile, got %d", src.reconciled)
	}
}
