package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phxevent/eventbook-console/internal/api/middleware"
	"github.com/phxevent/eventbook-console/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Identity middleware, or nil.
func ctxIdentity(c echo.Context) *domain.Identity {
	identity, _ := c.Get(middleware.IdentityKey).(*domain.Identity)
	return identity
}

// failureStatus picks the status a re-rendered form is sent with after the
// backend refused or failed a request.
func failureStatus(err error) int {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}
