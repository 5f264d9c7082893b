package api

import (
	"github.com/phxevent/eventbook-console/internal/api/middleware"
	"github.com/phxevent/eventbook-console/internal/api/views"
	"github.com/phxevent/eventbook-console/internal/core/domain"
)

// FallbackPath matches every path no other route claims.
const FallbackPath = "*"

// Route is one entry of the navigation table. A route either renders View or
// redirects to RedirectTo. Protected routes pass the guard first; an empty
// RequiredRoles admits any authenticated user.
type Route struct {
	Path          string
	View          string
	RedirectTo    string
	Protected     bool
	RequiredRoles []domain.Role
}

// Routes returns the console's navigation table in match order.
func Routes(dashboardRoles []domain.Role) []Route {
	return []Route{
		{Path: "/", RedirectTo: middleware.LoginPath},
		{Path: "/auth/login", View: views.PageLogin},
		{Path: "/auth/register", View: views.PageRegister},
		{Path: "/dashboard", View: views.PageDashboard, Protected: true, RequiredRoles: dashboardRoles},
		{Path: middleware.UnauthorizedPath, View: views.PageUnauthorized},
		{Path: FallbackPath, RedirectTo: middleware.LoginPath},
	}
}
