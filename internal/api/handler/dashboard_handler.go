package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/phxevent/eventbook-console/internal/api/views"
	"github.com/phxevent/eventbook-console/internal/core/domain"
	"github.com/phxevent/eventbook-console/internal/core/ports"
)

const eventsUnavailableNotice = "Events are unavailable right now. Please try again later."

type DashboardHandler struct {
	chrome *Chrome
	events ports.EventCatalog
	log    zerolog.Logger
}

func NewDashboardHandler(chrome *Chrome, events ports.EventCatalog, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{chrome: chrome, events: events, log: log}
}

// Show renders the dashboard. A failed event fetch is shown as a notice.
//
// @Summary      Dashboard
// @Tags         dashboard
// @Produce      html
// @Success      200  {string}  string  "HTML page"
// @Failure      302  {string}  string  "Redirect to /auth/login or /unauthorized"
// @Router       /dashboard [get]
func (h *DashboardHandler) Show(c echo.Context) error {
	page := h.chrome.Page("Dashboard")
	if identity := ctxIdentity(c); identity != nil {
		page.Nav = views.NavFor(identity)
	}

	events, err := h.events.ListEvents(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to load events")
		page.EventsError = eventsUnavailableNotice
	} else {
		page.Events = approved(events)
	}
	return c.Render(http.StatusOK, views.PageDashboard, page)
}

// approved keeps events with status APPROVED, or no status at all.
func approved(events []domain.Event) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.Status == "" || e.Status == domain.EventApproved {
			out = append(out, e)
		}
	}
	return out
}

// Unauthorized renders the page the guard sends users with the wrong role to.
//
// @Summary      Unauthorized
// @Tags         dashboard
// @Produce      html
// @Success      403  {string}  string  "HTML page"
// @Router       /unauthorized [get]
func (h *DashboardHandler) Unauthorized(c echo.Context) error {
	return c.Render(http.StatusForbidden, views.PageUnauthorized, h.chrome.Page("Unauthorized"))
}
