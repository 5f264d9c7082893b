package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/phxevent/eventbook-console/docs"
	"github.com/phxevent/eventbook-console/internal/api/handler"
	"github.com/phxevent/eventbook-console/internal/api/middleware"
	"github.com/phxevent/eventbook-console/internal/api/views"
	"github.com/phxevent/eventbook-console/internal/core/domain"
	"github.com/phxevent/eventbook-console/internal/core/ports"
)

// Deps are the collaborators NewRouter wires into handlers.
type Deps struct {
	Session        ports.SessionService
	Events         ports.EventCatalog
	Readiness      map[string]handler.Pinger
	DashboardRoles []domain.Role
	Logger         zerolog.Logger
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
// The returned close func stops the header chrome from following the session.
func NewRouter(deps Deps) (*echo.Echo, func(), error) {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	renderer, err := views.New()
	if err != nil {
		return nil, nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "eventbook",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Identity(deps.Session))

	// --- Dependencies ---
	chrome := handler.NewChrome(deps.Session)
	authHandler := handler.NewAuthHandler(deps.Session, chrome)
	dashboardHandler := handler.NewDashboardHandler(chrome, deps.Events, deps.Logger)

	pages := map[string]echo.HandlerFunc{
		views.PageLogin:        authHandler.LoginPage,
		views.PageRegister:     authHandler.RegisterPage,
		views.PageDashboard:    dashboardHandler.Show,
		views.PageUnauthorized: dashboardHandler.Unauthorized,
	}

	// --- Navigation table ---
	for _, r := range Routes(deps.DashboardRoles) {
		h, err := routeHandler(r, pages)
		if err != nil {
			chrome.Close()
			return nil, nil, err
		}
		var mws []echo.MiddlewareFunc
		if r.Protected {
			mws = append(mws, middleware.Guard(deps.Session, r.RequiredRoles...))
		}
		if r.Path == FallbackPath {
			e.RouteNotFound("/*", h, mws...)
			continue
		}
		e.GET(r.Path, h, mws...)
	}

	// --- Form submissions ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Health probes, metrics and docs (outside the navigation table) ---
	healthHandler := handler.NewHealthHandler(deps.Readiness)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, chrome.Close, nil
}

func routeHandler(r Route, pages map[string]echo.HandlerFunc) (echo.HandlerFunc, error) {
	if r.RedirectTo != "" {
		target := r.RedirectTo
		return func(c echo.Context) error {
			return c.Redirect(http.StatusFound, target)
		}, nil
	}
	h, ok := pages[r.View]
	if !ok {
		return nil, fmt.Errorf("route %s: no handler for view %q", r.Path, r.View)
	}
	return h, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
