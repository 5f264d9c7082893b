package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phxevent/eventbook-console/internal/api/metrics"
	"github.com/phxevent/eventbook-console/internal/api/views"
	"github.com/phxevent/eventbook-console/internal/core/domain"
	"github.com/phxevent/eventbook-console/internal/core/ports"
)

const (
	loginFailedMessage    = "Login failed. Please try again."
	registerFailedMessage = "Registration failed. Please try again."
	registeredNotice      = "Registration successful! Please log in."
	sessionExpiredNotice  = "Your session has expired. Please log in again."

	dashboardPath  = "/dashboard"
	loginPath      = "/auth/login"
	registeredPath = "/auth/login?notice=registered"
)

type AuthHandler struct {
	session ports.SessionService
	chrome  *Chrome
}

func NewAuthHandler(session ports.SessionService, chrome *Chrome) *AuthHandler {
	return &AuthHandler{session: session, chrome: chrome}
}

// LoginPage renders the login form.
//
// @Summary      Login form
// @Tags         auth
// @Produce      html
// @Param        notice  query     string  false  "registered shows the post-registration notice"
// @Success      200     {string}  string  "HTML page"
// @Router       /auth/login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	expired := h.session.ExpireStale(c.Request().Context())

	page := h.chrome.Page("Login")
	page.Form = loginForm{}
	switch {
	case c.QueryParam("notice") == "registered":
		page.Notice = registeredNotice
	case expired:
		page.Notice = sessionExpiredNotice
	}
	return c.Render(http.StatusOK, views.PageLogin, page)
}

// Login signs the user in and redirects to the dashboard.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        email     formData  string  true  "Email"
// @Param        password  formData  string  true  "Password (min 6)"
// @Success      303       {string}  string  "Redirect to /dashboard"
// @Failure      401       {string}  string  "Form re-rendered with the server message"
// @Failure      422       {string}  string  "Form re-rendered with field errors"
// @Failure      502       {string}  string  "Backend unreachable"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := c.Validate(&form); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		page := h.chrome.Page("Login")
		page.Form = form.redisplay()
		page.FieldErrors = asFieldErrors(err)
		return c.Render(http.StatusUnprocessableEntity, views.PageLogin, page)
	}

	if _, err := h.session.Login(c.Request().Context(), form.toRequest()); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		page := h.chrome.Page("Login")
		page.Form = form.redisplay()
		page.Error = domain.UserMessage(err, loginFailedMessage)
		return c.Render(failureStatus(err), views.PageLogin, page)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, dashboardPath)
}

// RegisterPage renders the registration form.
//
// @Summary      Registration form
// @Tags         auth
// @Produce      html
// @Success      200  {string}  string  "HTML page"
// @Router       /auth/register [get]
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	page := h.chrome.Page("Register")
	page.Form = registerForm{}
	return c.Render(http.StatusOK, views.PageRegister, page)
}

// Register creates an account on the backend and sends the user to login.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        email        formData  string  true   "Email"
// @Param        password     formData  string  true   "Password (min 6)"
// @Param        firstName    formData  string  true   "First name"
// @Param        lastName     formData  string  true   "Last name"
// @Param        role         formData  string  true   "VENDOR, ADMIN or PUBLIC_USER"
// @Param        phoneNumber  formData  string  false  "Phone number"
// @Param        location     formData  string  false  "Location"
// @Success      303          {string}  string  "Redirect to /auth/login?notice=registered"
// @Failure      400          {string}  string  "Form re-rendered with the server message"
// @Failure      422          {string}  string  "Form re-rendered with field errors"
// @Failure      502          {string}  string  "Backend unreachable"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := c.Validate(&form); err != nil {
		metrics.RegisterAttemptsTotal.WithLabelValues("invalid").Inc()
		page := h.chrome.Page("Register")
		page.Form = form.redisplay()
		page.FieldErrors = asFieldErrors(err)
		return c.Render(http.StatusUnprocessableEntity, views.PageRegister, page)
	}

	if _, err := h.session.Register(c.Request().Context(), form.toRequest()); err != nil {
		metrics.RegisterAttemptsTotal.WithLabelValues("rejected").Inc()
		page := h.chrome.Page("Register")
		page.Form = form.redisplay()
		page.Error = domain.UserMessage(err, registerFailedMessage)
		return c.Render(failureStatus(err), views.PageRegister, page)
	}

	metrics.RegisterAttemptsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, registeredPath)
}

// Logout clears the session.
//
// @Summary      Logout
// @Tags         auth
// @Success      303  {string}  string  "Redirect to /auth/login"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, loginPath)
}

func asFieldErrors(err error) FieldErrors {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return FieldErrors{"form": err.Error()}
}
