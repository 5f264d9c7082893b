// Package views renders the console's HTML pages from embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/phxevent/eventbook-console/internal/core/domain"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by Renderer.Render.
const (
	PageLogin        = "login"
	PageRegister     = "register"
	PageDashboard    = "dashboard"
	PageUnauthorized = "unauthorized"
)

var pages = []string{PageLogin, PageRegister, PageDashboard, PageUnauthorized}

// Nav is the header navigation state.
type Nav struct {
	SignedIn bool
	Name     string
	Email    string
	Role     domain.Role
}

// NavFor derives the navigation state for identity, which may be nil.
func NavFor(identity *domain.Identity) Nav {
	if identity == nil {
		return Nav{}
	}
	return Nav{
		SignedIn: true,
		Name:     identity.DisplayName(),
		Email:    identity.Email,
		Role:     identity.Role,
	}
}

// Page is the data every template receives. Form must be non-nil on the
// login and register pages.
type Page struct {
	Title       string
	Nav         Nav
	Notice      string
	Error       string
	Form        any
	FieldErrors map[string]string
	Roles       []domain.Role
	Events      []domain.Event
	EventsError string
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "TBA"
		}
		return t.Format("Mon, 02 Jan 2006")
	},
	"money": func(v float64) string {
		if v == 0 {
			return "Free"
		}
		return "$" + strconv.FormatFloat(v, 'f', 2, 64)
	},
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page template.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the layout for the named page.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
