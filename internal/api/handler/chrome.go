package handler

import (
	"sync"

	"github.com/phxevent/eventbook-console/internal/api/metrics"
	"github.com/phxevent/eventbook-console/internal/api/views"
	"github.com/phxevent/eventbook-console/internal/core/domain"
	"github.com/phxevent/eventbook-console/internal/core/ports"
)

// Chrome is the header navigation. It follows the session's identity stream
// so every page renders the latest signed-in state.
type Chrome struct {
	mu          sync.RWMutex
	nav         views.Nav
	unsubscribe func()
}

func NewChrome(session ports.SessionService) *Chrome {
	c := &Chrome{}
	c.unsubscribe = session.Subscribe(c.update)
	return c
}

func (c *Chrome) update(identity *domain.Identity) {
	c.mu.Lock()
	c.nav = views.NavFor(identity)
	c.mu.Unlock()
	metrics.SetAuthenticated(identity != nil)
}

// Nav returns the latest navigation state.
func (c *Chrome) Nav() views.Nav {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nav
}

// Page starts a page with the current navigation state.
func (c *Chrome) Page(title string) views.Page {
	return views.Page{Title: title, Nav: c.Nav(), Roles: domain.Roles}
}

// Close stops following the identity stream.
func (c *Chrome) Close() {
	c.unsubscribe()
}
