// Package signin gates actions that need an authenticated user. A gated
// action is parked while the sign-in surface is open and runs once after a
// successful sign-in.
package signin

import (
	"strings"
	"sync"
)

// Presentation is what the sign-in surface shows.
type Presentation struct {
	Title   string
	Message string
	Context string
}

var defaultPresentation = Presentation{
	Title:   "Sign In",
	Message: "Please sign in to continue.",
}

// Presenter opens and closes the sign-in surface.
type Presenter interface {
	Open(p Presentation)
	Close()
}

// Coordinator parks one action behind the sign-in surface and releases it
// after a successful sign-in.
type Coordinator struct {
	presenter       Presenter
	isAuthenticated func() bool

	mu      sync.Mutex
	pending func()
	pres    Presentation
	open    bool
}

// NewCoordinator returns a coordinator that opens presenter and asks
// isAuthenticated whether gating is needed.
func NewCoordinator(presenter Presenter, isAuthenticated func() bool) *Coordinator {
	return &Coordinator{presenter: presenter, isAuthenticated: isAuthenticated}
}

// Trigger parks action (which may be nil) and opens the sign-in surface.
// A newer trigger replaces any unconsumed one.
func (c *Coordinator) Trigger(action func(), p Presentation) {
	if p.Title == "" {
		p.Title = defaultPresentation.Title
	}
	if p.Message == "" {
		p.Message = defaultPresentation.Message
	}

	c.mu.Lock()
	c.pending = action
	c.pres = p
	c.open = true
	c.mu.Unlock()

	if c.presenter != nil {
		c.presenter.Open(p)
	}
}

// Success closes the surface and runs the parked action exactly once.
func (c *Coordinator) Success() {
	c.mu.Lock()
	action := c.pending
	wasOpen := c.open
	c.pending = nil
	c.pres = Presentation{}
	c.open = false
	c.mu.Unlock()

	if wasOpen && c.presenter != nil {
		c.presenter.Close()
	}
	if action != nil {
		action()
	}
}

// Close discards the parked action without running it.
func (c *Coordinator) Close() {
	c.mu.Lock()
	wasOpen := c.open
	c.pending = nil
	c.pres = Presentation{}
	c.open = false
	c.mu.Unlock()

	if wasOpen && c.presenter != nil {
		c.presenter.Close()
	}
}

// Pending reports the presentation of the open surface, if any.
func (c *Coordinator) Pending() (Presentation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pres, c.open
}

// RequireAuth runs action now when a user is signed in, otherwise parks it
// behind a sign-in prompt worded for name ("vote", "upload", ...). It reports
// whether the action ran immediately.
func (c *Coordinator) RequireAuth(name string, action func()) bool {
	if c.isAuthenticated != nil && c.isAuthenticated() {
		action()
		return true
	}
	c.Trigger(action, Presentation{
		Title:   "Sign In to " + capitalize(name),
		Message: "Please sign in to " + name + " this content.",
		Context: name,
	})
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
