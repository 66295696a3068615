// Package auth holds the process-wide authentication state: the bearer token
// and the logged-in user. Components receive a *Context and read through it
// explicitly instead of consulting ambient globals, which keeps them testable
// with a context of their own.
package auth

import (
	"sync"

	"github.com/prana/studio/internal/model"
)

// Context is the app-lifetime authentication state. Network commands run in
// their own goroutines under Bubble Tea, so access is guarded by a mutex.
type Context struct {
	mu    sync.RWMutex
	token string
	user  model.User
}

// NewContext returns an empty, logged-out context.
func NewContext() *Context {
	return &Context{}
}

// Seed populates the context from persisted credentials, e.g. at startup.
func (c *Context) Seed(token string, user *model.User) {
	if token == "" || user == nil {
		return
	}
	c.Set(token, *user)
}

// Set records a successful login.
func (c *Context) Set(token string, user model.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.user = user
}

// Clear forgets the current credentials (logout).
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.user = model.User{}
}

// Token returns the current bearer token, or "" when logged out.
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// User returns the logged-in user. ok is false when logged out.
func (c *Context) User() (user model.User, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user, c.token != ""
}

// LoggedIn reports whether a token is present.
func (c *Context) LoggedIn() bool {
	return c.Token() != ""
}

// Role returns the logged-in user's role, or RoleUser when logged out so
// capability checks fail closed.
func (c *Context) Role() model.Role {
	user, ok := c.User()
	if !ok {
		return model.RoleUser
	}
	return user.Role
}
