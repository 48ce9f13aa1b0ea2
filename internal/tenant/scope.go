// Package tenant holds the per-request identity and group scope.
//
// A Scope is created once per inbound request by Begin and cleared by End.
// It travels with the request's context.Context, so concurrent requests never
// share state. After End, every accessor returns nil, including for goroutines
// that kept a reference to the request context.
package tenant

import (
	"context"
	"sync"

	"github.com/mmynk/wealthwise/internal/models"
)

type contextKey struct{}

// Scope is the resolved (user, group) pair of one in-flight request.
type Scope struct {
	mu    sync.RWMutex
	user  *models.User
	group *models.Group
	ended bool
}

// Begin attaches a new scope to ctx.
//
// A nil user yields an anonymous scope. The group is attached only when it is
// the user's own group; a user without a group gets a scope with no group.
func Begin(ctx context.Context, user *models.User, group *models.Group) (context.Context, *Scope) {
	s := &Scope{}
	if user != nil {
		u := *user
		s.user = &u
		if group != nil && user.GroupID != "" && group.ID == user.GroupID {
			g := *group
			s.group = &g
		}
	}
	return context.WithValue(ctx, contextKey{}, s), s
}

// End clears the scope. It is safe to call more than once.
func (s *Scope) End() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.user = nil
	s.group = nil
	s.ended = true
	s.mu.Unlock()
}

// Ended reports whether End has been called.
func (s *Scope) Ended() bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ended
}

// User returns a copy of the scope's user, or nil.
func (s *Scope) User() *models.User {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Group returns a copy of the scope's group, or nil.
func (s *Scope) Group() *models.Group {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.group == nil {
		return nil
	}
	g := *s.group
	return &g
}

// FromContext returns the scope attached to ctx, or nil.
func FromContext(ctx context.Context) *Scope {
	s, _ := ctx.Value(contextKey{}).(*Scope)
	return s
}

// CurrentUser returns the authenticated user of the request, or nil.
func CurrentUser(ctx context.Context) *models.User {
	return FromContext(ctx).User()
}

// CurrentGroup returns the group of the request, or nil.
func CurrentGroup(ctx context.Context) *models.Group {
	return FromContext(ctx).Group()
}

// UserID returns the authenticated user's ID, or an empty string.
// Used for log attributes.
func UserID(ctx context.Context) string {
	if u := CurrentUser(ctx); u != nil {
		return u.ID
	}
	return ""
}
