// Package session keeps the per-browser login state and one-shot flash
// messages in a signed cookie.
package session

import (
	"time"

	"motor_rental/internal/model"
)

// Flash categories understood by the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// Principal is the authenticated identity of a session.
type Principal struct {
	UserID   int
	Username string
	Role     model.Role
}

// Session is the decoded cookie state of one request.
type Session struct {
	Principal *Principal
	LoginAt   time.Time

	flashes    []Flash
	stale      bool
	modified   bool
	fromCookie bool
}

// New returns an empty anonymous session.
func New() *Session {
	return &Session{}
}

// Login replaces the session with a fresh one for user.
func (s *Session) Login(user *model.User, now time.Time) {
	s.Principal = &Principal{UserID: user.ID, Username: user.Username, Role: user.Role}
	s.LoginAt = now
	s.stale = false
	s.modified = true
}

// Clear drops the principal and any pending flashes.
func (s *Session) Clear() {
	s.Principal = nil
	s.LoginAt = time.Time{}
	s.flashes = nil
	s.stale = false
	s.modified = true
}

// Authenticated reports whether a principal is present.
func (s *Session) Authenticated() bool {
	return s.Principal != nil
}

// HasRole reports whether the principal holds one of roles.
func (s *Session) HasRole(roles ...model.Role) bool {
	if s.Principal == nil {
		return false
	}
	for _, r := range roles {
		if s.Principal.Role == r {
			return true
		}
	}
	return false
}

// Expired reports whether an authenticated session is past its lifetime.
// A session whose login time is missing or could not be decoded counts as
// expired.
func (s *Session) Expired(now time.Time, lifetime time.Duration) bool {
	if s.stale {
		return true
	}
	if s.Principal == nil {
		return false
	}
	if s.LoginAt.IsZero() {
		return true
	}
	return now.Sub(s.LoginAt) > lifetime
}

// AddFlash queues a message for the next render.
func (s *Session) AddFlash(category, message string) {
	s.flashes = append(s.flashes, Flash{Category: category, Message: message})
	s.modified = true
}

// PopFlashes returns and removes the queued messages.
func (s *Session) PopFlashes() []Flash {
	if len(s.flashes) == 0 {
		return nil
	}
	out := s.flashes
	s.flashes = nil
	s.modified = true
	return out
}

// Modified reports whether the cookie needs to be rewritten.
func (s *Session) Modified() bool {
	return s.modified
}

func (s *Session) empty() bool {
	return s.Principal == nil && len(s.flashes) == 0
}
