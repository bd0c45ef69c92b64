package session

import (
	"errors"
	"net/http"
	"time"

	"motor_rental/internal/model"
	"motor_rental/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const contextKey = "session"

// Options configures the session cookie.
type Options struct {
	CookieName string
	Secure     bool
	HTTPOnly   bool
	SameSite   http.SameSite
	Lifetime   time.Duration
}

// Manager loads and stores sessions as HS256-signed cookies.
type Manager struct {
	codec *utils.JWTUtil
	opts  Options
	now   func() time.Time
}

// NewManager creates a Manager. codec must be built with the same lifetime
// as opts.
func NewManager(codec *utils.JWTUtil, opts Options) *Manager {
	return &Manager{codec: codec, opts: opts, now: time.Now}
}

// WithClock replaces the time source, used by tests. The codec keeps its own
// clock.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.now()
}

// Lifetime returns the maximum age of an authenticated session.
func (m *Manager) Lifetime() time.Duration {
	return m.opts.Lifetime
}

// Load decodes the session cookie of r. A missing or tampered cookie yields
// an empty session; an expired one yields a stale session.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return New()
	}

	claims, err := m.codec.ValidateToken(cookie.Value)
	if err != nil {
		s := New()
		s.fromCookie = true
		s.stale = errors.Is(err, jwt.ErrTokenExpired)
		return s
	}
	return fromClaims(claims)
}

// Save writes s to w when it changed. An empty session deletes the cookie.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if !s.modified {
		return nil
	}
	if s.empty() {
		if s.fromCookie {
			http.SetCookie(w, m.cookie("", -1))
		}
		s.modified = false
		return nil
	}

	token, err := m.codec.GenerateToken(toClaims(s))
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(token, int(m.opts.Lifetime.Seconds())))
	s.modified = false
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.opts.Secure,
		HttpOnly: m.opts.HTTPOnly,
		SameSite: m.opts.SameSite,
	}
}

// Commit saves the session attached to c, if any.
func (m *Manager) Commit(c *gin.Context) error {
	s, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	return m.Save(c.Writer, s.(*Session))
}

// Redirect commits the session and sends a 302 to location.
func (m *Manager) Redirect(c *gin.Context, location string) {
	if err := m.Commit(c); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusFound, location)
}

// Set attaches s to the request context.
func Set(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}

// FromContext returns the session attached by the session middleware, or
// an empty one.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := New()
	Set(c, s)
	return s
}

func toClaims(s *Session) *utils.SessionClaims {
	claims := &utils.SessionClaims{}
	if s.Principal != nil {
		claims.UserID = s.Principal.UserID
		claims.Username = s.Principal.Username
		claims.Role = s.Principal.Role.String()
		claims.LoginAt = jwt.NewNumericDate(s.LoginAt)
	}
	for _, f := range s.flashes {
		claims.Flashes = append(claims.Flashes, utils.FlashClaim{Category: f.Category, Message: f.Message})
	}
	return claims
}

func fromClaims(claims *utils.SessionClaims) *Session {
	s := New()
	s.fromCookie = true
	for _, f := range claims.Flashes {
		s.flashes = append(s.flashes, Flash{Category: f.Category, Message: f.Message})
	}
	if !claims.Authenticated() {
		return s
	}

	role, ok := model.ParseRole(claims.Role)
	if !ok {
		s.stale = true
		return s
	}
	s.Principal = &Principal{UserID: claims.UserID, Username: claims.Username, Role: role}
	if claims.LoginAt != nil {
		s.LoginAt = claims.LoginAt.Time
	}
	return s
}
