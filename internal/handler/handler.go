package handler

import (
	"net/http"
	"strconv"

	"motor_rental/internal/logger"
	"motor_rental/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/justinas/nosurf"
)

// base carries the helpers shared by every page handler
type base struct {
	sessions *session.Manager
}

// render commits the session and writes an HTML page. Pending flashes,
// the principal and the CSRF token are added to data.
func (b base) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	s := session.FromContext(c)
	data["Flashes"] = s.PopFlashes()
	data["Principal"] = s.Principal
	data["CSRFToken"] = nosurf.Token(c.Request)

	if err := b.sessions.Commit(c); err != nil {
		logger.FromContext(c.Request.Context()).Err(err).Msg("failed to save session")
	}
	c.HTML(status, name, data)
}

func (b base) redirect(c *gin.Context, location string) {
	b.sessions.Redirect(c, location)
}

func (b base) flash(c *gin.Context, category, message string) {
	session.FromContext(c).AddFlash(category, message)
}

// fail flashes the user-facing message for err and returns the status code
// the page should be rendered with.
func (b base) fail(c *gin.Context, err error) int {
	status, msg := describeError(err)
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		logger.FromContext(c.Request.Context()).Err(err).Str("path", c.FullPath()).Msg("request failed")
		_ = c.Error(err)
	}
	b.flash(c, session.FlashDanger, msg)
	return status
}

func principal(c *gin.Context) *session.Principal {
	return session.FromContext(c).Principal
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
