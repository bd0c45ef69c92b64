package middleware

import (
	"motor_rental/internal/session"

	"github.com/gin-gonic/gin"
)

const MsgSessionExpired = "Sesi Anda telah berakhir. Silakan login kembali."

// SessionMiddleware loads the session cookie for every request. An expired
// session is cleared and the request is sent back to the login page.
func SessionMiddleware(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.Load(c.Request)
		session.Set(c, s)

		if s.Expired(m.Now(), m.Lifetime()) {
			s.Clear()
			s.AddFlash(session.FlashWarning, MsgSessionExpired)
			m.Redirect(c, "/login")
			c.Abort()
			return
		}

		c.Next()
	}
}
