package middleware

import (
	"fmt"
	"strings"

	"motor_rental/internal/model"
	"motor_rental/internal/session"

	"github.com/gin-gonic/gin"
)

const MsgLoginRequired = "Silakan login terlebih dahulu!"

// RequireLogin lets only authenticated sessions through
func RequireLogin(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		if !s.Authenticated() {
			s.AddFlash(session.FlashDanger, MsgLoginRequired)
			m.Redirect(c, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleMiddleware creates a middleware to check for specific user roles.
// Anonymous requests go to the login page, other roles to the dashboard.
func RoleMiddleware(m *session.Manager, allowedRoles ...model.Role) gin.HandlerFunc {
	names := make([]string, len(allowedRoles))
	for i, r := range allowedRoles {
		names[i] = r.String()
	}
	denied := fmt.Sprintf("Akses ditolak! Hanya %s yang dapat mengakses halaman ini.", strings.Join(names, " atau "))

	return func(c *gin.Context) {
		s := session.FromContext(c)
		if !s.Authenticated() {
			s.AddFlash(session.FlashDanger, MsgLoginRequired)
			m.Redirect(c, "/login")
			c.Abort()
			return
		}

		if !s.HasRole(allowedRoles...) {
			s.AddFlash(session.FlashDanger, denied)
			m.Redirect(c, "/dashboard")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware(m *session.Manager) gin.HandlerFunc {
	return RoleMiddleware(m, model.RoleAdmin)
}

// SuperadminMiddleware checks if the user is a superadmin
func SuperadminMiddleware(m *session.Manager) gin.HandlerFunc {
	return RoleMiddleware(m, model.RoleSuperadmin)
}
