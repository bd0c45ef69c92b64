package handler

import (
	"fmt"
	"net/http"

	"motor_rental/internal/model"
	"motor_rental/internal/service"
	"motor_rental/internal/session"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, logout, the dashboard and self-service
// password changes
type AuthHandler struct {
	base
	auth  service.AuthService
	users service.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions *session.Manager, auth service.AuthService, users service.UserService) *AuthHandler {
	return &AuthHandler{base: base{sessions: sessions}, auth: auth, users: users}
}

func (h *AuthHandler) Index(c *gin.Context) {
	if session.FromContext(c).Authenticated() {
		h.redirect(c, "/dashboard")
		return
	}
	h.redirect(c, "/login")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if session.FromContext(c).Authenticated() {
		h.redirect(c, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.auth.Login(c.Request.Context(), c.ClientIP(), username, password)
	if err != nil {
		status := h.fail(c, err)
		h.render(c, status, "login.html", gin.H{"Username": username})
		return
	}

	s := session.FromContext(c)
	s.Login(user, h.sessions.Now())
	s.AddFlash(session.FlashSuccess, fmt.Sprintf("Selamat datang, %s!", user.Username))
	h.redirect(c, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	s := session.FromContext(c)
	s.Clear()
	s.AddFlash(session.FlashSuccess, "Anda telah berhasil logout!")
	h.redirect(c, "/login")
}

func (h *AuthHandler) Dashboard(c *gin.Context) {
	p := principal(c)
	stats, err := h.users.Dashboard(c.Request.Context(), p.UserID, p.Role)
	if err != nil {
		status := h.fail(c, err)
		h.render(c, status, "dashboard.html", gin.H{"Statuses": model.MotorStatuses})
		return
	}
	h.render(c, http.StatusOK, "dashboard.html", gin.H{
		"Stats":    stats,
		"Statuses": model.MotorStatuses,
	})
}

func (h *AuthHandler) ChangePasswordForm(c *gin.Context) {
	h.render(c, http.StatusOK, "change_password.html", nil)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	err := h.auth.ChangePassword(c.Request.Context(), principal(c).UserID,
		c.PostForm("current_password"),
		c.PostForm("new_password"),
		c.PostForm("confirm_password"),
	)
	if err != nil {
		status := h.fail(c, err)
		h.render(c, status, "change_password.html", nil)
		return
	}

	h.flash(c, session.FlashSuccess, "Password berhasil diubah!")
	h.redirect(c, "/dashboard")
}

// RegisterAuthRoutes registers the login flow and the pages open to every
// signed-in user
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW, connMW gin.HandlerFunc) {
	rg.GET("/", h.Index)
	rg.GET("/login", h.LoginForm)
	rg.POST("/login", connMW, h.Login)

	authGroup := rg.Group("", authMW)
	{
		authGroup.GET("/logout", h.Logout)
		authGroup.GET("/dashboard", connMW, h.Dashboard)
		authGroup.GET("/change_password", h.ChangePasswordForm)
		authGroup.POST("/change_password", connMW, h.ChangePassword)
	}
}
