package handler

import (
	"errors"
	"fmt"
	"net/http"

	"motor_rental/internal/service"
	"motor_rental/internal/session"

	"github.com/gin-gonic/gin"
)

// UserHandler handles the superadmin's account management pages
type UserHandler struct {
	base
	users service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(sessions *session.Manager, users service.UserService) *UserHandler {
	return &UserHandler{base: base{sessions: sessions}, users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		h.redirect(c, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "users.html", gin.H{
		"Users":     users,
		"CurrentID": principal(c).UserID,
	})
}

func (h *UserHandler) AddForm(c *gin.Context) {
	h.render(c, http.StatusOK, "add_user.html", nil)
}

func (h *UserHandler) Add(c *gin.Context) {
	username := c.PostForm("username")
	user, err := h.users.CreateAdmin(c.Request.Context(), username, c.PostForm("password"), c.PostForm("role"))
	if err != nil {
		status := h.fail(c, err)
		h.render(c, status, "add_user.html", gin.H{"Username": username})
		return
	}

	h.flash(c, session.FlashSuccess, fmt.Sprintf("Admin %s berhasil ditambahkan!", user.Username))
	h.redirect(c, "/users")
}

func (h *UserHandler) EditPasswordForm(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrAdminNotFound)
		h.redirect(c, "/users")
		return
	}
	admin, err := h.users.GetAdmin(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		h.redirect(c, "/users")
		return
	}
	h.render(c, http.StatusOK, "edit_admin_password.html", gin.H{"Admin": admin})
}

func (h *UserHandler) EditPassword(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrAdminNotFound)
		h.redirect(c, "/users")
		return
	}

	admin, err := h.users.ResetAdminPassword(c.Request.Context(), id, c.PostForm("new_password"), c.PostForm("confirm_password"))
	if err != nil {
		status := h.fail(c, err)
		if admin == nil || errors.Is(err, service.ErrAdminNotFound) {
			h.redirect(c, "/users")
			return
		}
		h.render(c, status, "edit_admin_password.html", gin.H{"Admin": admin})
		return
	}

	h.flash(c, session.FlashSuccess, fmt.Sprintf("Password admin %s berhasil diubah!", admin.Username))
	h.redirect(c, "/users")
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrUserNotFound)
		h.redirect(c, "/users")
		return
	}

	deleted, err := h.users.DeleteAdmin(c.Request.Context(), principal(c).UserID, id)
	if err != nil {
		h.fail(c, err)
		h.redirect(c, "/users")
		return
	}

	h.flash(c, session.FlashSuccess, fmt.Sprintf("Admin %s berhasil dihapus!", deleted.Username))
	h.redirect(c, "/users")
}

// RegisterUserRoutes registers the superadmin-only routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, superadminMW, connMW gin.HandlerFunc) {
	userGroup := rg.Group("", superadminMW, connMW)
	{
		userGroup.GET("/users", h.List)
		userGroup.GET("/add_user", h.AddForm)
		userGroup.POST("/add_user", h.Add)
		userGroup.GET("/edit_admin_password/:id", h.EditPasswordForm)
		userGroup.POST("/edit_admin_password/:id", h.EditPassword)
		userGroup.POST("/delete_admin/:id", h.Delete)
	}
}
