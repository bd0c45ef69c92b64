package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"motor_rental/internal/model"
	"motor_rental/internal/service"
	"motor_rental/internal/session"

	"github.com/gin-gonic/gin"
)

// MotorHandler handles the owner-scoped motor pages
type MotorHandler struct {
	base
	motors service.MotorService
}

// NewMotorHandler creates a new MotorHandler
func NewMotorHandler(sessions *session.Manager, motors service.MotorService) *MotorHandler {
	return &MotorHandler{base: base{sessions: sessions}, motors: motors}
}

func (h *MotorHandler) List(c *gin.Context) {
	motors, err := h.motors.List(c.Request.Context(), principal(c).UserID)
	if err != nil {
		h.fail(c, err)
		h.redirect(c, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "motors.html", gin.H{"Motors": motors})
}

func (h *MotorHandler) AddForm(c *gin.Context) {
	h.render(c, http.StatusOK, "add_motor.html", gin.H{
		"Input":    model.MotorInput{Status: model.MotorAvailable},
		"Statuses": model.MotorStatuses,
	})
}

func (h *MotorHandler) Add(c *gin.Context) {
	in, file, err := bindMotorForm(c)
	if err == nil {
		var motor *model.Motor
		motor, err = h.motors.Create(c.Request.Context(), principal(c).UserID, in, file)
		if err == nil {
			h.flash(c, session.FlashSuccess, fmt.Sprintf("Motor %s berhasil ditambahkan!", motor.Name))
			h.redirect(c, "/motors")
			return
		}
	}

	status := h.fail(c, err)
	h.render(c, status, "add_motor.html", gin.H{
		"Input":    in,
		"Statuses": model.MotorStatuses,
	})
}

func (h *MotorHandler) EditForm(c *gin.Context) {
	motor, ok := h.load(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "edit_motor.html", gin.H{
		"Motor":    motor,
		"Input":    inputOf(motor),
		"Statuses": model.MotorStatuses,
	})
}

func (h *MotorHandler) Edit(c *gin.Context) {
	motor, ok := h.load(c)
	if !ok {
		return
	}

	in, file, err := bindMotorForm(c)
	if err == nil {
		removeImage := c.PostForm("hapus_gambar") != ""
		var updated *model.Motor
		updated, err = h.motors.Update(c.Request.Context(), motor.ID, motor.OwnerID, in, file, removeImage)
		if err == nil {
			h.flash(c, session.FlashSuccess, fmt.Sprintf("Motor %s berhasil diupdate!", updated.Name))
			h.redirect(c, "/motors")
			return
		}
	}

	status := h.fail(c, err)
	if errors.Is(err, service.ErrMotorNotFound) {
		h.redirect(c, "/motors")
		return
	}
	h.render(c, status, "edit_motor.html", gin.H{
		"Motor":    motor,
		"Input":    in,
		"Statuses": model.MotorStatuses,
	})
}

func (h *MotorHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrMotorNotFound)
		h.redirect(c, "/motors")
		return
	}

	deleted, err := h.motors.Delete(c.Request.Context(), id, principal(c).UserID)
	if err != nil {
		h.fail(c, err)
		h.redirect(c, "/motors")
		return
	}

	h.flash(c, session.FlashSuccess, fmt.Sprintf("Motor %s berhasil dihapus!", deleted.Name))
	h.redirect(c, "/motors")
}

// load fetches the motor named by the :id param for the caller. On failure
// it has already answered the request.
func (h *MotorHandler) load(c *gin.Context) (*model.Motor, bool) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrMotorNotFound)
		h.redirect(c, "/motors")
		return nil, false
	}
	motor, err := h.motors.Get(c.Request.Context(), id, principal(c).UserID)
	if err != nil {
		h.fail(c, err)
		h.redirect(c, "/motors")
		return nil, false
	}
	return motor, true
}

// bindMotorForm reads the motor fields and the optional "gambar" file.
func bindMotorForm(c *gin.Context) (model.MotorInput, *multipart.FileHeader, error) {
	var in model.MotorInput
	if err := c.ShouldBind(&in); err != nil {
		return in, nil, err
	}

	file, err := c.FormFile("gambar")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nil, nil
	case err != nil:
		return in, nil, err
	}
	return in, file, nil
}

func inputOf(m *model.Motor) model.MotorInput {
	return model.MotorInput{
		Name:        m.Name,
		Plate:       m.Plate,
		Status:      m.Status,
		Description: m.Description,
	}
}

// RegisterMotorRoutes registers the admin-only motor routes
func (h *MotorHandler) RegisterMotorRoutes(rg *gin.RouterGroup, adminMW, connMW gin.HandlerFunc) {
	motorGroup := rg.Group("", adminMW, connMW)
	{
		motorGroup.GET("/motors", h.List)
		motorGroup.GET("/add_motor", h.AddForm)
		motorGroup.POST("/add_motor", h.Add)
		motorGroup.GET("/edit_motor/:id", h.EditForm)
		motorGroup.POST("/edit_motor/:id", h.Edit)
		motorGroup.POST("/delete_motor/:id", h.Delete)
	}
}
