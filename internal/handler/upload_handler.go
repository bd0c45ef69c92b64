package handler

import (
	"context"
	"net/http"

	"motor_rental/internal/logger"
	"motor_rental/internal/upload"

	"github.com/gin-gonic/gin"
)

// UploadHandler serves stored motor images
type UploadHandler struct {
	store *upload.Store
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store *upload.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Serve sends a stored image. Every stored file is a JPEG whatever its
// extension says.
func (h *UploadHandler) Serve(c *gin.Context) {
	path, err := h.store.Path(c.Param("name"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Content-Type", "image/jpeg")
	c.File(path)
}

// RegisterUploadRoutes registers the image route for signed-in users
func (h *UploadHandler) RegisterUploadRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/uploads/:name", authMW, h.Serve)
}

// Pinger reports whether the database answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness of the process and the database
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		logger.FromContext(c.Request.Context()).Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
}
