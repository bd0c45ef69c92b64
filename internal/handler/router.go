package handler

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"motor_rental/internal/logger"
	"motor_rental/internal/middleware"
	"motor_rental/internal/service"
	"motor_rental/internal/session"
	"motor_rental/internal/upload"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Deps is everything the router needs from the process
type Deps struct {
	Logger         *logger.Logger
	Sessions       *session.Manager
	Conns          middleware.ConnSource
	DB             Pinger
	Auth           service.AuthService
	Users          service.UserService
	Motors         service.MotorService
	Uploads        *upload.Store
	BodyLimit      int64
	CSRF           bool
	SecureCookie   bool
	TrustedProxies []string
}

// NewRouter builds the gin engine with every route and middleware
func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	pages := base{sessions: d.Sessions}
	tooLarge := func(c *gin.Context) {
		pages.render(c, http.StatusRequestEntityTooLarge, "error.html", gin.H{"Message": msgTooLarge})
	}

	router.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			logger.FromContext(c.Request.Context()).Error().Interface("panic", recovered).Msg("recovered from panic")
			pages.render(c, http.StatusInternalServerError, "error.html", gin.H{"Message": msgUnexpected})
			c.Abort()
		}),
		middleware.TraceID(d.Logger),
		middleware.RequestLogger(),
		middleware.SecurityHeaders(),
		middleware.SessionMiddleware(d.Sessions),
		middleware.BodyLimit(d.BodyLimit, tooLarge),
	)
	if d.CSRF {
		router.Use(middleware.CSRF(d.SecureCookie, func(c *gin.Context) {
			if middleware.BodyExceeded(c) {
				tooLarge(c)
				return
			}
			pages.render(c, http.StatusBadRequest, "error.html", gin.H{"Message": msgCSRFFailed})
		}))
	}

	// --- Initialize Middlewares ---
	authMW := middleware.RequireLogin(d.Sessions)
	adminMW := middleware.AdminMiddleware(d.Sessions)
	superadminMW := middleware.SuperadminMiddleware(d.Sessions)
	connMW := middleware.ConnScope(d.Conns, func(c *gin.Context) {
		pages.render(c, http.StatusServiceUnavailable, "error.html", gin.H{"Message": msgDatabaseDown})
	})

	// --- Register Routes ---
	root := router.Group("")
	NewAuthHandler(d.Sessions, d.Auth, d.Users).RegisterAuthRoutes(root, authMW, connMW)
	NewUserHandler(d.Sessions, d.Users).RegisterUserRoutes(root, superadminMW, connMW)
	NewMotorHandler(d.Sessions, d.Motors).RegisterMotorRoutes(root, adminMW, connMW)
	NewUploadHandler(d.Uploads).RegisterUploadRoutes(root, authMW)
	router.GET("/health", NewHealthHandler(d.DB).Health)

	router.NoRoute(func(c *gin.Context) {
		pages.render(c, http.StatusNotFound, "error.html", gin.H{"Message": "Halaman tidak ditemukan."})
	})

	return router, nil
}
