package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motor_rental/internal/config"
	"motor_rental/internal/handler"
	"motor_rental/internal/logger"
	"motor_rental/internal/ratelimit"
	"motor_rental/internal/repository"
	"motor_rental/internal/service"
	"motor_rental/internal/session"
	"motor_rental/internal/upload"
	"motor_rental/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.New("server", false).Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New("server", cfg.Debug)
	if envErr != nil {
		l.Debug().Msg("no .env file found, relying on environment variables")
	}
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx := l.WithContext(context.Background())

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	// --- Migrations ---
	if err := config.Migrate(dbPool); err != nil {
		l.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.SecretKey, cfg.SessionLifetime())
	sessions := session.NewManager(jwtUtil, session.Options{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
		HTTPOnly:   cfg.Session.CookieHTTPOnly,
		SameSite:   cfg.SameSite(),
		Lifetime:   cfg.SessionLifetime(),
	})
	limiter := ratelimit.NewMemory(cfg.RateLimit.Attempts, cfg.RateLimitWindow())
	uploads, err := upload.NewStore(upload.Config{
		Dir:               cfg.Upload.Folder,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxSize:           cfg.Upload.MaxContentLength,
		MaxPixels:         cfg.Upload.MaxImagePixels,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to prepare upload directory")
	}
	l.Info().Str("dir", uploads.Dir()).Msg("uploads will be stored here")

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	motorRepo := repository.NewMotorRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, limiter)
	userService := service.NewUserService(userRepo, motorRepo)
	motorService := service.NewMotorService(motorRepo, uploads)

	if _, err := userService.EnsureSuperadmin(ctx, cfg.Superadmin.Username, cfg.Superadmin.Password); err != nil {
		l.Fatal().Err(err).Msg("failed to seed superadmin")
	}

	// --- Setup Gin Router ---
	router, err := handler.NewRouter(handler.Deps{
		Logger:         l,
		Sessions:       sessions,
		Conns:          repository.NewPoolSource(dbPool),
		DB:             dbPool,
		Auth:           authService,
		Users:          userService,
		Motors:         motorService,
		Uploads:        uploads,
		BodyLimit:      cfg.BodyLimit(),
		CSRF:           cfg.CSRFEnabled,
		SecureCookie:   cfg.Session.CookieSecure,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to build router")
	}

	// --- Start Server ---
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("listen failed")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Fatal().Err(err).Msg("server forced to shutdown")
	}

	l.Info().Msg("server exiting")
}
