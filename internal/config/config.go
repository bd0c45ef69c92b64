package config

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full environment-driven configuration of the server
type Config struct {
	SecretKey      string   `env:"SECRET_KEY,required,notEmpty"`
	Debug          bool     `env:"DEBUG" envDefault:"false"`
	Host           string   `env:"HOST" envDefault:"0.0.0.0"`
	Port           int      `env:"PORT" envDefault:"5000"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	CSRFEnabled    bool     `env:"CSRF_ENABLED" envDefault:"true"`

	Session    SessionConfig
	Upload     UploadConfig
	RateLimit  RateLimitConfig
	DB         DBConfig         `envPrefix:"DB_"`
	Superadmin SuperadminConfig `envPrefix:"SUPERADMIN_"`
}

// SessionConfig holds the session cookie settings
type SessionConfig struct {
	CookieName     string `env:"SESSION_COOKIE_NAME" envDefault:"session"`
	CookieSecure   bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"SESSION_COOKIE_HTTPONLY" envDefault:"true"`
	CookieSameSite string `env:"SESSION_COOKIE_SAMESITE" envDefault:"Lax"`
	LifetimeHours  int    `env:"PERMANENT_SESSION_LIFETIME" envDefault:"2"`
}

// UploadConfig holds the image upload settings
type UploadConfig struct {
	Folder            string   `env:"UPLOAD_FOLDER" envDefault:"static/uploads"`
	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS" envDefault:"png,jpg,jpeg,gif,webp" envSeparator:","`
	MaxContentLength  int64    `env:"MAX_CONTENT_LENGTH" envDefault:"5242880"`
	MaxImagePixels    int64    `env:"MAX_IMAGE_PIXELS" envDefault:"50000000"`
}

// RateLimitConfig holds the failed-login limiter settings
type RateLimitConfig struct {
	Attempts      int `env:"RATE_LIMIT_ATTEMPTS" envDefault:"5"`
	WindowSeconds int `env:"RATE_LIMIT_WINDOW" envDefault:"300"`
}

// DBConfig holds database connection parameters
type DBConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     uint16 `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"motordewata"`
	Charset  string `env:"CHARSET" envDefault:"UTF8"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"MAX_CONNS" envDefault:"10"`
}

// SuperadminConfig seeds the first superadmin account
type SuperadminConfig struct {
	Username string `env:"USERNAME" envDefault:"superadmin"`
	Password string `env:"PASSWORD"`
}

// Load parses the process environment into a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	exts := make([]string, 0, len(c.Upload.AllowedExtensions))
	for _, ext := range c.Upload.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	c.Upload.AllowedExtensions = exts

	proxies := make([]string, 0, len(c.TrustedProxies))
	for _, p := range c.TrustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	c.TrustedProxies = proxies
}

func (c *Config) validate() error {
	var errs []error
	if c.Session.LifetimeHours <= 0 {
		errs = append(errs, errors.New("PERMANENT_SESSION_LIFETIME must be positive"))
	}
	if _, err := parseSameSite(c.Session.CookieSameSite); err != nil {
		errs = append(errs, err)
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		errs = append(errs, errors.New("ALLOWED_EXTENSIONS must list at least one extension"))
	}
	if c.Upload.MaxContentLength <= 0 {
		errs = append(errs, errors.New("MAX_CONTENT_LENGTH must be positive"))
	}
	if c.Upload.MaxImagePixels <= 0 {
		errs = append(errs, errors.New("MAX_IMAGE_PIXELS must be positive"))
	}
	if c.RateLimit.Attempts <= 0 || c.RateLimit.WindowSeconds <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_ATTEMPTS and RATE_LIMIT_WINDOW must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.DB.MaxConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// FormAllowance is the room left for form fields and multipart framing on
// top of MAX_CONTENT_LENGTH when capping a request body.
const FormAllowance = 1 << 20

// BodyLimit is the largest request body the server reads.
func (c *Config) BodyLimit() int64 {
	return c.Upload.MaxContentLength + FormAllowance
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SessionLifetime is the maximum age of a login session.
func (c *Config) SessionLifetime() time.Duration {
	return time.Duration(c.Session.LifetimeHours) * time.Hour
}

// RateLimitWindow is the trailing window of the failed-login limiter.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// SameSite returns the parsed SameSite mode of the session cookie.
func (c *Config) SameSite() http.SameSite {
	mode, _ := parseSameSite(c.Session.CookieSameSite)
	return mode
}

func parseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "lax", "":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("SESSION_COOKIE_SAMESITE %q must be Lax, Strict or None", v)
}
