package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.CSRFEnabled)
	assert.Equal(t, 2*time.Hour, cfg.SessionLifetime())
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.True(t, cfg.Session.CookieHTTPOnly)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, http.SameSiteLaxMode, cfg.SameSite())
	assert.Equal(t, "static/uploads", cfg.Upload.Folder)
	assert.Equal(t, []string{"png", "jpg", "jpeg", "gif", "webp"}, cfg.Upload.AllowedExtensions)
	assert.EqualValues(t, 5*1024*1024, cfg.Upload.MaxContentLength)
	assert.EqualValues(t, 5*1024*1024+FormAllowance, cfg.BodyLimit())
	assert.EqualValues(t, 50_000_000, cfg.Upload.MaxImagePixels)
	assert.Equal(t, 5, cfg.RateLimit.Attempts)
	assert.Equal(t, 300*time.Second, cfg.RateLimitWindow())
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.EqualValues(t, 5432, cfg.DB.Port)
	assert.Equal(t, "motordewata", cfg.DB.Name)
	assert.Equal(t, "UTF8", cfg.DB.Charset)
	assert.Equal(t, "superadmin", cfg.Superadmin.Username)
	assert.Empty(t, cfg.Superadmin.Password)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("DEBUG", "true")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("SESSION_COOKIE_SAMESITE", "Strict")
	t.Setenv("PERMANENT_SESSION_LIFETIME", "8")
	t.Setenv("ALLOWED_EXTENSIONS", " PNG, .jpg ,")
	t.Setenv("RATE_LIMIT_ATTEMPTS", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "60")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_CHARSET", "LATIN1")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, http.SameSiteStrictMode, cfg.SameSite())
	assert.Equal(t, 8*time.Hour, cfg.SessionLifetime())
	assert.Equal(t, []string{"png", "jpg"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, 3, cfg.RateLimit.Attempts)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow())
	assert.Equal(t, "db", cfg.DB.Host)
	assert.EqualValues(t, 6543, cfg.DB.Port)
	assert.Equal(t, "LATIN1", cfg.DB.Charset)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
}

func TestLoad_MissingSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"samesite", "SESSION_COOKIE_SAMESITE", "sometimes"},
		{"lifetime", "PERMANENT_SESSION_LIFETIME", "0"},
		{"extensions", "ALLOWED_EXTENSIONS", " , "},
		{"max size", "MAX_CONTENT_LENGTH", "-1"},
		{"max pixels", "MAX_IMAGE_PIXELS", "0"},
		{"attempts", "RATE_LIMIT_ATTEMPTS", "0"},
		{"port", "PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SECRET_KEY", "test-secret")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestPoolConfig(t *testing.T) {
	poolCfg, err := PoolConfig(DBConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "motor",
		Password: "p@ss word",
		Name:     "motordewata",
		Charset:  "UTF8",
		SSLMode:  "disable",
		MaxConns: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, "db.internal", poolCfg.ConnConfig.Host)
	assert.EqualValues(t, 5433, poolCfg.ConnConfig.Port)
	assert.Equal(t, "motor", poolCfg.ConnConfig.User)
	assert.Equal(t, "p@ss word", poolCfg.ConnConfig.Password)
	assert.Equal(t, "motordewata", poolCfg.ConnConfig.Database)
	assert.Equal(t, "UTF8", poolCfg.ConnConfig.RuntimeParams["client_encoding"])
	assert.EqualValues(t, 4, poolCfg.MaxConns)
}

func TestPoolConfig_InvalidSSLMode(t *testing.T) {
	_, err := PoolConfig(DBConfig{SSLMode: "sometimes", MaxConns: 1})
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := embedMigrations.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	body, err := embedMigrations.ReadFile("migrations/" + entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS motor")
}
