package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FlashClaim is a pending one-shot message carried by the session cookie.
type FlashClaim struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// SessionClaims is the signed payload of the session cookie
type SessionClaims struct {
	UserID   int              `json:"uid,omitempty"`
	Username string           `json:"username,omitempty"`
	Role     string           `json:"role,omitempty"`
	LoginAt  *jwt.NumericDate `json:"login_at,omitempty"`
	Flashes  []FlashClaim     `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// Authenticated reports whether the claims carry a principal.
func (c *SessionClaims) Authenticated() bool {
	return c.UserID != 0
}

// JWTUtil signs and validates session payloads
type JWTUtil struct {
	secretKey []byte
	lifetime  time.Duration
	now       func() time.Time
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string, lifetime time.Duration) *JWTUtil {
	return &JWTUtil{secretKey: []byte(secretKey), lifetime: lifetime, now: time.Now}
}

// WithClock replaces the time source, used by tests.
func (ju *JWTUtil) WithClock(now func() time.Time) *JWTUtil {
	ju.now = now
	return ju
}

// GenerateToken signs claims. Authenticated sessions expire one lifetime
// after login, no matter how often the cookie is re-issued.
func (ju *JWTUtil) GenerateToken(claims *SessionClaims) (string, error) {
	claims.IssuedAt = jwt.NewNumericDate(ju.now())
	claims.ExpiresAt = nil
	claims.Subject = ""
	if claims.Authenticated() && claims.LoginAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(claims.LoginAt.Add(ju.lifetime))
		claims.Subject = strconv.Itoa(claims.UserID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ju.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates the signature and expiry of a session token
func (ju *JWTUtil) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ju.secretKey, nil
	}, jwt.WithTimeFunc(ju.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
