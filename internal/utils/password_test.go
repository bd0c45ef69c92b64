package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "password123"
	hashedPassword, err := HashPassword(password)

	require.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)
	assert.True(t, strings.HasPrefix(hashedPassword, "pbkdf2:sha256:600000$"))

	parts := strings.Split(hashedPassword, "$")
	require.Len(t, parts, 3)
	assert.Len(t, parts[1], saltLength)
	assert.Len(t, parts[2], 64)
}

func TestHashPassword_SaltIsRandom(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "password123"
	hashedPassword, err := HashPassword(password)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash(password, hashedPassword))
	assert.False(t, CheckPasswordHash("wrongpassword", hashedPassword))
}

func TestCheckPasswordHash_KnownHashes(t *testing.T) {
	tests := []struct {
		name   string
		hashed string
	}{
		{
			name:   "pbkdf2 sha256",
			hashed: "pbkdf2:sha256:1000$abcdefghijklmnop$c076c837c77f84bd968c14c8d07252136f663b51f3ad7ffe980ee4228a703430",
		},
		{
			name:   "scrypt",
			hashed: "scrypt:1024:8:1$QRSTUVWXYZabcdef$683da658916e4fb554e3b6fed06bf51269839e0f28ff66b913a915315b253846b02a35ceed996f55664972a9bd9943e38429c73ffb5fde65a1c044ebe44d7f17",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, CheckPasswordHash("admin123", tt.hashed))
			assert.False(t, CheckPasswordHash("admin124", tt.hashed))
		})
	}
}

func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	for _, hashed := range []string{
		"invalidhash",
		"",
		"pbkdf2:sha256$$abc",
		"pbkdf2:md5:1000$salt$abc",
		"pbkdf2:sha256:notanumber$salt$abc",
		"bcrypt$salt$abc",
	} {
		assert.False(t, CheckPasswordHash("password123", hashed), hashed)
	}
}
