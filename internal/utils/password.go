package utils

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Hashes use the "method$salt$hex" layout so accounts created by earlier
// deployments keep verifying.
const (
	pbkdf2Iterations = 600000
	saltLength       = 16
	saltChars        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	scryptDefaultN = 1 << 15
	scryptDefaultR = 8
	scryptDefaultP = 1
	scryptKeyLen   = 64
)

var pbkdf2Digests = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// HashPassword returns a salted PBKDF2-SHA256 hash of password.
func HashPassword(password string) (string, error) {
	salt, err := genSalt(saltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", pbkdf2Iterations, salt, hex.EncodeToString(key)), nil
}

// CheckPasswordHash reports whether password matches hashed.
// Unknown or malformed hashes never match.
func CheckPasswordHash(password, hashed string) bool {
	parts := strings.SplitN(hashed, "$", 3)
	if len(parts) != 3 || parts[1] == "" {
		return false
	}
	method, salt, want := parts[0], parts[1], parts[2]

	got, err := derive(method, password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(got)), []byte(want)) == 1
}

func derive(method, password, salt string) ([]byte, error) {
	args := strings.Split(method, ":")
	switch args[0] {
	case "pbkdf2":
		digest := "sha256"
		if len(args) > 1 {
			digest = args[1]
		}
		newHash, ok := pbkdf2Digests[digest]
		if !ok {
			return nil, fmt.Errorf("unsupported pbkdf2 digest %q", digest)
		}
		iterations := pbkdf2Iterations
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid pbkdf2 iterations %q", args[2])
			}
			iterations = n
		}
		return pbkdf2.Key([]byte(password), []byte(salt), iterations, newHash().Size(), newHash), nil
	case "scrypt":
		params := []int{scryptDefaultN, scryptDefaultR, scryptDefaultP}
		for i, raw := range args[1:] {
			if i >= len(params) {
				break
			}
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid scrypt parameter %q", raw)
			}
			params[i] = n
		}
		return scrypt.Key([]byte(password), []byte(salt), params[0], params[1], params[2], scryptKeyLen)
	}
	return nil, fmt.Errorf("unsupported hash method %q", method)
}

func genSalt(n int) (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(saltChars)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(saltChars[idx.Int64()])
	}
	return sb.String(), nil
}
