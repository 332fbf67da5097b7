package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// TokenSize is the entropy size in bytes of a generated opaque token.
type TokenSize int

const (
	TokenSize128 TokenSize = 16
	TokenSize256 TokenSize = 32
	TokenSize512 TokenSize = 64
)

// GenerateToken returns a URL-safe random token with size bytes of entropy.
func GenerateToken(size TokenSize) (string, error) {
	buf := make([]byte, int(size))
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MustGenerateToken is GenerateToken but panics on failure. Randomness
// failure means the process cannot operate safely anyway.
func MustGenerateToken(size TokenSize) string {
	tok, err := GenerateToken(size)
	if err != nil {
		panic(err)
	}
	return tok
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token,
// suitable for storage and indexed lookup. The raw token never hits disk.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
