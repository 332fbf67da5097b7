package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Callers treat
// a bad signature, wrong issuer, expiry, and garbage input identically, so
// the distinction never leaves this package.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// Verifier validates HS256 access tokens against a fixed issuer and
// audience with zero clock leeway.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret []byte, issuer, audience string) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty verification secret")
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("jwtx: issuer and audience are required")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	return &Verifier{secret: secret, parser: parser}, nil
}

// Verify parses and fully validates a token string. Any failure, whatever
// the cause, yields ErrInvalidToken.
func (v *Verifier) Verify(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Peek decodes claims without verifying the signature or lifetime. It exists
// so session introspection can tell an expired-but-well-formed token apart
// from garbage. Never trust its output for authorization.
func Peek(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
