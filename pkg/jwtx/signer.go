package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Profile is the identity snapshot minted into an access token.
type Profile struct {
	UserID      string
	Email       string
	UserType    string
	PhoneNumber string
}

// Signer mints HS256 access tokens with a fixed issuer and audience.
type Signer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewSigner builds a Signer. The secret must be non-empty; token freshness
// is bounded by ttl.
func NewSigner(secret []byte, issuer, audience string, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("jwtx: issuer and audience are required")
	}
	if ttl <= 0 {
		return nil, errors.New("jwtx: non-positive token ttl")
	}

	return &Signer{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}, nil
}

// Sign mints a signed access token for the given profile. Every token gets a
// unique jti so individual tokens stay distinguishable in logs.
func (s *Signer) Sign(p Profile, now time.Time) (string, error) {
	if p.UserID == "" {
		return "", errors.New("jwtx: profile missing user id")
	}

	now = now.UTC()
	claims := &AccessClaims{
		Email:       p.Email,
		UserType:    p.UserType,
		PhoneNumber: p.PhoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   p.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

// TTL reports the configured token lifetime.
func (s *Signer) TTL() time.Duration { return s.ttl }
