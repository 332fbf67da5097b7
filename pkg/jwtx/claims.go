package jwtx

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims carried by an access token. Subject holds the
// user ID; UserType drives endpoint authorization downstream.
type AccessClaims struct {
	Email       string `json:"email"`
	UserType    string `json:"user_type"`
	PhoneNumber string `json:"phone_number,omitempty"`

	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *AccessClaims) UserID() string {
	return c.Subject
}
