// Package domain holds the identity service's core types. Other layers
// depend on this package, never the other way around.
package domain

import "time"

// User types recognised by authorization policies. UserTypeInternal is
// synthetic: it only ever appears on service-to-service principals, never
// in the directory.
const (
	UserTypeAdopter      = "adopter"
	UserTypeShelterAdmin = "shelter_admin"
	UserTypeInternal     = "Internal"
)

// User is a directory entry.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	UserType     string
	PhoneNumber  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// Profile is the view of a user shared outside the service: token claims,
// cookies and internal lookups. It never carries the password hash.
type Profile struct {
	UserID      string     `json:"userId"`
	Email       string     `json:"email"`
	UserType    string     `json:"userType"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// ProfileOf builds the shareable view of u.
func ProfileOf(u User) Profile {
	return Profile{
		UserID:      u.ID,
		Email:       u.Email,
		UserType:    u.UserType,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// RefreshToken is a stored refresh token record. TokenHash is the SHA-256
// fingerprint of the opaque token; the raw value is never persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Valid reports whether the record is usable at the given instant: it must
// be active and unexpired. Expiry at exactly now counts as expired.
func (t RefreshToken) Valid(now time.Time) bool {
	return t.IsActive && t.ExpiresAt.After(now)
}

// TokenPair is the result of minting a session: a signed access token, the
// raw opaque refresh token, and the access token's expiry.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
