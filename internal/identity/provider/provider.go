// Package provider abstracts the identity backend the auth flows run
// against. The shipped implementation is the local directory; a hosted IdP
// fits behind the same interface.
package provider

import (
	"context"
	"errors"

	"github.com/adoptly/adoptly/internal/identity/domain"
)

// Failure classes the auth service reacts to. Everything an IdP can report
// is folded into one of these; callers never see backend-specific errors.
var (
	// ErrInvalidCredentials covers unknown users and wrong passwords alike
	// so responses cannot be used to probe for accounts.
	ErrInvalidCredentials = errors.New("provider: invalid credentials")

	// ErrUserNotConfirmed means the account exists but has not finished
	// verification.
	ErrUserNotConfirmed = errors.New("provider: user not confirmed")

	// ErrPasswordResetRequired means the backend demands a reset before
	// the user may sign in again.
	ErrPasswordResetRequired = errors.New("provider: password reset required")

	// ErrRateLimited means the backend is throttling this identity.
	ErrRateLimited = errors.New("provider: too many attempts")

	// ErrInvalidInput rejects malformed registration data.
	ErrInvalidInput = errors.New("provider: invalid input")

	ErrNotFound      = errors.New("provider: user not found")
	ErrAlreadyExists = errors.New("provider: user already exists")
)

// RegisterInput is a new account request.
type RegisterInput struct {
	Email       string
	Password    string
	UserType    string
	PhoneNumber *string
}

// Provider is an identity backend.
type Provider interface {
	// Authenticate verifies credentials and returns the user's profile.
	// A successful call also records the login time.
	Authenticate(ctx context.Context, email, password string) (domain.Profile, error)

	// GetProfile fetches the current profile for a known user ID.
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)

	// Register creates a new account.
	Register(ctx context.Context, in RegisterInput) (domain.Profile, error)
}
