// Package local implements provider.Provider on the service's own user
// directory: sqlite rows with argon2id password hashes.
package local

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/adoptly/adoptly/internal/identity/domain"
	"github.com/adoptly/adoptly/internal/identity/provider"
	"github.com/adoptly/adoptly/internal/identity/store"
	"github.com/adoptly/adoptly/pkg/cryptox"
	"github.com/adoptly/adoptly/pkg/idx"
	"github.com/adoptly/adoptly/pkg/slogx"
)

const minPasswordLength = 8

type Provider struct {
	store store.Store
}

func New(st store.Store) *Provider {
	return &Provider{store: st}
}

func (p *Provider) Authenticate(ctx context.Context, email, password string) (domain.Profile, error) {
	user, err := p.store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash verification anyway so unknown emails take as
			// long as wrong passwords.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.Profile{}, provider.ErrInvalidCredentials
		}
		return domain.Profile{}, fmt.Errorf("local: lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrHashMismatch) {
			return domain.Profile{}, provider.ErrInvalidCredentials
		}
		// A malformed stored hash means the account needs a reset.
		slogx.FromContext(ctx).Error("local: unreadable password hash", "user_id", user.ID)
		return domain.Profile{}, provider.ErrPasswordResetRequired
	}

	now := time.Now().UTC()
	if err := p.store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the timestamp is best-effort.
		slogx.FromContext(ctx).Warn("local: record last login", "user_id", user.ID, "err", err)
	} else {
		user.LastLoginAt = &now
	}

	return domain.ProfileOf(user), nil
}

func (p *Provider) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	user, err := p.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, provider.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("local: get user: %w", err)
	}
	return domain.ProfileOf(user), nil
}

func (p *Provider) Register(ctx context.Context, in provider.RegisterInput) (domain.Profile, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Profile{}, fmt.Errorf("local: %w: malformed email", provider.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return domain.Profile{}, fmt.Errorf("local: %w: password too short", provider.ErrInvalidInput)
	}
	if in.UserType != domain.UserTypeAdopter && in.UserType != domain.UserTypeShelterAdmin {
		return domain.Profile{}, fmt.Errorf("local: %w: unknown user type %q", provider.ErrInvalidInput, in.UserType)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("local: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		UserType:     in.UserType,
		PhoneNumber:  in.PhoneNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := p.store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Profile{}, provider.ErrAlreadyExists
		}
		return domain.Profile{}, fmt.Errorf("local: create user: %w", err)
	}

	return domain.ProfileOf(user), nil
}

// dummyHash is verified against when the email is unknown, keeping the
// response time of both failure paths comparable.
var dummyHash = func() string {
	h, err := cryptox.HashPassword("timing-equalizer")
	if err != nil {
		panic(err)
	}
	return h
}()
