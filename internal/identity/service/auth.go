// Package service holds the auth orchestration: credential verification via
// the identity provider, token minting, refresh rotation and revocation.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adoptly/adoptly/internal/identity/domain"
	"github.com/adoptly/adoptly/internal/identity/provider"
	"github.com/adoptly/adoptly/internal/identity/store"
	"github.com/adoptly/adoptly/pkg/cryptox"
	"github.com/adoptly/adoptly/pkg/idx"
	"github.com/adoptly/adoptly/pkg/jwtx"
	"github.com/adoptly/adoptly/pkg/slogx"
)

// ErrInvalidRefreshToken covers every way a presented refresh token can be
// unusable: unknown, revoked, expired, or orphaned. The causes stay in the
// logs; callers get one answer.
var ErrInvalidRefreshToken = errors.New("service: invalid refresh token")

type Auth struct {
	store      store.Store
	provider   provider.Provider
	signer     *jwtx.Signer
	refreshTTL time.Duration
}

func NewAuth(st store.Store, idp provider.Provider, signer *jwtx.Signer, refreshTTL time.Duration) *Auth {
	return &Auth{
		store:      st,
		provider:   idp,
		signer:     signer,
		refreshTTL: refreshTTL,
	}
}

// Session is an authenticated session: the minted token pair plus the
// profile it was minted for.
type Session struct {
	Pair domain.TokenPair
	User domain.Profile
}

// Login verifies credentials and mints a session. The refresh token record
// is persisted before anything is returned; a token the caller holds is
// always revocable.
func (a *Auth) Login(ctx context.Context, email, password string) (Session, error) {
	profile, err := a.provider.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	session, err := a.mint(ctx, a.store.RefreshTokens(), profile)
	if err != nil {
		return Session{}, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", profile.UserID)
	return session, nil
}

// Register creates an account and immediately signs it in.
func (a *Auth) Register(ctx context.Context, in provider.RegisterInput) (Session, error) {
	profile, err := a.provider.Register(ctx, in)
	if err != nil {
		return Session{}, err
	}

	session, err := a.mint(ctx, a.store.RefreshTokens(), profile)
	if err != nil {
		return Session{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", profile.UserID, "user_type", profile.UserType)
	return session, nil
}

// Refresh rotates a refresh token: the presented token is atomically
// retired and a fresh pair minted in its place. Claims are rebuilt from the
// provider's current profile, never from the old access token. Concurrent
// presentations of the same token produce exactly one winner.
func (a *Auth) Refresh(ctx context.Context, rawToken string) (Session, error) {
	log := slogx.FromContext(ctx)

	if rawToken == "" {
		return Session{}, ErrInvalidRefreshToken
	}
	hash := cryptox.FingerprintToken(rawToken)

	record, err := a.store.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidRefreshToken
		}
		return Session{}, fmt.Errorf("service: lookup refresh token: %w", err)
	}
	if !record.Valid(time.Now()) {
		log.Warn("refresh rejected", "user_id", record.UserID, "active", record.IsActive)
		return Session{}, ErrInvalidRefreshToken
	}

	profile, err := a.provider.GetProfile(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			// The account is gone; retire its orphaned token.
			_ = a.store.RefreshTokens().RevokeRefreshToken(ctx, hash)
			return Session{}, ErrInvalidRefreshToken
		}
		return Session{}, fmt.Errorf("service: load profile: %w", err)
	}

	var session Session
	err = a.store.WithTx(ctx, func(tx store.Tx) error {
		// CAS: only one concurrent refresh gets to retire the old token.
		if err := tx.RefreshTokens().RevokeActiveRefreshToken(ctx, hash); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefreshToken
			}
			return err
		}

		session, err = a.mint(ctx, tx.RefreshTokens(), profile)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			log.Warn("refresh lost rotation race", "user_id", record.UserID)
			return Session{}, ErrInvalidRefreshToken
		}
		return Session{}, fmt.Errorf("service: rotate refresh token: %w", err)
	}

	log.Info("refresh token rotated", "user_id", profile.UserID)
	return session, nil
}

// Logout revokes the presented refresh token. Idempotent; an unknown or
// absent token is not an error, the session is equally dead either way.
func (a *Auth) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	if err := a.store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.FingerprintToken(rawToken)); err != nil {
		return fmt.Errorf("service: revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAll kills every active refresh token a user holds. Used on password
// resets and account compromise.
func (a *Auth) RevokeAll(ctx context.Context, userID string) (int64, error) {
	n, err := a.store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service: revoke all tokens: %w", err)
	}
	slogx.FromContext(ctx).Info("revoked all refresh tokens", "user_id", userID, "count", n)
	return n, nil
}

// GetProfile exposes the provider profile lookup for internal endpoints.
func (a *Auth) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	return a.provider.GetProfile(ctx, userID)
}

// CleanupExpired removes refresh token rows past their expiry.
func (a *Auth) CleanupExpired(ctx context.Context) error {
	return a.store.RefreshTokens().DeleteExpiredRefreshTokens(ctx)
}

// mint signs an access token and persists a fresh refresh token record
// through the given repository, which may be transaction-scoped.
func (a *Auth) mint(ctx context.Context, tokens store.RefreshTokens, profile domain.Profile) (Session, error) {
	now := time.Now().UTC()

	claims := jwtx.Profile{
		UserID:   profile.UserID,
		Email:    profile.Email,
		UserType: profile.UserType,
	}
	if profile.PhoneNumber != nil {
		claims.PhoneNumber = *profile.PhoneNumber
	}

	access, err := a.signer.Sign(claims, now)
	if err != nil {
		return Session{}, fmt.Errorf("service: sign access token: %w", err)
	}

	raw, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return Session{}, fmt.Errorf("service: generate refresh token: %w", err)
	}

	record := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    profile.UserID,
		TokenHash: cryptox.FingerprintToken(raw),
		ExpiresAt: now.Add(a.refreshTTL),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tokens.CreateRefreshToken(ctx, record); err != nil {
		return Session{}, fmt.Errorf("service: store refresh token: %w", err)
	}

	return Session{
		Pair: domain.TokenPair{
			AccessToken:  access,
			RefreshToken: raw,
			ExpiresAt:    now.Add(a.signer.TTL()),
		},
		User: profile,
	}, nil
}
