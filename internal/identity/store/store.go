package store

import (
	"context"
	"errors"
	"time"

	"github.com/adoptly/adoptly/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it.
// Sub-repositories keep concerns tidy; transactional operations go through
// WithTx so rotation stays atomic.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rollback on error, commit on
	// nil. Preferred over Tx for multi-step operations.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new directory entry (id is a ULID assigned by
	// the caller). Returns ErrAlreadyExists on an email collision.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdateLastLogin stamps last_login_at and bumps updated_at.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// UpdatePasswordHash replaces the stored hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record for a token fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken deactivates a token. Idempotent: revoking an
	// already-revoked or absent token is not an error.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeActiveRefreshToken deactivates a token only if it is still
	// active, reporting ErrNotFound otherwise. This is the compare-and-swap
	// used during rotation so two concurrent refreshes cannot both win.
	RevokeActiveRefreshToken(ctx context.Context, hash string) error

	// RevokeAllUserRefreshTokens deactivates every active token a user
	// holds in one statement and returns how many were hit.
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) (int64, error)

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}
