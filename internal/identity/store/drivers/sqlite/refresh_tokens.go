package sqlite

import (
	"context"
	"time"

	"github.com/adoptly/adoptly/internal/identity/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	// Upsert: a fingerprint collision (astronomically unlikely with 64-byte
	// tokens) adopts the record for the new session instead of failing the
	// login.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token_hash) DO UPDATE SET
			user_id = excluded.user_id,
			expires_at = excluded.expires_at,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt.UTC(), t.IsActive, t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	return err
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, is_active, created_at, updated_at
		FROM refresh_tokens WHERE token_hash = ?`, hash)

	var t domain.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET is_active = 0, updated_at = ? WHERE token_hash = ?`,
		time.Now().UTC(), hash,
	)
	return err
}

func (r *refreshTokensRepo) RevokeActiveRefreshToken(ctx context.Context, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET is_active = 0, updated_at = ?
		WHERE token_hash = ? AND is_active = 1`,
		time.Now().UTC(), hash,
	)
	if err != nil {
		return err
	}
	return requireRowHit(res)
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET is_active = 0, updated_at = ?
		WHERE user_id = ? AND is_active = 1`,
		time.Now().UTC(), userID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
