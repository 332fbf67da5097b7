package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/adoptly/adoptly/internal/identity/domain"
	"github.com/adoptly/adoptly/internal/identity/store"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, user_type, phone_number, created_at, updated_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.UserType, mapOptionalString(u.PhoneNumber),
		u.CreatedAt.UTC(), u.UpdatedAt.UTC(), mapOptionalTime(u.LastLoginAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, user_type, phone_number, created_at, updated_at, last_login_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, user_type, phone_number, created_at, updated_at, last_login_at
		FROM users WHERE email = ? COLLATE NOCASE`, email)
	return scanUser(row)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowHit(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRowHit(res)
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		phone     sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.UserType, &phone, &u.CreatedAt, &u.UpdatedAt, &lastLogin)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.PhoneNumber = mapNullStringPtr(phone)
	u.LastLoginAt = mapNullTimePtr(lastLogin)
	return u, nil
}

func requireRowHit(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
