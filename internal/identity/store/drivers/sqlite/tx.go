package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adoptly/adoptly/internal/identity/store"
)

// storeTx is a transaction-scoped Store. The repos it hands out run on the
// transaction, so everything done through it commits or rolls back together.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Users() store.Users                 { return &usersRepo{db: t.tx} }
func (t *storeTx) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{db: t.tx} }

func (t *storeTx) Commit() error   { return t.tx.Commit() }
func (t *storeTx) Rollback() error { return t.tx.Rollback() }

func (t *storeTx) ApplyMigrations() error {
	return errors.New("sqlite: cannot migrate inside a transaction")
}

func (t *storeTx) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *storeTx) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errors.New("sqlite: nested transactions are not supported")
}

func (t *storeTx) Close() error { return nil }

func (t *storeTx) Ping(ctx context.Context) error { return nil }
