package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwellhq/inkwell/internal/blog/store"
)

// txStore is a Store view scoped to a single *sql.Tx.
type txStore struct {
	db *sql.DB
	tx *sql.Tx
}

func newTx(db *sql.DB, tx *sql.Tx) *txStore {
	return &txStore{db: db, tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Users() store.Users                 { return &usersRepo{q: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: t.tx} }
func (t *txStore) Blogs() store.Blogs                 { return &blogsRepo{q: t.tx} }
func (t *txStore) Comments() store.Comments           { return &commentsRepo{q: t.tx} }

func (t *txStore) Ping(ctx context.Context) error { return t.db.PingContext(ctx) }
func (t *txStore) Close() error                   { return nil }

// ApplyMigrations must run on the root store, not inside a transaction.
func (t *txStore) ApplyMigrations() error {
	return errors.New("sqlite: cannot apply migrations within a transaction")
}

// Tx within Tx is not supported; sqlite has no nested transactions.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(t)
}
