package store

import (
	"context"
	"errors"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Blogs() Blogs
	Comments() Comments

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error, the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step operations that must be atomic
	// (e.g. refresh-token rotation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email or username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes the user row. Blogs, comments and refresh tokens
	// cascade per schema.
	DeleteUser(ctx context.Context, userID string) (int64, error)
}

// RefreshTokens is the sole source of truth for refresh-token liveness.
// The codec's signature check proves a token is authentic, this repository
// proves it has not been revoked. Both checks must pass.
type RefreshTokens interface {
	// CreateRefreshToken stores a new token record. Returns ErrAlreadyExists
	// if the fingerprint is already present; collisions are cryptographically
	// negligible but must surface, not be swallowed.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// RefreshTokenExists reports whether a record for the fingerprint is
	// still live. Used as the revocation gate before cryptographic
	// verification.
	RefreshTokenExists(ctx context.Context, tokenHash string) (bool, error)

	// DeleteRefreshToken revokes a single token. Idempotent: deleting an
	// absent token is not an error and reports zero rows.
	DeleteRefreshToken(ctx context.Context, tokenHash string) (int64, error)

	// DeleteUserRefreshTokens revokes every session for a subject
	// (account deletion, password change).
	DeleteUserRefreshTokens(ctx context.Context, userID string) (int64, error)

	// DeleteExpiredRefreshTokens is housekeeping; records past their own
	// expiry can never be exchanged again.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type Blogs interface {
	CreateBlog(ctx context.Context, b domain.Blog) error
	GetBlogByID(ctx context.Context, id string) (domain.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (domain.Blog, error)

	// ListBlogs returns blogs newest-first. When publishedOnly is set,
	// drafts are filtered out.
	ListBlogs(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Blog, error)
	ListBlogsByAuthor(ctx context.Context, authorID string, publishedOnly bool, limit, offset int) ([]domain.Blog, error)

	UpdateBlog(ctx context.Context, b domain.Blog) error
	DeleteBlog(ctx context.Context, id string) (int64, error)

	// IncrementBlogViews bumps the view counter.
	IncrementBlogViews(ctx context.Context, id string) error

	// AdjustBlogComments changes comments_count by delta (use within the
	// same transaction as the comment write).
	AdjustBlogComments(ctx context.Context, id string, delta int64) error
}

type Comments interface {
	CreateComment(ctx context.Context, c domain.Comment) error
	GetCommentByID(ctx context.Context, id string) (domain.Comment, error)
	ListCommentsByBlog(ctx context.Context, blogID string) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, id string) (int64, error)
}
