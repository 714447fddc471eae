package store

import (
	"context"
	"errors"

	"github.com/openlearnco/campus/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the auth service's root data access interface. Concrete drivers
// (sqlite today) implement it. Sub-repositories keep concerns tidy and make
// transaction scoping explicit.
type Store interface {
	Users() Users
	Blacklist() Blacklist

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST Commit or Rollback the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when it returns nil
	// and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store with Commit/Rollback added.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user and returns the generated id.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is used during the credential grant.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// SetMFASecret stores a pending TOTP secret for a user.
	SetMFASecret(ctx context.Context, userID int64, secret string) error

	// ActivateMFA marks MFA as required for future logins.
	ActivateMFA(ctx context.Context, userID int64) error

	// DisableMFA clears both the secret and the activation timestamp.
	DisableMFA(ctx context.Context, userID int64) error
}

type Blacklist interface {
	// BlacklistToken records a refresh token jti as unusable.
	BlacklistToken(ctx context.Context, t domain.BlacklistedToken) error

	// IsBlacklisted reports whether the jti has been revoked.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// DeleteExpired purges rows whose token would have expired anyway.
	DeleteExpired(ctx context.Context) (int64, error)
}
