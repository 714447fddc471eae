package sqlite

import (
	"context"
	"time"

	"github.com/openlearnco/campus/internal/auth/domain"
	"github.com/openlearnco/campus/internal/auth/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, password_hash, mfa_secret, mfa_enabled, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.MFASecret,
		&u.MFAEnabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, u.Username, u.PasswordHash, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrAlreadyExists
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ?
	`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = ?
	`, username)
	return scanUser(row)
}

func (r *usersRepo) SetMFASecret(ctx context.Context, userID int64, secret string) error {
	return r.exec(ctx, `
		UPDATE users
		SET mfa_secret = ?, mfa_enabled = NULL, updated_at = ?
		WHERE id = ?
	`, secret, time.Now().UTC(), userID)
}

func (r *usersRepo) ActivateMFA(ctx context.Context, userID int64) error {
	now := time.Now().UTC()
	return r.exec(ctx, `
		UPDATE users
		SET mfa_enabled = ?, updated_at = ?
		WHERE id = ? AND mfa_secret IS NOT NULL
	`, now, now, userID)
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID int64) error {
	return r.exec(ctx, `
		UPDATE users
		SET mfa_secret = NULL, mfa_enabled = NULL, updated_at = ?
		WHERE id = ?
	`, time.Now().UTC(), userID)
}

// exec runs an UPDATE that must touch exactly one row, mapping a zero
// row count to ErrNotFound.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
