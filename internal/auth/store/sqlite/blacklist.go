package sqlite

import (
	"context"
	"time"

	"github.com/openlearnco/campus/internal/auth/domain"
)

type blacklistRepo struct {
	db dbtx
}

func (r *blacklistRepo) BlacklistToken(ctx context.Context, t domain.BlacklistedToken) error {
	if t.BlacklistedAt.IsZero() {
		t.BlacklistedAt = time.Now().UTC()
	}

	// INSERT OR IGNORE keeps revocation idempotent: blacklisting the same
	// jti twice is not an error.
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO token_blacklist (jti, user_id, expires_at, blacklisted_at)
		VALUES (?, ?, ?, ?)
	`, t.JTI, t.UserID, t.ExpiresAt.UTC(), t.BlacklistedAt.UTC())
	return err
}

func (r *blacklistRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM token_blacklist WHERE jti = ?
	`, jti).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *blacklistRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM token_blacklist WHERE expires_at < ?
	`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
