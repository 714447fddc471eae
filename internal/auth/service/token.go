package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openlearnco/campus/internal/auth/domain"
	"github.com/openlearnco/campus/internal/auth/store"
	"github.com/openlearnco/campus/pkg/cryptox"
	"github.com/openlearnco/campus/pkg/jwtx"
	"github.com/openlearnco/campus/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrMFACodeRequired    = errors.New("mfa_code_required")
	ErrInvalidOTP         = errors.New("invalid_otp")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// TokenService issues and rotates token pairs. Access tokens are never
// tracked server side; refresh tokens are revoked by jti through the
// blacklist table.
type TokenService struct {
	Signer          jwtx.Signer
	RefreshVerifier jwtx.Verifier
	Store           store.Store
	Issuer          string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
}

// Login implements the credential grant: verify the password (and TOTP
// code when the account has MFA active), then mint a fresh pair.
func (s *TokenService) Login(ctx context.Context, username, password, otpCode string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a full Argon2id verification anyway so a missing
			// username costs the same as a wrong password.
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if user.MFAActive() {
		if otpCode == "" {
			return nil, ErrMFACodeRequired
		}
		if !totp.Validate(otpCode, *user.MFASecret) {
			l.Info("login mfa code rejected", slog.Int64("user_id", user.ID))
			return nil, ErrInvalidOTP
		}
	}

	return s.mint(user.ID, time.Now())
}

// Refresh rotates an existing refresh token. The presented token is
// verified, checked against the blacklist, and then blacklisted itself so
// it cannot be replayed. A whole new pair comes back.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.RefreshVerifier.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	userID, err := claims.RequireUserID()
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidRefresh
	}

	var pair *domain.TokenPair

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		revoked, err := tx.Blacklist().IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return ErrInvalidRefresh
		}

		// The user may have been deleted since the token was issued.
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		if err := tx.Blacklist().BlacklistToken(ctx, domain.BlacklistedToken{
			JTI:       claims.ID,
			UserID:    userID,
			ExpiresAt: claims.ExpiresAt.Time,
		}); err != nil {
			return err
		}

		pair, err = s.mint(userID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Blacklist revokes a refresh token ahead of its expiry. Revoking an
// already revoked token succeeds; a token that fails verification is
// rejected the same way Refresh rejects it.
func (s *TokenService) Blacklist(ctx context.Context, refreshToken string) error {
	claims, err := s.RefreshVerifier.Verify(refreshToken)
	if err != nil {
		return ErrInvalidRefresh
	}

	userID, err := claims.RequireUserID()
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return ErrInvalidRefresh
	}

	return s.Store.Blacklist().BlacklistToken(ctx, domain.BlacklistedToken{
		JTI:       claims.ID,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func (s *TokenService) mint(userID int64, now time.Time) (*domain.TokenPair, error) {
	accessTTL := s.AccessTTL
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	refreshTTL := s.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}

	access, err := s.Signer.Sign(jwtx.NewAccessClaims(userID, accessTTL, s.Issuer, now))
	if err != nil {
		return nil, err
	}

	refresh, err := s.Signer.Sign(jwtx.NewRefreshClaims(userID, refreshTTL, s.Issuer, now))
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    accessTTL,
	}, nil
}
