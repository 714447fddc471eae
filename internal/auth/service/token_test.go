package service

import (
	"context"
	"testing"
	"time"

	"github.com/openlearnco/campus/internal/auth/store"
	"github.com/openlearnco/campus/pkg/jwtx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-signing-secret"
	testIssuer = "campus-auth"
)

func newTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)

	return &TokenService{
		Signer: signer,
		RefreshVerifier: jwtx.NewVerifierHS256([]byte(testSecret), jwtx.VerifyOptions{
			TokenType: jwtx.TokenTypeRefresh,
			Issuer:    testIssuer,
		}),
		Store:      st,
		Issuer:     testIssuer,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := &UserService{Store: st}
	tokens := newTokenService(t, st)

	_, err := users.Register(ctx, "alice", "correct-horse-battery")
	require.NoError(t, err)

	t.Run("valid credentials mint a pair", func(t *testing.T) {
		pair, err := tokens.Login(ctx, "alice", "correct-horse-battery", "")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.Equal(t, "Bearer", pair.TokenType)

		verifier := jwtx.NewVerifierHS256([]byte(testSecret), jwtx.VerifyOptions{
			TokenType: jwtx.TokenTypeAccess,
			Issuer:    testIssuer,
		})
		claims, err := verifier.Verify(pair.AccessToken)
		require.NoError(t, err)

		id, err := claims.RequireUserID()
		require.NoError(t, err)
		require.Positive(t, id)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := tokens.Login(ctx, "alice", "wrong", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username rejected the same way", func(t *testing.T) {
		_, err := tokens.Login(ctx, "nobody", "whatever", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginWithMFA(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := &UserService{Store: st}
	tokens := newTokenService(t, st)
	mfa := &MFAService{Store: st, Issuer: testIssuer}

	user, err := users.Register(ctx, "bob", "correct-horse-battery")
	require.NoError(t, err)

	enrollment, err := mfa.Enroll(ctx, user.ID)
	require.NoError(t, err)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, mfa.Activate(ctx, user.ID, code))

	t.Run("missing code is flagged, not just rejected", func(t *testing.T) {
		_, err := tokens.Login(ctx, "bob", "correct-horse-battery", "")
		require.ErrorIs(t, err, ErrMFACodeRequired)
	})

	t.Run("bad code rejected", func(t *testing.T) {
		_, err := tokens.Login(ctx, "bob", "correct-horse-battery", "000000")
		require.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("valid code succeeds", func(t *testing.T) {
		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)

		pair, err := tokens.Login(ctx, "bob", "correct-horse-battery", code)
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
	})

	t.Run("password still has to be right", func(t *testing.T) {
		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)

		_, err = tokens.Login(ctx, "bob", "wrong", code)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := &UserService{Store: st}
	tokens := newTokenService(t, st)

	_, err := users.Register(ctx, "carol", "correct-horse-battery")
	require.NoError(t, err)

	pair, err := tokens.Login(ctx, "carol", "correct-horse-battery", "")
	require.NoError(t, err)

	rotated, err := tokens.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	t.Run("spent refresh token cannot be replayed", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("rotated token still works", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, rotated.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, rotated.AccessToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, "not.a.token")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := &UserService{Store: st}
	tokens := newTokenService(t, st)

	_, err := users.Register(ctx, "dave", "correct-horse-battery")
	require.NoError(t, err)

	pair, err := tokens.Login(ctx, "dave", "correct-horse-battery", "")
	require.NoError(t, err)

	require.NoError(t, tokens.Blacklist(ctx, pair.RefreshToken))

	t.Run("revoked refresh token is dead", func(t *testing.T) {
		_, err := tokens.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("revoking twice is fine", func(t *testing.T) {
		require.NoError(t, tokens.Blacklist(ctx, pair.RefreshToken))
	})

	t.Run("access token cannot be revoked here", func(t *testing.T) {
		require.ErrorIs(t, tokens.Blacklist(ctx, pair.AccessToken), ErrInvalidRefresh)
	})
}

func TestHousekeepingPurgesExpiredRows(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := &UserService{Store: st}

	user, err := users.Register(ctx, "erin", "correct-horse-battery")
	require.NoError(t, err)

	require.NoError(t, st.Blacklist().BlacklistToken(ctx, blacklistRow(user.ID, "jti-old", time.Now().Add(-time.Hour))))
	require.NoError(t, st.Blacklist().BlacklistToken(ctx, blacklistRow(user.ID, "jti-live", time.Now().Add(time.Hour))))

	n, err := st.Blacklist().DeleteExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	revoked, err := st.Blacklist().IsBlacklisted(ctx, "jti-live")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = st.Blacklist().IsBlacklisted(ctx, "jti-old")
	require.NoError(t, err)
	require.False(t, revoked)
}
