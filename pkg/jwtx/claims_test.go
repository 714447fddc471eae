package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/openlearnco/campus/pkg/jwtx"
)

func TestNewAccessClaims(t *testing.T) {
	now := time.Now()
	c := jwtx.NewAccessClaims(7, 15*time.Minute, "campus-auth", now)

	require.Equal(t, jwtx.TokenTypeAccess, c.TokenType)
	require.Equal(t, "campus-auth", c.Issuer)
	require.NotNil(t, c.UserID)
	require.Equal(t, int64(7), *c.UserID)
	require.NotEmpty(t, c.ID)
	require.Equal(t, now.Add(15*time.Minute).Unix(), c.ExpiresAt.Unix())
}

func TestRefreshAndAccessHaveDistinctJTIs(t *testing.T) {
	now := time.Now()
	access := jwtx.NewAccessClaims(7, time.Minute, "", now)
	refresh := jwtx.NewRefreshClaims(7, time.Hour, "", now)

	require.Equal(t, jwtx.TokenTypeRefresh, refresh.TokenType)
	require.NotEqual(t, access.ID, refresh.ID)
}

func TestValidateTokenType(t *testing.T) {
	c := &jwtx.Claims{TokenType: jwtx.TokenTypeAccess}

	t.Run("matching type", func(t *testing.T) {
		require.NoError(t, c.ValidateTokenType(jwtx.TokenTypeAccess))
	})

	t.Run("mismatched type", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateTokenType(jwtx.TokenTypeRefresh), jwtx.ErrTokenType)
	})

	t.Run("untyped token rejected", func(t *testing.T) {
		empty := &jwtx.Claims{}
		require.ErrorIs(t, empty.ValidateTokenType(jwtx.TokenTypeAccess), jwtx.ErrTokenType)
	})

	t.Run("nothing expected", func(t *testing.T) {
		require.NoError(t, c.ValidateTokenType(""))
	})
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "campus-auth"},
	}

	require.NoError(t, c.ValidateIssuer("campus-auth"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("resource-manager"), jwtx.ErrIssuer)
}

func TestRequireUserID(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		id := int64(42)
		c := &jwtx.Claims{UserID: &id}
		got, err := c.RequireUserID()
		require.NoError(t, err)
		require.Equal(t, int64(42), got)
	})

	t.Run("zero is a valid id", func(t *testing.T) {
		id := int64(0)
		c := &jwtx.Claims{UserID: &id}
		got, err := c.RequireUserID()
		require.NoError(t, err)
		require.Equal(t, int64(0), got)
	})

	t.Run("absent", func(t *testing.T) {
		c := &jwtx.Claims{}
		_, err := c.RequireUserID()
		require.ErrorIs(t, err, jwtx.ErrMissingSubject)
	})
}
