package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openlearnco/campus/pkg/httpx"
	"github.com/openlearnco/campus/pkg/jwtx"
)

const testSecret = "shared-secret"

func newAuthenticator() httpx.Authenticator {
	return httpx.Authenticator{
		Verifier: jwtx.NewVerifierHS256([]byte(testSecret), jwtx.VerifyOptions{
			TokenType: jwtx.TokenTypeAccess,
		}),
	}
}

func signAccessToken(t *testing.T, secret string, userID int64, ttl time.Duration) string {
	t.Helper()
	signer, err := jwtx.NewSignerHS256([]byte(secret))
	require.NoError(t, err)
	token, err := signer.Sign(jwtx.NewAccessClaims(userID, ttl, "", time.Now()))
	require.NoError(t, err)
	return token
}

// echoPrincipal records what the wrapped handler observed.
type echoPrincipal struct {
	called    bool
	principal *httpx.Principal
}

func (e *echoPrincipal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.called = true
	if p, ok := httpx.PrincipalFromContext(r.Context()); ok {
		e.principal = &p
	}
	w.WriteHeader(http.StatusNoContent)
}

func doRequest(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	t.Run("valid token populates principal", func(t *testing.T) {
		inner := &echoPrincipal{}
		handler := httpx.Chain(inner, httpx.RequireAuth(newAuthenticator()))

		rec := doRequest(handler, "Bearer "+signAccessToken(t, testSecret, 42, time.Hour))

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, inner.called)
		require.NotNil(t, inner.principal)
		require.Equal(t, int64(42), inner.principal.UserID)
		require.True(t, inner.principal.Authenticated)
	})

	t.Run("missing header is 401", func(t *testing.T) {
		inner := &echoPrincipal{}
		handler := httpx.Chain(inner, httpx.RequireAuth(newAuthenticator()))

		rec := doRequest(handler, "")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
		require.False(t, inner.called)
	})

	t.Run("wrong scheme is 401", func(t *testing.T) {
		inner := &echoPrincipal{}
		handler := httpx.Chain(inner, httpx.RequireAuth(newAuthenticator()))

		rec := doRequest(handler, "Basic dXNlcjpwYXNz")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, inner.called)
	})

	t.Run("malformed header is 401", func(t *testing.T) {
		inner := &echoPrincipal{}
		handler := httpx.Chain(inner, httpx.RequireAuth(newAuthenticator()))

		rec := doRequest(handler, "Bearer a b")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid authorization header")
		require.False(t, inner.called)
	})

	t.Run("wrong secret is 401", func(t *testing.T) {
		inner := &echoPrincipal{}
		handler := httpx.Chain(inner, httpx.RequireAuth(newAuthenticator()))

		rec := doRequest(handler, "Bearer "+signAccessToken(t, "other-secret", 42, time.Hour))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, inner.called)
	})

	t.Run("expired token names the reason", func(t *testing.T) {
		inner := &echoPrincipal{}
		handler := httpx.Chain(inner, httpx.RequireAuth(newAuthenticator()))

		rec := doRequest(handler, "Bearer "+signAccessToken(t, testSecret, 42, -time.Hour))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "token expired")
		require.False(t, inner.called)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	t.Run("anonymous passes through", func(t *testing.T) {
		inner := &echoPrincipal{}
		handler := httpx.Chain(inner, httpx.OptionalAuth(newAuthenticator()))

		rec := doRequest(handler, "")

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, inner.called)
		require.Nil(t, inner.principal)
	})

	t.Run("valid token still authenticates", func(t *testing.T) {
		inner := &echoPrincipal{}
		handler := httpx.Chain(inner, httpx.OptionalAuth(newAuthenticator()))

		rec := doRequest(handler, "Bearer "+signAccessToken(t, testSecret, 7, time.Hour))

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, inner.principal)
		require.Equal(t, int64(7), inner.principal.UserID)
	})

	t.Run("invalid token is rejected, not anonymous", func(t *testing.T) {
		inner := &echoPrincipal{}
		handler := httpx.Chain(inner, httpx.OptionalAuth(newAuthenticator()))

		rec := doRequest(handler, "Bearer "+signAccessToken(t, "other-secret", 7, time.Hour))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, inner.called)
	})
}

func TestRawTokenFromContext(t *testing.T) {
	t.Parallel()

	token := signAccessToken(t, testSecret, 42, time.Hour)

	var captured string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = httpx.RawTokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := httpx.Chain(inner, httpx.RequireAuth(newAuthenticator()))

	rec := doRequest(handler, "Bearer "+token)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, token, captured)

	// An anonymous context carries no credential.
	require.Empty(t, httpx.RawTokenFromContext(context.Background()))
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	refresh, err := signer.Sign(jwtx.NewRefreshClaims(42, time.Hour, "", time.Now()))
	require.NoError(t, err)

	inner := &echoPrincipal{}
	handler := httpx.Chain(inner, httpx.RequireAuth(newAuthenticator()))

	rec := doRequest(handler, "Bearer "+refresh)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, inner.called)
}
