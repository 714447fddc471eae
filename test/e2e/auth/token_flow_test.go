package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints verifies the probes respond before any account exists.
func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	resp := doRequest(t, http.MethodGet, baseURL+"/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "ok", resp.Body["status"])

	resp = doRequest(t, http.MethodGet, baseURL+"/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "ok", resp.Body["status"])
}

// TestTokenLifecycle walks the whole credential flow: register, login, use
// the access token, rotate the refresh token, and revoke it.
func TestTokenLifecycle(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	userID := registerUser(t, baseURL)
	access, refresh := login(t, baseURL)

	t.Run("access token reaches the profile", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, baseURL+"/v1/users/me", access, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		require.EqualValues(t, userID, resp.Body["id"].(float64))
		require.Equal(t, testUsername, resp.Body["username"])
	})

	t.Run("no token is rejected", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, baseURL+"/v1/users/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, baseURL+"/v1/token", "", map[string]string{
			"username": testUsername,
			"password": "definitely-wrong",
		})
		require.Equal(t, http.StatusUnauthorized, resp.Status)
		require.Equal(t, "invalid_credentials", resp.Body["error"])
	})

	var rotatedRefresh string

	t.Run("refresh rotates the pair and burns the old token", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, baseURL+"/v1/token/refresh", "", map[string]string{
			"refresh": refresh,
		})
		require.Equal(t, http.StatusOK, resp.Status)
		rotatedRefresh = resp.Body["refresh"].(string)
		require.NotEqual(t, refresh, rotatedRefresh)

		resp = doRequest(t, http.MethodPost, baseURL+"/v1/token/refresh", "", map[string]string{
			"refresh": refresh,
		})
		require.Equal(t, http.StatusUnauthorized, resp.Status)
		require.Equal(t, "invalid_refresh_token", resp.Body["error"])
	})

	t.Run("blacklist kills the rotated token", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, baseURL+"/v1/token/blacklist", "", map[string]string{
			"refresh": rotatedRefresh,
		})
		require.Equal(t, http.StatusNoContent, resp.Status)

		resp = doRequest(t, http.MethodPost, baseURL+"/v1/token/refresh", "", map[string]string{
			"refresh": rotatedRefresh,
		})
		require.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("access token is not accepted as a refresh token", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, baseURL+"/v1/token/refresh", "", map[string]string{
			"refresh": access,
		})
		require.Equal(t, http.StatusUnauthorized, resp.Status)
	})
}

// TestDuplicateRegistration verifies the username uniqueness contract over
// the wire.
func TestDuplicateRegistration(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	registerUser(t, baseURL)

	resp := doRequest(t, http.MethodPost, baseURL+"/v1/users", "", map[string]string{
		"username": testUsername,
		"password": "some-other-password",
	})
	require.Equal(t, http.StatusConflict, resp.Status)
	require.Equal(t, "username_taken", resp.Body["error"])
}
