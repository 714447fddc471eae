package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openlearnco/campus/pkg/httpx"
)

func internalRequest(handler http.Handler, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/internal/v1/thing", nil)
	if secret != "" {
		req.Header.Set(httpx.InternalSecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireInternalSecret(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := httpx.Chain(ok, httpx.RequireInternalSecret("svc-secret-123"))

	t.Run("exact value passes", func(t *testing.T) {
		require.Equal(t, http.StatusOK, internalRequest(handler, "svc-secret-123").Code)
	})

	t.Run("absent header rejected", func(t *testing.T) {
		require.Equal(t, http.StatusForbidden, internalRequest(handler, "").Code)
	})

	t.Run("case-different value rejected", func(t *testing.T) {
		require.Equal(t, http.StatusForbidden, internalRequest(handler, "SVC-SECRET-123").Code)
	})

	t.Run("truncated value rejected", func(t *testing.T) {
		require.Equal(t, http.StatusForbidden, internalRequest(handler, "svc-secret-12").Code)
	})

	t.Run("unconfigured secret fails closed", func(t *testing.T) {
		unconfigured := httpx.Chain(ok, httpx.RequireInternalSecret(""))
		require.Equal(t, http.StatusForbidden, internalRequest(unconfigured, "anything").Code)
	})
}
