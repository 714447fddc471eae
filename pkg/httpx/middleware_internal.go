package httpx

import (
	"crypto/subtle"
	"net/http"

	"github.com/openlearnco/campus/pkg/slogx"
)

// InternalSecretHeader carries the static shared value that marks a caller
// as one of our own services. This is a binary trust boundary with no
// per-user identity; endpoints use either this or bearer auth, never both.
const InternalSecretHeader = "X-Internal-Secret"

// RequireInternalSecret guards service-to-service endpoints. The presented
// header must match the configured value byte-for-byte; anything else is a
// 403 and gets logged, since a mismatch means misconfiguration or spoofing.
func RequireInternalSecret(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			if secret == "" {
				// Refuse everything rather than fail open.
				log.Error("internal secret not configured, rejecting internal call",
					"path", r.URL.Path)
				WriteError(w, http.StatusForbidden, "forbidden", "internal access not configured")
				return
			}

			got := r.Header.Get(InternalSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				log.Warn("internal secret mismatch",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"header_present", got != "",
				)
				WriteError(w, http.StatusForbidden, "forbidden", "invalid internal secret")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
