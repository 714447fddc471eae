package httpx

import (
	"errors"
	"strings"
)

// Defaults for bearer credential extraction. Configurable per service but
// identical across the platform in practice.
const (
	DefaultAuthHeader   = "Authorization"
	DefaultBearerScheme = "Bearer"
)

// ErrMalformedHeader reports an authorization header that names our scheme
// but does not split into exactly two parts. Distinct from both "no
// credentials" and "invalid token".
var ErrMalformedHeader = errors.New("httpx: malformed authorization header")

// ExtractBearer pulls the credential out of an Authorization header value.
//
// Absent header or a foreign scheme (e.g. "Basic xyz") is not an error: it
// returns ok=false so anonymous-permitted endpoints can proceed. A header
// that names our scheme but has the wrong shape ("Bearer" alone, "Bearer a
// b") is ErrMalformedHeader.
func ExtractBearer(header, scheme string) (cred string, ok bool, err error) {
	if scheme == "" {
		scheme = DefaultBearerScheme
	}

	parts := strings.Fields(header)
	if len(parts) == 0 {
		return "", false, nil
	}
	if !strings.EqualFold(parts[0], scheme) {
		return "", false, nil
	}
	if len(parts) != 2 {
		return "", false, ErrMalformedHeader
	}

	return parts[1], true, nil
}
