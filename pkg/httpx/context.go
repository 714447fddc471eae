package httpx

import "context"

// Principal is the minimal trusted identity derived from a verified access
// token. It is constructed fresh per request, lives only in the request
// context, and owns nothing. No database is consulted to build it.
type Principal struct {
	UserID        int64
	Authenticated bool
}

type ctxKey string

const (
	ctxKeyPrincipal ctxKey = "principal"
	ctxKeyRawToken  ctxKey = "raw_token"
)

// ContextWithPrincipal attaches a verified principal and its raw credential
// to the context for downstream handlers.
func ContextWithPrincipal(ctx context.Context, p Principal, rawToken string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyPrincipal, p)
	return context.WithValue(ctx, ctxKeyRawToken, rawToken)
}

// PrincipalFromContext returns the request principal, if any. ok=false means
// the request is anonymous.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}

// RawTokenFromContext returns the bearer credential the principal was built
// from, for handlers that forward the caller's identity to another service.
// Nothing in-tree proxies tokens today; it is part of the shared middleware
// surface so downstream callers never re-parse the Authorization header.
func RawTokenFromContext(ctx context.Context) string {
	raw, _ := ctx.Value(ctxKeyRawToken).(string)
	return raw
}
