package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a compact JWT and returns its claims if it's legit.
// Verification is pure and stateless: no I/O, no shared mutable state, safe
// from any number of concurrent requests.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Verification failure reasons. Callers branch on these with errors.Is; the
// distinction between expired and otherwise-invalid matters to clients that
// want to redirect into a refresh flow.
var (
	ErrMalformed      = errors.New("jwtx: malformed token")
	ErrInvalidSig     = errors.New("jwtx: invalid signature")
	ErrExpired        = errors.New("jwtx: token expired")
	ErrNotYetValid    = errors.New("jwtx: token not yet valid")
	ErrIssuer         = errors.New("jwtx: issuer mismatch")
	ErrTokenType      = errors.New("jwtx: wrong token type")
	ErrMissingSubject = errors.New("jwtx: token missing identity claim")
)

// VerifyOptions captures what a verifier expects beyond a valid signature.
type VerifyOptions struct {
	// TokenType the token must declare (access or refresh). Empty means
	// "don't care" — nobody should want that outside of tests.
	TokenType string

	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Leeway allows small clock skew when validating exp/nbf/iat.
	Leeway time.Duration
}

// HS256Verifier validates JWTs signed with the shared symmetric secret.
type HS256Verifier struct {
	secret []byte
	opts   VerifyOptions
}

// NewVerifierHS256 creates a verifier bound to the shared secret. The secret
// is injected once at construction; nothing reads environment state per
// request.
func NewVerifierHS256(secret []byte, opts VerifyOptions) *HS256Verifier {
	return &HS256Verifier{secret: secret, opts: opts}
}

// Verify validates signature, expiry, issuer, token type, and the identity
// claim, in that order. Each failure mode maps to a distinct sentinel error.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.opts.Leeway),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateTokenType(v.opts.TokenType); err != nil {
		return Claims{}, err
	}
	if _, err := claims.RequireUserID(); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

// mapParseError collapses golang-jwt's error tree into our sentinel set so
// callers never depend on the library's error types (or leak them to clients).
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// Wrong alg header (e.g. "none" or an asymmetric method).
		return ErrInvalidSig
	default:
		return ErrMalformed
	}
}
