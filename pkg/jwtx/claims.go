// Package jwtx is the shared token library for the platform. The auth
// service signs with it and every resource-owning service verifies with it,
// using the same symmetric secret, so there is exactly one claim schema and
// one set of validation rules across the fleet.
package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openlearnco/campus/pkg/idx"
)

// Token type discriminators. Verifiers only ever accept access tokens;
// refresh tokens are redeemable at the issuer alone.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Default token lifetimes. Access tokens are kept short because verifiers
// hold no revocation state and a blacklisted session stays valid elsewhere
// until the access token expires naturally.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the closed payload schema carried by every platform token.
// Required fields are explicit struct members so that parsing fails loudly
// on shape drift instead of silently tolerating a missing identity claim.
type Claims struct {
	jwt.RegisteredClaims

	// UserID identifies the authenticated user. Kept as a pointer so a
	// token missing the claim is distinguishable from user id 0.
	UserID *int64 `json:"user_id,omitempty"`

	// TokenType discriminates access from refresh tokens.
	TokenType string `json:"token_type,omitempty"`

	// Extra carries optional string extension claims. Anything a service
	// needs beyond the closed schema goes here, typed, not free-form.
	Extra map[string]string `json:"extra,omitempty"`
}

// NewAccessClaims builds minimally-correct access token claims. The jti is a
// fresh ULID so the issuer can track and blacklist individual tokens.
func NewAccessClaims(userID int64, ttl time.Duration, issuer string, now time.Time) Claims {
	return newClaims(userID, TokenTypeAccess, ttl, issuer, now)
}

// NewRefreshClaims builds refresh token claims.
func NewRefreshClaims(userID int64, ttl time.Duration, issuer string, now time.Time) Claims {
	return newClaims(userID, TokenTypeRefresh, ttl, issuer, now)
}

func newClaims(userID int64, tokenType string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		UserID:    &userID,
		TokenType: tokenType,
	}
}

// ValidateIssuer checks the issuer when one is expected. Empty means
// "don't care".
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateTokenType enforces the access/refresh discriminator. A token with
// no type at all also fails: it was issued against a different schema.
func (c *Claims) ValidateTokenType(expected string) error {
	if expected == "" {
		return nil
	}
	if c.TokenType != expected {
		return ErrTokenType
	}
	return nil
}

// RequireUserID returns the identity claim or fails when it is absent. A
// well-signed token without user_id must never produce a principal.
func (c *Claims) RequireUserID() (int64, error) {
	if c.UserID == nil {
		return 0, ErrMissingSubject
	}
	return *c.UserID, nil
}
