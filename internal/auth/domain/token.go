package domain

import "time"

// TokenPair is what the token endpoints return: a short-lived access JWT
// and a longer-lived refresh JWT.
type TokenPair struct {
	AccessToken  string        `json:"access"`
	RefreshToken string        `json:"refresh"`
	TokenType    string        `json:"token_type,omitempty"` // "Bearer"
	ExpiresIn    time.Duration `json:"-"`                    // access token lifetime
}

// BlacklistedToken records a refresh token jti that must no longer be
// redeemed. Rows are kept until the token would have expired anyway, then
// purged by housekeeping.
type BlacklistedToken struct {
	JTI           string
	UserID        int64
	ExpiresAt     time.Time
	BlacklistedAt time.Time
}
