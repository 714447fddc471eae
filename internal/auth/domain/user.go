package domain

import "time"

// User is an account row in the auth service's own database. No other
// service ever sees this type; they only ever see the user id inside a
// token.
type User struct {
	ID           int64
	Username     string
	PasswordHash string     // argon2id encoded
	MFASecret    *string    // TOTP secret, set at enrollment (nullable)
	MFAEnabled   *time.Time // when MFA was activated (nullable)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MFAActive reports whether login requires a TOTP code. An enrolled-but-not
// activated secret does not count.
func (u User) MFAActive() bool {
	return u.MFAEnabled != nil && u.MFASecret != nil && *u.MFASecret != ""
}
