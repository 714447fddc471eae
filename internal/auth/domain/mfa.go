package domain

// MFAEnrollment is returned when a user starts TOTP enrollment. OTPAuth is
// the otpauth:// provisioning URL that authenticator apps consume.
type MFAEnrollment struct {
	Secret  string `json:"secret"`
	OTPAuth string `json:"otpauth_url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}
