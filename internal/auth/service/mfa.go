package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openlearnco/campus/internal/auth/domain"
	"github.com/openlearnco/campus/internal/auth/store"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidTOTPCode  = errors.New("invalid TOTP code")
	ErrMFANotEnrolled   = errors.New("MFA not enrolled for this user")
	ErrMFAAlreadyActive = errors.New("MFA already active for this user")
)

type MFAService struct {
	Store  store.Store
	Issuer string // account issuer shown in authenticator apps
}

// Enroll generates a TOTP secret for the user and stores it as pending.
// MFA is not enforced until the user proves possession via Activate.
func (s *MFAService) Enroll(ctx context.Context, userID int64) (domain.MFAEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFAEnrollment{}, err
	}
	if user.MFAActive() {
		return domain.MFAEnrollment{}, ErrMFAAlreadyActive
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("generate TOTP key: %w", err)
	}

	if err := s.Store.Users().SetMFASecret(ctx, userID, key.Secret()); err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("store MFA secret: %w", err)
	}

	return domain.MFAEnrollment{
		Secret:  key.Secret(),
		OTPAuth: key.URL(),
		Issuer:  s.Issuer,
		Account: user.Username,
	}, nil
}

// Activate verifies a TOTP code against the pending secret and turns MFA
// on for future logins.
func (s *MFAService) Activate(ctx context.Context, userID int64, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFASecret == nil || *user.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if user.MFAActive() {
		return ErrMFAAlreadyActive
	}

	if !totp.Validate(code, *user.MFASecret) {
		return ErrInvalidTOTPCode
	}

	return s.Store.Users().ActivateMFA(ctx, userID)
}

// Disable turns MFA off. The caller must present a currently valid code
// so a stolen session alone cannot strip the second factor.
func (s *MFAService) Disable(ctx context.Context, userID int64, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFAActive() {
		return ErrMFANotEnrolled
	}

	if !totp.Validate(code, *user.MFASecret) {
		return ErrInvalidTOTPCode
	}

	return s.Store.Users().DisableMFA(ctx, userID)
}
