package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestMFALifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	users := &UserService{Store: st}
	mfa := &MFAService{Store: st, Issuer: "campus-auth"}

	user, err := users.Register(ctx, "alice", "correct-horse-battery")
	require.NoError(t, err)

	t.Run("enroll produces a provisioning URL", func(t *testing.T) {
		enrollment, err := mfa.Enroll(ctx, user.ID)
		require.NoError(t, err)
		require.NotEmpty(t, enrollment.Secret)
		require.True(t, strings.HasPrefix(enrollment.OTPAuth, "otpauth://totp/"))
		require.Contains(t, enrollment.OTPAuth, "alice")
	})

	t.Run("enrollment alone does not enforce MFA", func(t *testing.T) {
		fetched, err := users.Get(ctx, user.ID)
		require.NoError(t, err)
		require.False(t, fetched.MFAActive())
	})

	t.Run("activation requires a valid code", func(t *testing.T) {
		require.ErrorIs(t, mfa.Activate(ctx, user.ID, "000000"), ErrInvalidTOTPCode)

		fetched, err := users.Get(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched.MFASecret)

		code, err := totp.GenerateCode(*fetched.MFASecret, time.Now())
		require.NoError(t, err)
		require.NoError(t, mfa.Activate(ctx, user.ID, code))

		fetched, err = users.Get(ctx, user.ID)
		require.NoError(t, err)
		require.True(t, fetched.MFAActive())
	})

	t.Run("re-enrollment while active is refused", func(t *testing.T) {
		_, err := mfa.Enroll(ctx, user.ID)
		require.ErrorIs(t, err, ErrMFAAlreadyActive)
	})

	t.Run("disable requires a valid code", func(t *testing.T) {
		require.ErrorIs(t, mfa.Disable(ctx, user.ID, "000000"), ErrInvalidTOTPCode)

		fetched, err := users.Get(ctx, user.ID)
		require.NoError(t, err)

		code, err := totp.GenerateCode(*fetched.MFASecret, time.Now())
		require.NoError(t, err)
		require.NoError(t, mfa.Disable(ctx, user.ID, code))

		fetched, err = users.Get(ctx, user.ID)
		require.NoError(t, err)
		require.False(t, fetched.MFAActive())
		require.Nil(t, fetched.MFASecret)
	})

	t.Run("disable without enrollment is refused", func(t *testing.T) {
		require.ErrorIs(t, mfa.Disable(ctx, user.ID, "000000"), ErrMFANotEnrolled)
	})
}
