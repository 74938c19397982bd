package service

import (
	"context"
	"testing"
	"time"

	"github.com/blogify-dev/blogify-api/config"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/blogify-dev/blogify-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOTPService(store OTPStore, now *time.Time) *OTPService {
	return NewOTPService(store, config.OTPConfig{
		Validity:       5 * time.Minute,
		ResendCooldown: 30 * time.Second,
	}).WithClock(func() time.Time { return *now })
}

func TestOTPIssueAndVerifyOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestOTPService(newFakeOTPStore(), &now)

	code, err := svc.Issue(ctx, 1, model.OTPPurposeEmailVerification)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, code, model.OTPCodeMin)
	assert.LessOrEqual(t, code, model.OTPCodeMax)

	require.NoError(t, svc.Verify(ctx, 1, model.OTPPurposeEmailVerification, code))

	// The code is consumed, replay fails
	err = svc.Verify(ctx, 1, model.OTPPurposeEmailVerification, code)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestOTPIssueInvalidPurpose(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	svc := newTestOTPService(newFakeOTPStore(), &now)

	_, err := svc.Issue(ctx, 1, "pet_name_reminder")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOTPResendCooldown(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	now := base
	svc := newTestOTPService(newFakeOTPStore(), &now)

	first, err := svc.Issue(ctx, 1, model.OTPPurposeEmailVerification)
	require.NoError(t, err)

	// Inside the cooldown, regardless of purpose
	now = base.Add(10 * time.Second)
	_, err = svc.Issue(ctx, 1, model.OTPPurposePasswordReset)
	assert.ErrorIs(t, err, apperrors.ErrOTPResendTooSoon)

	// After the cooldown a new code displaces the old one
	now = base.Add(31 * time.Second)
	second, err := svc.Issue(ctx, 1, model.OTPPurposeEmailVerification)
	require.NoError(t, err)

	if first != second {
		err = svc.Verify(ctx, 1, model.OTPPurposeEmailVerification, first)
		assert.ErrorIs(t, err, apperrors.ErrInvalidOTP, "displaced code must not verify")
	}
	require.NoError(t, svc.Verify(ctx, 1, model.OTPPurposeEmailVerification, second))
}

func TestOTPPurposeMismatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store := newFakeOTPStore()
	svc := newTestOTPService(store, &now)

	code, err := svc.Issue(ctx, 1, model.OTPPurposeEmailVerification)
	require.NoError(t, err)

	err = svc.Verify(ctx, 1, model.OTPPurposePasswordReset, code)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)

	// The mismatch does not consume the slot
	_, storeErr := store.GetByUserID(ctx, 1)
	assert.NoError(t, storeErr)
}

func TestOTPExpiry(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	now := base
	svc := newTestOTPService(newFakeOTPStore(), &now)

	code, err := svc.Issue(ctx, 1, model.OTPPurposeEmailVerification)
	require.NoError(t, err)

	// Exactly at expires_at the code is already dead
	now = base.Add(5 * time.Minute)
	err = svc.Verify(ctx, 1, model.OTPPurposeEmailVerification, code)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestOTPVerifyNoRow(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	svc := newTestOTPService(newFakeOTPStore(), &now)

	err := svc.Verify(ctx, 99, model.OTPPurposeEmailVerification, 123456)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestOTPSingleSlotDisplacement(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	now := base
	store := newFakeOTPStore()
	svc := newTestOTPService(store, &now)

	verifyCode, err := svc.Issue(ctx, 1, model.OTPPurposeEmailVerification)
	require.NoError(t, err)

	// A reset code takes over the user's single slot
	now = base.Add(time.Minute)
	_, err = svc.Issue(ctx, 1, model.OTPPurposePasswordReset)
	require.NoError(t, err)

	err = svc.Verify(ctx, 1, model.OTPPurposeEmailVerification, verifyCode)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}
