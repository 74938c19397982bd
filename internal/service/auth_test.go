package service

import (
	"context"
	"testing"
	"time"

	"github.com/blogify-dev/blogify-api/config"
	"github.com/blogify-dev/blogify-api/internal/dto"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/blogify-dev/blogify-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	users    *fakeUserStore
	userSvc  *UserService
	otpSvc   *OTPService
	tokenSvc *TokenService
	auth     *AuthService
	now      time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		users: newFakeUserStore(),
		now:   time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	clock := func() time.Time { return f.now }

	f.userSvc = NewUserService(f.users).WithClock(clock)
	f.otpSvc = NewOTPService(newFakeOTPStore(), config.OTPConfig{
		Validity:       5 * time.Minute,
		ResendCooldown: 30 * time.Second,
	}).WithClock(clock)
	f.tokenSvc = NewTokenService(config.TokenConfig{
		AccessSecret:  "access-test-secret",
		RefreshSecret: "refresh-test-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}).WithClock(clock)
	f.auth = NewAuthService(f.userSvc, f.otpSvc, f.tokenSvc)

	return f
}

func (f *authFixture) register(t *testing.T, email string) (*model.User, int) {
	t.Helper()

	user, code, err := f.auth.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Ada",
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return user, code
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	user, code := f.register(t, "ada@example.com")
	assert.Equal(t, model.StatusPending, user.Status)

	// Login before verification fails on status
	_, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountPending)

	require.NoError(t, f.auth.VerifyEmail(ctx, "ada@example.com", code))

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, stored.Status)

	tokens, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)

	claims, err := f.tokenSvc.Validate(tokens.Access, TokenClassAccess)
	require.NoError(t, err)
	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestVerifyEmailWrongCodeLeavesPending(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	user, code := f.register(t, "ada@example.com")

	wrong := code + 1
	if wrong > model.OTPCodeMax {
		wrong = model.OTPCodeMin
	}
	err := f.auth.VerifyEmail(ctx, "ada@example.com", wrong)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestVerifyEmailUnknownAddress(t *testing.T) {
	f := newAuthFixture(t)
	err := f.auth.VerifyEmail(context.Background(), "nobody@example.com", 123456)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestLoginRejectsNonActiveStatuses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		status string
		want   *apperrors.DomainError
	}{
		{model.StatusInactive, apperrors.ErrAccountInactive},
		{model.StatusSuspended, apperrors.ErrAccountSuspended},
		{model.StatusDeleted, apperrors.ErrAccountDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			f := newAuthFixture(t)
			user, _ := f.register(t, "ada@example.com")
			require.NoError(t, f.userSvc.SetStatus(ctx, user.ID, tt.status))

			_, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestForgotResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	user, code := f.register(t, "ada@example.com")
	require.NoError(t, f.auth.VerifyEmail(ctx, "ada@example.com", code))

	// Unknown account is reported
	_, err := f.auth.ForgotPassword(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	resetCode, err := f.auth.ForgotPassword(ctx, "ada@example.com")
	require.NoError(t, err)

	// A second request inside the cooldown is throttled
	f.now = f.now.Add(10 * time.Second)
	_, err = f.auth.ForgotPassword(ctx, "ada@example.com")
	assert.ErrorIs(t, err, apperrors.ErrOTPResendTooSoon)

	// Resetting to the current password is rejected and consumes the code
	err = f.auth.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Email:       "ada@example.com",
		NewPassword: "secret123",
		OTPCode:     resetCode,
	})
	assert.ErrorIs(t, err, apperrors.ErrSamePassword)

	f.now = f.now.Add(time.Minute)
	resetCode, err = f.auth.ForgotPassword(ctx, "ada@example.com")
	require.NoError(t, err)

	require.NoError(t, f.auth.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Email:       "ada@example.com",
		NewPassword: "brand-new-secret",
		OTPCode:     resetCode,
	}))

	// The old password no longer authenticates
	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	tokens, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "brand-new-secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Access)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordChangedAt)
}

func TestRefreshMintsAccessOnly(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, code := f.register(t, "ada@example.com")
	require.NoError(t, f.auth.VerifyEmail(ctx, "ada@example.com", code))

	tokens, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	access, err := f.auth.Refresh(ctx, tokens.Refresh)
	require.NoError(t, err)

	_, err = f.tokenSvc.Validate(access, TokenClassAccess)
	assert.NoError(t, err)

	// An access token is never accepted in place of a refresh token
	_, err = f.auth.Refresh(ctx, tokens.Access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshStaleAfterPasswordChange(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	user, code := f.register(t, "ada@example.com")
	require.NoError(t, f.auth.VerifyEmail(ctx, "ada@example.com", code))

	tokens, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	// Password changes a few seconds after the token was issued
	f.now = f.now.Add(5 * time.Second)
	require.NoError(t, f.userSvc.UpdatePassword(ctx, user.ID, "brand-new-secret"))

	_, err = f.auth.Refresh(ctx, tokens.Refresh)
	assert.ErrorIs(t, err, apperrors.ErrStaleToken)
}
