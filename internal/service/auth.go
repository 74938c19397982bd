package service

import (
	"context"

	"github.com/blogify-dev/blogify-api/internal/dto"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/blogify-dev/blogify-api/internal/model"
	"github.com/blogify-dev/blogify-api/pkg/logger"
)

// AuthService orchestrates the authentication flows on top of the user, OTP
// and token services.
type AuthService struct {
	users  *UserService
	otps   *OTPService
	tokens *TokenService
}

func NewAuthService(users *UserService, otps *OTPService, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  users,
		otps:   otps,
		tokens: tokens,
	}
}

// Register creates a pending account and issues its email-verification code.
// Delivery of the code is out of band; the returned code lets non-production
// callers complete the flow without a mail channel.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, int, error) {
	user, err := s.users.CreateUser(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	code, err := s.otps.Issue(ctx, user.ID, model.OTPPurposeEmailVerification)
	if err != nil {
		return nil, 0, err
	}

	return user, code, nil
}

// VerifyEmail consumes an email-verification code and activates the pending
// account. An unknown address reports the same error as a wrong code.
func (s *AuthService) VerifyEmail(ctx context.Context, email string, code int) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return apperrors.ErrInvalidOTP
	}

	if err := s.otps.Verify(ctx, user.ID, model.OTPPurposeEmailVerification, code); err != nil {
		return err
	}

	if user.Status == model.StatusPending {
		if err := s.users.SetStatus(ctx, user.ID, model.StatusActive); err != nil {
			return err
		}
	}

	logger.InfoWithContext(ctx, "Email verified").
		Int("user_id", int(user.ID)).
		Log()

	return nil
}

// Login authenticates the credentials, rejects accounts that are not active
// and mints an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPair, error) {
	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := statusError(user.Status); err != nil {
		logger.WarnWithContext(ctx, "Login rejected by account status").
			Int("user_id", int(user.ID)).
			String("status", user.Status).
			Log()
		return nil, err
	}

	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User logged in").
		Int("user_id", int(user.ID)).
		Log()

	return &dto.TokenPair{Access: access, Refresh: refresh}, nil
}

// ForgotPassword issues a password-reset code for a known account. Unknown
// addresses are reported, matching the public contract.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (int, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return 0, err
	}

	return s.otps.Issue(ctx, user.ID, model.OTPPurposePasswordReset)
}

// ResetPassword consumes a password-reset code and replaces the password.
// Every token issued before the change becomes stale.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return apperrors.ErrInvalidOTP
	}

	if err := s.otps.Verify(ctx, user.ID, model.OTPPurposePasswordReset, req.OTPCode); err != nil {
		return err
	}

	if checkPassword(user.Password, req.NewPassword) {
		return apperrors.ErrSamePassword
	}

	if err := s.users.UpdatePassword(ctx, user.ID, req.NewPassword); err != nil {
		return err
	}

	logger.InfoWithContext(ctx, "Password reset").
		Int("user_id", int(user.ID)).
		Log()

	return nil
}

// Refresh validates a refresh token and mints a fresh access token. The
// refresh token itself is not rotated and stays valid for its full lifetime.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Validate(refreshToken, TokenClassRefresh)
	if err != nil {
		return "", err
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", apperrors.ErrUserGone
	}

	if user.PasswordChangedAfter(claims.IssuedAt.Time) {
		return "", apperrors.ErrStaleToken
	}

	return s.tokens.IssueAccess(user.ID)
}

// statusError maps a non-active account status to its rejection
func statusError(status string) error {
	switch status {
	case model.StatusActive:
		return nil
	case model.StatusPending:
		return apperrors.ErrAccountPending
	case model.StatusInactive:
		return apperrors.ErrAccountInactive
	case model.StatusSuspended:
		return apperrors.ErrAccountSuspended
	case model.StatusDeleted:
		return apperrors.ErrAccountDeleted
	default:
		return apperrors.ErrAccountInactive
	}
}
