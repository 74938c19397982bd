package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/blogify-dev/blogify-api/config"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/blogify-dev/blogify-api/internal/model"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"gorm.io/gorm"
)

// OTPStore is the persistence surface the OTP service needs. Satisfied by
// repository.OTPRepository; tests provide an in-memory fake.
type OTPStore interface {
	GetByUserID(ctx context.Context, userID uint) (*model.OTP, error)
	Upsert(ctx context.Context, otp *model.OTP) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

// OTPService issues and verifies one-time codes. A user holds at most one
// live code; issuing a new one displaces whatever was pending.
type OTPService struct {
	store    OTPStore
	validity time.Duration
	cooldown time.Duration
	now      func() time.Time
}

func NewOTPService(store OTPStore, cfg config.OTPConfig) *OTPService {
	return &OTPService{
		store:    store,
		validity: cfg.Validity,
		cooldown: cfg.ResendCooldown,
		now:      time.Now,
	}
}

// WithClock replaces the service clock; intended for tests
func (s *OTPService) WithClock(now func() time.Time) *OTPService {
	s.now = now
	return s
}

// Issue generates a fresh 6-digit code for the user and purpose and writes it
// into the user's single OTP slot. Issuing again within the resend cooldown
// fails, regardless of purpose.
func (s *OTPService) Issue(ctx context.Context, userID uint, purpose string) (int, error) {
	if !model.IsValidOTPPurpose(purpose) {
		return 0, apperrors.NewValidationError("invalid OTP purpose")
	}

	now := s.now()

	existing, err := s.store.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil && now.Sub(existing.IssuedAt) < s.cooldown {
		logger.WarnWithContext(ctx, "OTP resend inside cooldown").
			Int("user_id", int(userID)).
			String("purpose", purpose).
			Log()
		return 0, apperrors.ErrOTPResendTooSoon
	}

	code, err := randomOTPCode()
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	otp := &model.OTP{
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.validity),
	}

	if err := s.store.Upsert(ctx, otp); err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "OTP issued").
		Int("user_id", int(userID)).
		String("purpose", purpose).
		Log()

	return code, nil
}

// Verify checks the submitted code against the user's live slot. Absence,
// purpose mismatch, code mismatch and expiry all report the same error so a
// caller learns nothing about which check failed. A verified code is consumed
// and cannot be replayed.
func (s *OTPService) Verify(ctx context.Context, userID uint, purpose string, code int) error {
	otp, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidOTP
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := s.now()
	if otp.Purpose != purpose || otp.Code != code || !now.Before(otp.ExpiresAt) {
		logger.WarnWithContext(ctx, "OTP verification failed").
			Int("user_id", int(userID)).
			String("purpose", purpose).
			Log()
		return apperrors.ErrInvalidOTP
	}

	if err := s.store.DeleteByUserID(ctx, userID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "OTP verified").
		Int("user_id", int(userID)).
		String("purpose", purpose).
		Log()

	return nil
}

// randomOTPCode draws a uniform 6-digit code from crypto/rand
func randomOTPCode() (int, error) {
	span := big.NewInt(int64(model.OTPCodeMax - model.OTPCodeMin + 1))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, err
	}
	return model.OTPCodeMin + int(n.Int64()), nil
}
