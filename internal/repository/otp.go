package repository

import (
	"context"
	"time"

	"github.com/blogify-dev/blogify-api/internal/model"
	ctxutil "github.com/blogify-dev/blogify-api/pkg/context"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// GetByUserID returns the user's single live OTP row, if any
func (r *OTPRepository) GetByUserID(ctx context.Context, userID uint) (*model.OTP, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByUserID")

	var otp model.OTP
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&otp)
	if result.Error != nil {
		return nil, result.Error
	}

	return &otp, nil
}

// Upsert writes the single OTP slot for a user. A conflicting insert
// overwrites code, purpose and both timestamps atomically, so concurrent
// issuance is last-writer-wins.
func (r *OTPRepository) Upsert(ctx context.Context, otp *model.OTP) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Upsert")

	start := time.Now()
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "purpose", "issued_at", "expires_at", "updated_at"}),
	}).Create(otp)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to upsert OTP").
			Int("user_id", int(otp.UserID)).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "OTP upserted").
		Int("user_id", int(otp.UserID)).
		String("purpose", otp.Purpose).
		Duration(duration).
		Log()

	return nil
}

// DeleteByUserID consumes the user's OTP. The delete is unscoped: a
// soft-deleted row would keep holding the unique user_id slot and block the
// next issuance.
func (r *OTPRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteByUserID")

	result := r.db.WithContext(ctx).Unscoped().Where("user_id = ?", userID).Delete(&model.OTP{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete OTP").
			Int("user_id", int(userID)).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}
