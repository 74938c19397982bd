package repository

import (
	"context"
	"time"

	"github.com/blogify-dev/blogify-api/internal/model"
	ctxutil "github.com/blogify-dev/blogify-api/pkg/context"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			Int("user_id", int(id)).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByEmail finds a user by normalized email. The returned record includes
// the password hash; callers must sanitize before serializing.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByEmail")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// Create persists a new user row
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("email", user.Email).
		Int("user_id", int(user.ID)).
		Duration(duration).
		Log()

	return nil
}

// UpdateColumns applies a partial column update to a user row
func (r *UserRepository) UpdateColumns(ctx context.Context, id uint, values map[string]interface{}) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateColumns")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(values)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			Int("user_id", int(id)).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update").
			Int("user_id", int(id)).
			Log()
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdatePassword replaces the password hash and stamps password_changed_at,
// invalidating every token issued before changedAt.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string, changedAt time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdatePassword")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password":            hashedPassword,
		"password_changed_at": changedAt,
	})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user password").
			Int("user_id", int(id)).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User password updated").
		Int("user_id", int(id)).
		Duration(duration).
		Log()

	return nil
}
