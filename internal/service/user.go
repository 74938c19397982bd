package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blogify-dev/blogify-api/internal/dto"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/blogify-dev/blogify-api/internal/model"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore is the persistence surface the user service needs. Satisfied by
// repository.UserRepository; tests provide an in-memory fake.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateColumns(ctx context.Context, id uint, values map[string]interface{}) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string, changedAt time.Time) error
}

// UserService owns credential storage rules: hashing, email normalization and
// the sanitized external view of a user.
type UserService struct {
	store UserStore
	now   func() time.Time
}

func NewUserService(store UserStore) *UserService {
	return &UserService{
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the service clock; intended for tests
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// NormalizeEmail lowercases and trims an address so lookups and uniqueness
// checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return string(hashed), nil
}

func checkPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// CreateUser registers a new credential row. The account starts pending and
// stays unusable until email verification activates it.
func (s *UserService) CreateUser(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	email := NormalizeEmail(req.Email)

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Picture:  req.Picture,
		Password: hashed,
		Status:   model.StatusPending,
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		Int("user_id", int(user.ID)).
		String("email", user.Email).
		Log()

	return user, nil
}

// Authenticate verifies an email/password pair. Unknown address and wrong
// password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, password) {
		logger.WarnWithContext(ctx, "Authentication failed").
			Int("user_id", int(user.ID)).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// UpdateCredentials applies a partial update to the user identified by email.
// The password is rehashed only when the supplied value actually differs from
// the stored one; only then does password_changed_at move.
func (s *UserService) UpdateCredentials(ctx context.Context, email string, req *dto.UpdateCredentialsRequest) (*dto.UserResponse, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	values := map[string]interface{}{}

	if req.Name != nil {
		values["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Picture != nil {
		values["picture"] = *req.Picture
	}
	if req.Status != nil {
		if !model.IsValidStatus(*req.Status) {
			return nil, apperrors.NewValidationError("invalid account status")
		}
		values["status"] = *req.Status
	}
	if req.Password != nil && !checkPassword(user.Password, *req.Password) {
		hashed, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		values["password"] = hashed
		values["password_changed_at"] = s.now()
	}

	if len(values) > 0 {
		if err := s.store.UpdateColumns(ctx, user.ID, values); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	updated, err := s.store.GetByID(ctx, user.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return toUserResponse(updated), nil
}

// UpdatePassword replaces the password hash unconditionally and stamps
// password_changed_at. Used by the reset flow after OTP verification.
func (s *UserService) UpdatePassword(ctx context.Context, userID uint, newPassword string) error {
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.store.UpdatePassword(ctx, userID, hashed, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

// FindByEmail loads a user by normalized email. The returned record carries
// the password hash; callers must not serialize it directly.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return user, nil
}

// GetProfile returns the sanitized view of a user
func (s *UserService) GetProfile(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// SetStatus moves the account to a new lifecycle status
func (s *UserService) SetStatus(ctx context.Context, userID uint, status string) error {
	if status != model.StatusPending && !model.IsValidStatus(status) {
		return apperrors.NewValidationError("invalid account status")
	}
	if err := s.store.UpdateColumns(ctx, userID, map[string]interface{}{"status": status}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Picture:   user.Picture,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
