package service

import (
	"context"
	"sync"
	"time"

	"github.com/blogify-dev/blogify-api/internal/model"
	"gorm.io/gorm"
)

// fakeUserStore is an in-memory UserStore for service tests
type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		nextID: 1,
		users:  make(map[uint]*model.User),
	}
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.nextID++

	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) UpdateColumns(ctx context.Context, id uint, values map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	for col, val := range values {
		switch col {
		case "name":
			user.Name = val.(string)
		case "picture":
			pic := val.(string)
			user.Picture = &pic
		case "status":
			user.Status = val.(string)
		case "password":
			user.Password = val.(string)
		case "password_changed_at":
			at := val.(time.Time)
			user.PasswordChangedAt = &at
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id uint, hashedPassword string, changedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	user.Password = hashedPassword
	user.PasswordChangedAt = &changedAt
	user.UpdatedAt = time.Now()
	return nil
}

// fakeOTPStore is an in-memory OTPStore with the single-slot-per-user shape
type fakeOTPStore struct {
	mu   sync.Mutex
	rows map[uint]*model.OTP
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{rows: make(map[uint]*model.OTP)}
}

func (s *fakeOTPStore) GetByUserID(ctx context.Context, userID uint) (*model.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	otp, ok := s.rows[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *otp
	return &cp, nil
}

func (s *fakeOTPStore) Upsert(ctx context.Context, otp *model.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *otp
	s.rows[otp.UserID] = &cp
	return nil
}

func (s *fakeOTPStore) DeleteByUserID(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows, userID)
	return nil
}
