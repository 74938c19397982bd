package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/blogify-dev/blogify-api/config"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Token classes. Access and refresh tokens are signed with independent
// secrets; a token presented under the wrong class never validates.
const (
	TokenClassAccess  = "access"
	TokenClassRefresh = "refresh"
)

// TokenClaims embeds the registered claims plus the class tag
type TokenClaims struct {
	jwt.RegisteredClaims
	TokenClass string `json:"token_class"`
}

// SubjectID decodes the subject claim back into a user ID
func (c *TokenClaims) SubjectID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}
	return uint(id), nil
}

// TokenService mints and validates signed, time-limited tokens. The clock is
// injectable so expiry behavior is testable without sleeping.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// WithClock replaces the token service clock; intended for tests
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// IssueAccess mints a short-lived access token for the user
func (s *TokenService) IssueAccess(userID uint) (string, error) {
	return s.issue(userID, TokenClassAccess, s.accessSecret, s.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for the user
func (s *TokenService) IssueRefresh(userID uint) (string, error) {
	return s.issue(userID, TokenClassRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) issue(userID uint, class string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenClass: class,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return tokenString, nil
}

// Validate verifies signature, expiry and class under the secret for the
// requested class. Every failure mode collapses into the same generic error
// so a caller cannot distinguish a bad signature from an expired token.
func (s *TokenService) Validate(tokenString, class string) (*TokenClaims, error) {
	secret := s.accessSecret
	if class == TokenClassRefresh {
		secret = s.refreshSecret
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	if !token.Valid || claims.TokenClass != class {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
