package service

import (
	"errors"
	"testing"
	"time"

	"github.com/blogify-dev/blogify-api/config"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
)

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		AccessSecret:  "access-test-secret",
		RefreshSecret: "refresh-test-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(testTokenConfig())

	tests := []struct {
		name  string
		class string
		issue func(uint) (string, error)
	}{
		{"access", TokenClassAccess, svc.IssueAccess},
		{"refresh", TokenClassRefresh, svc.IssueRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issue(42)
			if err != nil {
				t.Fatalf("issue failed: %v", err)
			}

			claims, err := svc.Validate(token, tt.class)
			if err != nil {
				t.Fatalf("validate failed: %v", err)
			}

			id, err := claims.SubjectID()
			if err != nil {
				t.Fatalf("subject decode failed: %v", err)
			}
			if id != 42 {
				t.Errorf("subject = %d, want 42", id)
			}
			if claims.TokenClass != tt.class {
				t.Errorf("token class = %q, want %q", claims.TokenClass, tt.class)
			}
		})
	}
}

func TestTokenClassSegregation(t *testing.T) {
	svc := NewTokenService(testTokenConfig())

	access, err := svc.IssueAccess(7)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// An access token never validates as a refresh token: the secrets differ
	if _, err := svc.Validate(access, TokenClassRefresh); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("cross-class validate error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenClassSegregationSharedSecret(t *testing.T) {
	cfg := testTokenConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	svc := NewTokenService(cfg)

	access, err := svc.IssueAccess(7)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Even under one shared secret, the class claim rejects the swap
	if _, err := svc.Validate(access, TokenClassRefresh); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("cross-class validate error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	now := base
	svc := NewTokenService(testTokenConfig()).WithClock(func() time.Time { return now })

	token, err := svc.IssueAccess(1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := svc.Validate(token, TokenClassAccess); err != nil {
		t.Fatalf("validate before expiry failed: %v", err)
	}

	now = base.Add(16 * time.Minute)
	if _, err := svc.Validate(token, TokenClassAccess); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("validate after expiry error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenTamperedSignature(t *testing.T) {
	svc := NewTokenService(testTokenConfig())
	other := NewTokenService(config.TokenConfig{
		AccessSecret:  "some-other-secret",
		RefreshSecret: "another-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	})

	token, err := other.IssueAccess(1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := svc.Validate(token, TokenClassAccess); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("foreign-secret validate error = %v, want ErrInvalidToken", err)
	}

	if _, err := svc.Validate("not-a-token", TokenClassAccess); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("garbage validate error = %v, want ErrInvalidToken", err)
	}
}
