package model

import (
	"time"

	"gorm.io/gorm"
)

// OTP purposes. The enumeration is open for future flows but issuance rejects
// anything outside this set.
const (
	OTPPurposeEmailVerification = "email_verification"
	OTPPurposePasswordReset     = "password_reset"
	OTPPurposeLogin             = "login"
)

// OTP code bounds: codes are always 6 digits.
const (
	OTPCodeMin = 100000
	OTPCodeMax = 999999
)

// OTP is the single live one-time code for a user. The unique index on
// user_id enforces one slot per user: a new issuance overwrites the previous
// code, purpose and expiry instead of creating a second row.
type OTP struct {
	gorm.Model
	UserID    uint      `gorm:"column:user_id;uniqueIndex;not null"`
	Code      int       `gorm:"column:code;not null"`
	Purpose   string    `gorm:"column:purpose;not null"`
	IssuedAt  time.Time `gorm:"column:issued_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
}

func IsValidOTPPurpose(p string) bool {
	switch p {
	case OTPPurposeEmailVerification, OTPPurposePasswordReset, OTPPurposeLogin:
		return true
	}
	return false
}
