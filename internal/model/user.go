package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account lifecycle statuses. A registered user starts as pending and becomes
// active after email verification; the remaining states are soft lifecycle
// transitions, the row is never hard-deleted.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusDeleted   = "deleted"
)

type User struct {
	gorm.Model
	Name              string         `gorm:"column:name;not null"`
	Email             string         `gorm:"column:email;unique;not null"`
	Picture           *string        `gorm:"column:picture"`
	Password          string         `gorm:"column:password;not null" json:"-"`
	PasswordChangedAt *time.Time     `gorm:"column:password_changed_at"`
	IsSuper           bool           `gorm:"column:is_super;default:false;not null"`
	Permissions       datatypes.JSON `gorm:"column:permissions;type:jsonb;default:'[]'::jsonb"`
	Status            string         `gorm:"column:status;default:pending;not null"`
}

// PasswordChangedAfter reports whether the password was replaced after the
// given token issued-at. Both sides are compared at second granularity, so a
// change in the same second as issuance does not invalidate the token.
func (u *User) PasswordChangedAfter(tokenIssuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > tokenIssuedAt.Unix()
}

// HasPermission checks a named permission against the user's permission set.
// Super users bypass every named-permission check.
func (u *User) HasPermission(permission string) bool {
	if u.IsSuper {
		return true
	}

	var permissions []string
	if len(u.Permissions) > 0 {
		if err := json.Unmarshal(u.Permissions, &permissions); err != nil {
			return false
		}
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is one of the assignable lifecycle
// statuses. Pending is excluded: it is only ever set by registration.
func IsValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusDeleted:
		return true
	}
	return false
}
