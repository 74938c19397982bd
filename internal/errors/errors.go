package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches by code so wrapped copies compare equal to the sentinel
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if errors.As(target, &domainErr) {
		return e.Code == domainErr.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a 400 validation error with a specific message
func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Validation errors (400)
	ErrValidation   = NewDomainError("VALIDATION_ERROR", "invalid input")
	ErrSamePassword = NewDomainError("SAME_PASSWORD", "new password cannot be the same as the old password")
	// Invalid credentials is a 400 in this API, matching the public contract:
	// the login form reports a bad email/password pair as a client error.
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrInvalidOTP         = NewDomainError("INVALID_OTP", "invalid or expired OTP")
	ErrMissingPrincipal   = NewDomainError("MISSING_PRINCIPAL", "no authenticated user on request")

	// Authentication errors (401). Signature, format and expiry failures all
	// collapse into ErrInvalidToken so callers cannot distinguish them.
	ErrInvalidToken = NewDomainError("INVALID_TOKEN", "invalid or expired token")
	ErrStaleToken   = NewDomainError("STALE_TOKEN", "password changed recently, please log in again")
	ErrUserGone     = NewDomainError("USER_GONE", "the user belonging to this token no longer exists")

	// Authorization errors (403)
	ErrAccountPending   = NewDomainError("ACCOUNT_PENDING", "account is not verified, please complete the registration process")
	ErrAccountInactive  = NewDomainError("ACCOUNT_INACTIVE", "account is inactive, please contact support")
	ErrAccountDeleted   = NewDomainError("ACCOUNT_DELETED", "account has been deleted")
	ErrAccountSuspended = NewDomainError("ACCOUNT_SUSPENDED", "account is suspended")
	ErrForbidden        = NewDomainError("FORBIDDEN", "forbidden")

	// Resource errors
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "no account found with this email address")
	ErrEmailExists  = NewDomainError("EMAIL_EXISTS", "this email address already exists")

	// Rate limiting (429)
	ErrOTPResendTooSoon = NewDomainError("OTP_RESEND_TOO_SOON", "OTP was recently sent, please wait before trying again")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "VALIDATION_ERROR", "SAME_PASSWORD", "INVALID_CREDENTIALS",
		"INVALID_OTP", "MISSING_PRINCIPAL":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "INVALID_TOKEN", "STALE_TOKEN", "USER_GONE":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "ACCOUNT_PENDING", "ACCOUNT_INACTIVE", "ACCOUNT_DELETED",
		"ACCOUNT_SUSPENDED", "FORBIDDEN":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "EMAIL_EXISTS":
		return http.StatusConflict

	// 429 Too Many Requests
	case "OTP_RESEND_TOO_SOON":
		return http.StatusTooManyRequests

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts the user-facing error message. Unknown
// errors collapse into a generic message so internals never leak.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}
