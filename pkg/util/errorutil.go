package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors. Every failure that crosses
// the API boundary is one of these; raw lower-level errors never do.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewMissingCredentials signals an absent email or password on login.
func NewMissingCredentials() error {
	return NewDomainError("MISSING_CREDENTIALS", "email and password are required", http.StatusBadRequest, nil)
}

// NewInvalidCredentials is the single error shape for unknown identifier,
// wrong password, and role mismatch. Keeping the three indistinguishable
// prevents account enumeration.
func NewInvalidCredentials() error {
	return NewDomainError("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized, nil)
}

// NewAccountDeactivated signals a known account with active=false.
func NewAccountDeactivated() error {
	return NewDomainError("ACCOUNT_DEACTIVATED", "account has been deactivated", http.StatusForbidden, nil)
}

// NewMissingFields signals absent required registration fields.
func NewMissingFields(message string) error {
	return NewDomainError("MISSING_FIELDS", message, http.StatusBadRequest, nil)
}

// NewValidationError aggregates field violations into a single message.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_ERROR", message, http.StatusBadRequest, details)
}

// NewUserExists signals a duplicate registration email.
func NewUserExists() error {
	return NewDomainError("USER_EXISTS", "an account with this email already exists", http.StatusConflict, nil)
}

// NewMissingToken signals an absent refresh token in the request body.
func NewMissingToken() error {
	return NewDomainError("MISSING_TOKEN", "refresh token is required", http.StatusBadRequest, nil)
}

// NewInvalidToken covers malformed, expired, forged, and wrong-class tokens.
func NewInvalidToken(err error) error {
	return &DomainError{
		Code:       "INVALID_TOKEN",
		Message:    "invalid or expired token",
		HTTPStatus: http.StatusUnauthorized,
		Err:        err,
	}
}

// NewUnauthorized signals that no usable bearer token was presented.
func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewAccessDenied signals an authenticated caller with insufficient
// role or ownership.
func NewAccessDenied(message string) error {
	return NewDomainError("ACCESS_DENIED", message, http.StatusForbidden, nil)
}

// NewUserNotFound signals that the token's subject no longer resolves to
// an active account.
func NewUserNotFound() error {
	return NewDomainError("USER_NOT_FOUND", "user not found", http.StatusUnauthorized, nil)
}

// NewNotFound signals a missing resource.
func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

// NewConflict signals a uniqueness violation on a resource.
func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		if de, ok := NewNotFound("resource").(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
