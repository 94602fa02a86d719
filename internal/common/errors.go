// File: internal/common/errors.go
package common

import (
	"errors"
	"fmt"
)

// AuthError is the closed error taxonomy surfaced to the UI layer. Every
// provider or storage failure is mapped to exactly one of the sentinel
// values below before it leaves a service boundary.
type AuthError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("AuthError: Code=%s, Message=%s", e.Code, e.Message)
}

// Is matches by code so that decorated copies still compare equal to their
// sentinel via errors.Is.
func (e *AuthError) Is(target error) bool {
	var t *AuthError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

// WithDetails returns a copy carrying diagnostic details. The sentinel
// itself is never mutated.
func (e *AuthError) WithDetails(details interface{}) *AuthError {
	return &AuthError{Code: e.Code, Message: e.Message, Details: details}
}

// Error codes.
const (
	CodeNetworkError        = "NETWORK_ERROR"
	CodeAuthCancelled       = "AUTH_CANCELLED"
	CodeAuthFailed          = "AUTH_FAILED"
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodeUnknownError        = "UNKNOWN_ERROR"
	CodeAccountExists       = "ACCOUNT_EXISTS"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeInvalidEmail        = "INVALID_EMAIL"
	CodeStorageError        = "STORAGE_ERROR"
	CodeCOPPACompliance     = "COPPA_COMPLIANCE"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeSecureStorageFailed = "SECURE_STORAGE_FAILED"
	CodeAuthInProgress      = "AUTH_IN_PROGRESS"
)

// Sentinel values with their fixed user-facing messages. The copy is aimed
// at a young audience and is part of the product contract, not placeholder
// text.
var (
	ErrNetwork             = NewAuthError(CodeNetworkError, "Oops! Check your internet connection and try again.")
	ErrAuthCancelled       = NewAuthError(CodeAuthCancelled, "No worries! You can try signing in again anytime.")
	ErrAuthFailed          = NewAuthError(CodeAuthFailed, "Something went wrong. Let's try that again!")
	ErrPermissionDenied    = NewAuthError(CodePermissionDenied, "We need permission to sign you in with Google.")
	ErrUnknown             = NewAuthError(CodeUnknownError, "Something unexpected happened. Please try again!")
	ErrAccountExists       = NewAuthError(CodeAccountExists, "Looks like you already have an account! Try signing in instead.")
	ErrAccountNotFound     = NewAuthError(CodeAccountNotFound, "We couldn't find your account. Would you like to sign up?")
	ErrInvalidEmail        = NewAuthError(CodeInvalidEmail, "That email doesn't look right. Can you check it?")
	ErrStorage             = NewAuthError(CodeStorageError, "We're having trouble saving your information. Please try again.")
	ErrCOPPACompliance     = NewAuthError(CodeCOPPACompliance, "We need a parent's permission for kids under 13.")
	ErrTokenExpired        = NewAuthError(CodeTokenExpired, "Your session has expired. Please sign in again.")
	ErrSecureStorageFailed = NewAuthError(CodeSecureStorageFailed, "We couldn't securely save your login. Please try again.")
	ErrAuthInProgress      = NewAuthError(CodeAuthInProgress, "Hang tight! We're still working on your last sign-in.")
)

// IsAuthError reports whether err carries an *AuthError anywhere in its chain.
func IsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// UserMessage extracts the user-facing message for err, falling back to the
// generic unknown-error copy for anything outside the taxonomy.
func UserMessage(err error) string {
	if authErr, ok := IsAuthError(err); ok {
		return authErr.Message
	}
	return ErrUnknown.Message
}
