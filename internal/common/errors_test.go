// File: internal/common/errors_test.go
package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	decorated := ErrNetwork.WithDetails("dial tcp: timeout")

	assert.Nil(t, ErrNetwork.Details)
	assert.Equal(t, "dial tcp: timeout", decorated.Details)
	assert.Equal(t, ErrNetwork.Code, decorated.Code)
	assert.Equal(t, ErrNetwork.Message, decorated.Message)
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	decorated := ErrAccountExists.WithDetails("g1")
	assert.ErrorIs(t, decorated, ErrAccountExists)
	assert.NotErrorIs(t, decorated, ErrAccountNotFound)

	wrapped := fmt.Errorf("sign-up failed: %w", decorated)
	assert.ErrorIs(t, wrapped, ErrAccountExists)
}

func TestIsAuthError(t *testing.T) {
	authErr, ok := IsAuthError(ErrTokenExpired)
	require.True(t, ok)
	assert.Equal(t, CodeTokenExpired, authErr.Code)

	wrapped := fmt.Errorf("refresh: %w", ErrTokenExpired)
	authErr, ok = IsAuthError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeTokenExpired, authErr.Code)

	_, ok = IsAuthError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = IsAuthError(nil)
	assert.False(t, ok)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, ErrAccountNotFound.Message, UserMessage(ErrAccountNotFound))
	assert.Equal(t, ErrAccountNotFound.Message, UserMessage(ErrAccountNotFound.WithDetails("g1")))
	assert.Equal(t, ErrUnknown.Message, UserMessage(errors.New("pg: connection refused")))
}

func TestTaxonomyCodesAreDistinct(t *testing.T) {
	sentinels := []*AuthError{
		ErrNetwork, ErrAuthCancelled, ErrAuthFailed, ErrPermissionDenied,
		ErrUnknown, ErrAccountExists, ErrAccountNotFound, ErrInvalidEmail,
		ErrStorage, ErrCOPPACompliance, ErrTokenExpired, ErrSecureStorageFailed,
		ErrAuthInProgress,
	}
	seen := make(map[string]bool, len(sentinels))
	for _, s := range sentinels {
		assert.False(t, seen[s.Code], "duplicate code %s", s.Code)
		seen[s.Code] = true
		assert.NotEmpty(t, s.Message)
	}
}
