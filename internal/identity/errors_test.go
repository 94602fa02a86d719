// File: internal/identity/errors_test.go
package identity

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"

	"puck_buddy_auth/internal/common"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"context cancelled", context.Canceled, common.CodeAuthCancelled},
		{"deadline exceeded", context.DeadlineExceeded, common.CodeNetworkError},
		{"user declined consent", &oauth2.RetrieveError{ErrorCode: "access_denied"}, common.CodePermissionDenied},
		{"expired grant", &oauth2.RetrieveError{ErrorCode: "expired_token"}, common.CodeTokenExpired},
		{"revoked grant", &oauth2.RetrieveError{ErrorCode: "invalid_grant"}, common.CodeTokenExpired},
		{"other oauth failure", &oauth2.RetrieveError{ErrorCode: "server_error"}, common.CodeAuthFailed},
		{"dns failure", &net.DNSError{Err: "no such host", IsNotFound: true}, common.CodeNetworkError},
		{"transport failure", &url.Error{Op: "Get", URL: "https://accounts.google.com", Err: errors.New("connection refused")}, common.CodeNetworkError},
		{"missing id token", errMissingIDToken, common.CodeAuthFailed},
		{"anything else", errors.New("boom"), common.CodeAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			authErr, ok := common.IsAuthError(mapped)
			if assert.True(t, ok, "expected a taxonomy error, got %v", mapped) {
				assert.Equal(t, tt.wantCode, authErr.Code)
			}
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}

func TestMapErrorPassesTaxonomyThrough(t *testing.T) {
	decorated := common.ErrAccountNotFound.WithDetails("no profile for g1")
	assert.Same(t, decorated, MapError(decorated).(*common.AuthError))
}

func TestMapErrorWrappedCancellation(t *testing.T) {
	wrapped := &url.Error{Op: "Post", URL: "https://oauth2.googleapis.com/token", Err: context.Canceled}
	authErr, ok := common.IsAuthError(MapError(wrapped))
	if assert.True(t, ok) {
		assert.Equal(t, common.CodeAuthCancelled, authErr.Code)
	}
}

func TestMapErrorRedactsDetails(t *testing.T) {
	mapped := MapError(errors.New("request failed: token abc123 rejected"))
	authErr, ok := common.IsAuthError(mapped)
	if assert.True(t, ok) {
		assert.NotContains(t, authErr.Details, "token")
	}
}
