// File: internal/identity/errors.go
package identity

import (
	"context"
	"errors"
	"net"
	"net/url"

	"puck_buddy_auth/internal/common"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// MapError converts raw provider, network and OAuth errors into the
// user-facing taxonomy. Errors already carrying a taxonomy code pass through
// unchanged; the original error text is attached as sanitized detail only.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := common.IsAuthError(err); ok {
		return err
	}

	detail := common.SanitizeErrorMessage(err)

	if errors.Is(err, context.Canceled) {
		return common.ErrAuthCancelled.WithDetails(detail)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return common.ErrNetwork.WithDetails(detail)
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "access_denied":
			return common.ErrPermissionDenied.WithDetails(detail)
		case "expired_token", "invalid_grant":
			return common.ErrTokenExpired.WithDetails(detail)
		default:
			return common.ErrAuthFailed.WithDetails(detail)
		}
	}

	var expiredErr *oidc.TokenExpiredError
	if errors.As(err, &expiredErr) {
		return common.ErrTokenExpired.WithDetails(detail)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return common.ErrNetwork.WithDetails(detail)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return common.ErrNetwork.WithDetails(detail)
	}

	return common.ErrAuthFailed.WithDetails(detail)
}
