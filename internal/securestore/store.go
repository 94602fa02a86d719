// File: internal/securestore/store.go
package securestore

import "context"

// Store is the secure credential store: three independent opaque strings
// persisted encrypted at rest. Absent values read back as the empty string.
type Store interface {
	StoreAccessToken(ctx context.Context, token string) error
	AccessToken(ctx context.Context) (string, error)

	StoreRefreshToken(ctx context.Context, token string) error
	RefreshToken(ctx context.Context) (string, error)

	StoreUserID(ctx context.Context, userID string) error
	UserID(ctx context.Context) (string, error)

	// ClearAuthData removes all three values atomically: no reader can
	// observe a partially cleared set.
	ClearAuthData(ctx context.Context) error

	// HasAuthData reports whether both an access token and a user id are
	// present.
	HasAuthData(ctx context.Context) (bool, error)
}
