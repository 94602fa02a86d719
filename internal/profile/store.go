// File: internal/profile/store.go
package profile

import (
	"context"
	"errors"
)

// Storage-level sentinels. The Auth Coordinator maps these onto the
// user-facing taxonomy; stores never speak user-facing copy themselves.
var (
	ErrNotFound      = errors.New("profile: not found")
	ErrAlreadyExists = errors.New("profile: already exists")
)

// Store is the remote CRUD contract for user-profile records, keyed by the
// Google provider id. All implementations enforce one profile per id.
type Store interface {
	// Create persists a new profile from seed. It fails with
	// ErrAlreadyExists when a profile with the same id is present, and with
	// a validation error when required fields are missing or malformed.
	Create(ctx context.Context, seed CreateProfileSeed) (*UserProfile, error)

	// Get returns the profile for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*UserProfile, error)

	// Update applies the non-nil fields of updates and always refreshes
	// LastLoginAt. Returns the updated profile.
	Update(ctx context.Context, id string, updates Updates) (*UserProfile, error)

	// Delete removes the profile for id. Deleting an absent profile is not
	// an error.
	Delete(ctx context.Context, id string) error

	// TouchLastLogin bumps LastLoginAt for id. Callers treat failures as
	// non-fatal.
	TouchLastLogin(ctx context.Context, id string) error
}
