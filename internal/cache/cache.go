// File: internal/cache/cache.go
package cache

import (
	"context"

	"puck_buddy_auth/internal/profile"
)

// Cache is the local profile cache. It holds at most one profile record plus
// its write instant, and treats any entry older than the configured TTL as a
// miss.
type Cache interface {
	// Store writes profile together with the current instant.
	Store(ctx context.Context, p *profile.UserProfile) error

	// Get returns the cached profile, or (nil, nil) on a miss. A read past
	// expiry is a miss and deletes the stale entry.
	Get(ctx context.Context) (*profile.UserProfile, error)

	// Valid reports whether a fresh entry exists without decoding it.
	Valid(ctx context.Context) (bool, error)

	// Clear removes the cached entry.
	Clear(ctx context.Context) error

	// PurgeExpired removes expired entries and returns how many were
	// deleted. Used by the background sweep job.
	PurgeExpired(ctx context.Context) (int64, error)
}
