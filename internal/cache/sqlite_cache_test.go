// File: internal/cache/sqlite_cache_test.go
package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"puck_buddy_auth/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "cache.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

// testClock is an adjustable clock for freshness-window tests.
type testClock struct {
	now time.Time
}

func (tc *testClock) Now() time.Time { return tc.now }

func (tc *testClock) Advance(d time.Duration) { tc.now = tc.now.Add(d) }

func newTestCache(t *testing.T, ttl time.Duration) (Cache, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c, err := newSQLiteCacheWithClock(newTestDB(t), ttl, zap.NewNop(), clock.Now)
	require.NoError(t, err)
	return c, clock
}

func sampleProfile() *profile.UserProfile {
	pic := "https://example.com/ann.png"
	created := time.Date(2025, 5, 20, 8, 30, 0, 0, time.UTC)
	return &profile.UserProfile{
		ID:          "g1",
		GoogleID:    "g1",
		Email:       "a@b.com",
		Name:        "Ann",
		PictureURL:  &pic,
		CreatedAt:   created,
		LastLoginAt: created.Add(48 * time.Hour),
		Preferences: profile.Preferences{Theme: profile.ThemeDark, Notifications: false},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, 24*time.Hour)
	ctx := context.Background()

	stored := sampleProfile()
	require.NoError(t, c.Store(ctx, stored))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, stored.GoogleID, got.GoogleID)
	assert.Equal(t, stored.Email, got.Email)
	assert.Equal(t, stored.Name, got.Name)
	require.NotNil(t, got.PictureURL)
	assert.Equal(t, *stored.PictureURL, *got.PictureURL)
	assert.True(t, stored.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, stored.LastLoginAt.Equal(got.LastLoginAt))
	assert.Equal(t, stored.Preferences, got.Preferences)
}

func TestCacheMissOnEmpty(t *testing.T) {
	c, _ := newTestCache(t, 24*time.Hour)

	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)

	valid, err := c.Valid(context.Background())
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestCacheFreshnessBoundary(t *testing.T) {
	ttl := 24 * time.Hour
	ctx := context.Background()

	tests := []struct {
		name      string
		age       time.Duration
		wantFresh bool
	}{
		{"just under the window", ttl - time.Millisecond, true},
		{"exactly the window", ttl, true},
		{"just past the window", ttl + time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestCache(t, ttl)
			require.NoError(t, c.Store(ctx, sampleProfile()))

			clock.Advance(tt.age)

			got, err := c.Get(ctx)
			require.NoError(t, err)
			if tt.wantFresh {
				require.NotNil(t, got)
				assert.Equal(t, "g1", got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestCacheExpiredReadDeletesStaleEntry(t *testing.T) {
	c, clock := newTestCache(t, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, sampleProfile()))
	clock.Advance(24*time.Hour + time.Millisecond)

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// The stale row is gone: rewinding the clock must not resurrect it.
	clock.Advance(-25 * time.Hour)
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheValidTracksExpiry(t *testing.T) {
	c, clock := newTestCache(t, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, sampleProfile()))

	valid, err := c.Valid(ctx)
	require.NoError(t, err)
	assert.True(t, valid)

	clock.Advance(25 * time.Hour)
	valid, err = c.Valid(ctx)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestCacheStoreOverwrites(t *testing.T) {
	c, clock := newTestCache(t, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, sampleProfile()))
	clock.Advance(23 * time.Hour)

	updated := sampleProfile()
	updated.Name = "Ann Updated"
	require.NoError(t, c.Store(ctx, updated))

	// The rewrite restarts the freshness window.
	clock.Advance(23 * time.Hour)
	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ann Updated", got.Name)
}

func TestCacheClear(t *testing.T) {
	c, _ := newTestCache(t, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, sampleProfile()))
	require.NoError(t, c.Clear(ctx))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Clearing an already empty cache is fine.
	require.NoError(t, c.Clear(ctx))
}

func TestCachePurgeExpired(t *testing.T) {
	c, clock := newTestCache(t, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, sampleProfile()))

	purged, err := c.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)

	clock.Advance(25 * time.Hour)
	purged, err = c.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	valid, err := c.Valid(ctx)
	require.NoError(t, err)
	assert.False(t, valid)
}
