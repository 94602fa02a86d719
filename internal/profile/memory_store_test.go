// File: internal/profile/memory_store_test.go
package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAnn() CreateProfileSeed {
	return CreateProfileSeed{
		GoogleID:    "g1",
		Email:       "A@B.com",
		Name:        "Ann",
		Preferences: DefaultPreferences(),
	}
}

func TestMemoryStoreCreate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, seedAnn())
	require.NoError(t, err)

	assert.Equal(t, "g1", created.ID)
	assert.Equal(t, "g1", created.GoogleID)
	assert.Equal(t, "a@b.com", created.Email) // normalized
	assert.Equal(t, "Ann", created.Name)
	assert.Equal(t, ThemeLight, created.Preferences.Theme)
	assert.True(t, created.Preferences.Notifications)
	assert.True(t, created.CreatedAt.Equal(created.LastLoginAt))
}

func TestMemoryStoreCreateDuplicate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Create(ctx, seedAnn())
	require.NoError(t, err)

	_, err = store.Create(ctx, seedAnn())
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryStoreGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Create(ctx, seedAnn())
	require.NoError(t, err)

	got, err := store.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	// Mutating the returned copy must not leak back into the store.
	got.Name = "Mallory"
	again, err := store.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.Name)
}

func TestMemoryStoreUpdateRefreshesLastLogin(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return current })
	ctx := context.Background()

	created, err := store.Create(ctx, seedAnn())
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	newName := "Ann Updated"
	updated, err := store.Update(ctx, "g1", Updates{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Ann Updated", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.LastLoginAt.After(created.LastLoginAt))

	// Empty updates still bump the login instant.
	current = current.Add(time.Hour)
	touched, err := store.Update(ctx, "g1", Updates{})
	require.NoError(t, err)
	assert.True(t, touched.LastLoginAt.After(updated.LastLoginAt))
	assert.Equal(t, "Ann Updated", touched.Name)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Update(context.Background(), "missing", Updates{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Create(ctx, seedAnn())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "g1"))
	_, err = store.Get(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent profile is not an error.
	require.NoError(t, store.Delete(ctx, "g1"))
}

func TestMemoryStoreTouchLastLogin(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return current })
	ctx := context.Background()

	created, err := store.Create(ctx, seedAnn())
	require.NoError(t, err)

	current = current.Add(30 * time.Minute)
	require.NoError(t, store.TouchLastLogin(ctx, "g1"))

	got, err := store.Get(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, got.LastLoginAt.After(created.LastLoginAt))

	assert.ErrorIs(t, store.TouchLastLogin(ctx, "missing"), ErrNotFound)
}
