// File: internal/securestore/file_store_test.go
package securestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := NewFileStore(
		filepath.Join(dir, "credentials.bin"),
		filepath.Join(dir, "credentials.key"),
		zap.NewNop(),
	)
	return store, dir
}

func TestSecureStoreMissingFileReadsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	has, err := store.HasAuthData(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSecureStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreAccessToken(ctx, "access-123"))
	require.NoError(t, store.StoreRefreshToken(ctx, "refresh-456"))
	require.NoError(t, store.StoreUserID(ctx, "g1"))

	token, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-123", token)

	refresh, err := store.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh-456", refresh)

	userID, err := store.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "g1", userID)

	has, err := store.HasAuthData(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSecureStoreValuesAreIndependent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreUserID(ctx, "g1"))

	// Missing siblings read back empty.
	token, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	// User id alone is not a full credential set.
	has, err := store.HasAuthData(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSecureStoreClearAuthData(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreAccessToken(ctx, "access-123"))
	require.NoError(t, store.StoreRefreshToken(ctx, "refresh-456"))
	require.NoError(t, store.StoreUserID(ctx, "g1"))

	require.NoError(t, store.ClearAuthData(ctx))

	for _, read := range []func(context.Context) (string, error){
		store.AccessToken, store.RefreshToken, store.UserID,
	} {
		value, err := read(ctx)
		require.NoError(t, err)
		assert.Empty(t, value)
	}

	// Clearing twice is fine.
	require.NoError(t, store.ClearAuthData(ctx))
}

func TestSecureStoreEncryptedAtRest(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	secret := "super-secret-access-token"
	require.NoError(t, store.StoreAccessToken(ctx, secret))

	blob, err := os.ReadFile(filepath.Join(dir, "credentials.bin"))
	require.NoError(t, err)
	assert.NotContains(t, string(blob), secret)
	assert.NotContains(t, string(blob), "auth_token")
}

func TestSecureStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.bin")
	keyPath := filepath.Join(dir, "credentials.key")
	ctx := context.Background()

	first := NewFileStore(path, keyPath, zap.NewNop())
	require.NoError(t, first.StoreAccessToken(ctx, "access-123"))
	require.NoError(t, first.StoreUserID(ctx, "g1"))

	// A fresh store instance derives the same sealing key from the key file.
	second := NewFileStore(path, keyPath, zap.NewNop())
	token, err := second.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-123", token)

	has, err := second.HasAuthData(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSecureStoreWrongKeyFailsClosed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.bin")
	ctx := context.Background()

	first := NewFileStore(path, filepath.Join(dir, "key-a"), zap.NewNop())
	require.NoError(t, first.StoreAccessToken(ctx, "access-123"))

	second := NewFileStore(path, filepath.Join(dir, "key-b"), zap.NewNop())
	_, err := second.AccessToken(ctx)
	assert.Error(t, err)
}

func TestSecureStoreFilePermissions(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, store.StoreAccessToken(context.Background(), "access-123"))

	for _, name := range []string{"credentials.bin", "credentials.key"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), name)
	}
}
