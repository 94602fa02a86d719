// File: internal/securestore/file_store.go
package securestore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"puck_buddy_auth/internal/common"
	"puck_buddy_auth/internal/platform/crypto"

	"go.uber.org/zap"
)

// Credential keys inside the sealed payload.
const (
	authTokenKey    = "auth_token"
	refreshTokenKey = "refresh_token"
	userIDKey       = "user_id"
)

const keyDerivationInfo = "puck-buddy-credential-store"

// fileStore persists the credential set as a single AES-GCM sealed JSON file.
// The sealing key is derived via HKDF-SHA256 from a random key file created
// on first use. Writes go through a temp-file rename, so readers see either
// the old or the new credential set, never a partial one.
type fileStore struct {
	path    string
	keyPath string
	logger  *zap.Logger

	mu  sync.Mutex
	key []byte // derived sealing key, loaded lazily
}

// NewFileStore creates a credential store at path, keyed from keyPath.
func NewFileStore(path, keyPath string, logger *zap.Logger) Store {
	return &fileStore{
		path:    path,
		keyPath: keyPath,
		logger:  logger.Named("SecureStore"),
	}
}

func (s *fileStore) StoreAccessToken(ctx context.Context, token string) error {
	return s.set(ctx, authTokenKey, token)
}

func (s *fileStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, authTokenKey)
}

func (s *fileStore) StoreRefreshToken(ctx context.Context, token string) error {
	return s.set(ctx, refreshTokenKey, token)
}

func (s *fileStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, refreshTokenKey)
}

func (s *fileStore) StoreUserID(ctx context.Context, userID string) error {
	return s.set(ctx, userIDKey, userID)
}

func (s *fileStore) UserID(ctx context.Context) (string, error) {
	return s.get(ctx, userIDKey)
}

func (s *fileStore) ClearAuthData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A single rename replaces the whole credential set at once.
	if err := s.write(map[string]string{}); err != nil {
		s.logger.Error("Failed to clear credential store", zap.Error(err))
		return common.ErrSecureStorageFailed.WithDetails(common.SanitizeErrorMessage(err))
	}
	return nil
}

func (s *fileStore) HasAuthData(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, common.ErrSecureStorageFailed.WithDetails(common.SanitizeErrorMessage(err))
	}
	return data[authTokenKey] != "" && data[userIDKey] != "", nil
}

func (s *fileStore) set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return common.ErrSecureStorageFailed.WithDetails(common.SanitizeErrorMessage(err))
	}
	data[key] = value
	if err := s.write(data); err != nil {
		s.logger.Error("Failed to persist credential", zap.String("key", key), zap.Error(err))
		return common.ErrSecureStorageFailed.WithDetails(common.SanitizeErrorMessage(err))
	}
	return nil
}

func (s *fileStore) get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return "", common.ErrSecureStorageFailed.WithDetails(common.SanitizeErrorMessage(err))
	}
	return data[key], nil
}

// read loads and opens the sealed payload. A missing file is an empty set.
func (s *fileStore) read() (map[string]string, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	key, err := s.sealingKey()
	if err != nil {
		return nil, err
	}
	plaintext, err := open(key, blob)
	if err != nil {
		return nil, err
	}

	data := map[string]string{}
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// write seals data and atomically replaces the store file.
func (s *fileStore) write(data map[string]string) error {
	key, err := s.sealingKey()
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(data)
	if err != nil {
		return err
	}
	blob, err := seal(key, plaintext)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}

// sealingKey loads the key file, creating it on first use, and derives the
// AES key from it.
func (s *fileStore) sealingKey() ([]byte, error) {
	if s.key != nil {
		return s.key, nil
	}

	material, err := os.ReadFile(s.keyPath)
	if errors.Is(err, os.ErrNotExist) {
		material, err = crypto.RandomBytes(32)
		if err != nil {
			return nil, err
		}
		if mkErr := os.MkdirAll(filepath.Dir(s.keyPath), 0o700); mkErr != nil {
			return nil, mkErr
		}
		if wErr := os.WriteFile(s.keyPath, material, 0o600); wErr != nil {
			return nil, wErr
		}
		s.logger.Info("Generated new credential store key file", zap.String("path", s.keyPath))
	} else if err != nil {
		return nil, err
	}

	derived, err := crypto.DeriveKey(material, keyDerivationInfo)
	if err != nil {
		return nil, err
	}
	s.key = derived
	return s.key, nil
}

func seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce, err := crypto.RandomBytes(gcm.NonceSize())
	if err != nil {
		return nil, err
	}
	ct := gcm.Seal(nil, nonce, plaintext, nil)
	return append(nonce, ct...), nil
}

func open(key, blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	ns := gcm.NonceSize()
	if len(blob) < ns {
		return nil, fmt.Errorf("sealed payload too short")
	}
	return gcm.Open(nil, blob[:ns], blob[ns:], nil)
}
