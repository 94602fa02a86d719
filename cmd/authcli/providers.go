// File: cmd/authcli/providers.go
package main

import (
	"context"

	"puck_buddy_auth/internal/cache"
	"puck_buddy_auth/internal/config"
	"puck_buddy_auth/internal/identity"
	"puck_buddy_auth/internal/platform/database"
	"puck_buddy_auth/internal/profile"
	"puck_buddy_auth/internal/securestore"

	"go.uber.org/zap"
)

// provideIdentityProvider builds the platform-appropriate identity provider.
func provideIdentityProvider(cfg *config.Config, logger *zap.Logger) (identity.Provider, error) {
	return identity.NewProvider(context.Background(), cfg, logger)
}

// provideProfileStore selects the profile store backend from configuration.
// One interface, three variants; call sites never branch on the backend.
func provideProfileStore(cfg *config.Config, logger *zap.Logger) (profile.Store, func(), error) {
	switch cfg.ProfileStoreBackend {
	case "postgres":
		db, err := database.NewPostgres(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := profile.NewGORMStore(db)
		if err != nil {
			database.Close(db)
			return nil, nil, err
		}
		return store, func() { database.Close(db) }, nil
	case "firestore":
		return profile.NewFirestoreStore(context.Background(), cfg, logger)
	default: // mock
		logger.Warn("Using in-memory profile store; accounts will not survive restarts")
		return profile.NewMemoryStore(), func() {}, nil
	}
}

func provideProfileCache(cfg *config.Config, logger *zap.Logger) (cache.Cache, func(), error) {
	db, err := database.NewCacheDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	c, err := cache.NewSQLiteCache(db, cfg.CacheTTL, logger)
	if err != nil {
		database.Close(db)
		return nil, nil, err
	}
	return c, func() { database.Close(db) }, nil
}

func provideSecureStore(cfg *config.Config, logger *zap.Logger) securestore.Store {
	return securestore.NewFileStore(cfg.SecureStorePath, cfg.SecureStoreKeyPath, logger)
}
