// File: cmd/authcli/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"puck_buddy_auth/internal/app"
	"puck_buddy_auth/internal/auth"
	"puck_buddy_auth/internal/config"
	"puck_buddy_auth/internal/jobs"
	"puck_buddy_auth/internal/platform/logger"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,

		// Leaf services
		provideIdentityProvider,
		provideProfileStore,
		provideProfileCache,
		provideSecureStore,

		// Orchestration
		auth.NewCoordinator,
		jobs.NewCacheSweepJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
