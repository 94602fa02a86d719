// File: internal/identity/identity.go
package identity

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"puck_buddy_auth/internal/config"

	"go.uber.org/zap"
)

// Identity is the transient result of an OAuth exchange. It is produced per
// sign-in attempt and never persisted directly.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	PictureURL  string
}

// Tokens are the provider credentials for the active session.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
}

// Provider is the identity-provider capability set. Two interchangeable
// Google implementations exist (browser loopback and device-code flows) plus
// a mock; callers depend only on this interface.
type Provider interface {
	// SignIn runs the interactive sign-in flow and returns the provider
	// identity. Failures are returned already mapped to the user-facing
	// error taxonomy.
	SignIn(ctx context.Context) (*Identity, error)

	// SignOut tears down the provider session. Best-effort: failures are
	// logged, never surfaced to the caller.
	SignOut(ctx context.Context)

	// CurrentUser returns the identity of an existing authenticated
	// session, or nil when there is none.
	CurrentUser(ctx context.Context) (*Identity, error)

	// IsAuthenticated reports whether a provider session exists.
	IsAuthenticated(ctx context.Context) bool

	// Tokens returns the session credentials, or nil when signed out.
	Tokens(ctx context.Context) (*Tokens, error)
}

// Platform names accepted by the provider factory.
const (
	PlatformBrowser = "browser"
	PlatformDevice  = "device"
	PlatformMock    = "mock"
)

// DetectPlatform resolves the configured identity platform, auto-detecting
// between the browser and device flows when set to "auto".
func DetectPlatform(cfg *config.Config) string {
	if cfg.IdentityPlatform != "auto" {
		return cfg.IdentityPlatform
	}
	switch runtime.GOOS {
	case "darwin", "windows":
		return PlatformBrowser
	}
	if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
		return PlatformBrowser
	}
	return PlatformDevice
}

// NewProvider constructs the identity provider for the detected platform.
func NewProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Provider, error) {
	platform := DetectPlatform(cfg)
	logger.Info("Selecting identity provider", zap.String("platform", platform))

	switch platform {
	case PlatformBrowser:
		return NewBrowserProvider(ctx, cfg, logger)
	case PlatformDevice:
		return NewDeviceProvider(ctx, cfg, logger)
	case PlatformMock:
		return NewMockProvider(&Identity{
			ID:          "mock-google-id",
			Email:       "dev@example.com",
			DisplayName: "Dev User",
		}), nil
	default:
		return nil, fmt.Errorf("unknown identity platform %q", platform)
	}
}
