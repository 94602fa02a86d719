// File: internal/identity/identity_test.go
package identity

import (
	"context"
	"runtime"
	"testing"

	"puck_buddy_auth/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDetectPlatformExplicit(t *testing.T) {
	for _, platform := range []string{PlatformBrowser, PlatformDevice, PlatformMock} {
		cfg := &config.Config{IdentityPlatform: platform}
		assert.Equal(t, platform, DetectPlatform(cfg))
	}
}

func TestDetectPlatformAuto(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("desktop platforms always resolve to the browser flow")
	}

	cfg := &config.Config{IdentityPlatform: "auto"}

	t.Setenv("DISPLAY", ":0")
	assert.Equal(t, PlatformBrowser, DetectPlatform(cfg))

	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	assert.Equal(t, PlatformDevice, DetectPlatform(cfg))
}

func TestNewProviderMock(t *testing.T) {
	cfg := &config.Config{IdentityPlatform: PlatformMock}

	p, err := NewProvider(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	mock, ok := p.(*MockProvider)
	require.True(t, ok)

	ident, err := mock.SignIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mock-google-id", ident.ID)
}

func TestNewProviderUnknownPlatform(t *testing.T) {
	cfg := &config.Config{IdentityPlatform: "carrier-pigeon"}
	_, err := NewProvider(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
