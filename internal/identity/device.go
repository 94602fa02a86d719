// File: internal/identity/device.go
package identity

import (
	"context"
	"fmt"

	"puck_buddy_auth/internal/config"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

// DeviceProvider signs in with the OAuth device-authorization grant, for
// headless hosts where no browser can be opened.
type DeviceProvider struct {
	*googleCore

	// prompt shows the verification URL and user code. Swappable for tests.
	prompt func(verificationURL, userCode string)
}

func NewDeviceProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*DeviceProvider, error) {
	core, err := newGoogleCore(ctx, cfg, logger.Named("DeviceProvider"))
	if err != nil {
		return nil, err
	}
	// The OIDC discovery document does not expose the device endpoint.
	core.oauthCfg.Endpoint = google.Endpoint
	return &DeviceProvider{
		googleCore: core,
		prompt:     printDevicePrompt,
	}, nil
}

func (p *DeviceProvider) SignIn(ctx context.Context) (*Identity, error) {
	resp, err := p.oauthCfg.DeviceAuth(ctx)
	if err != nil {
		return nil, MapError(err)
	}

	p.logger.Info("Waiting for device-code confirmation",
		zap.String("verification_url", resp.VerificationURI))
	p.prompt(resp.VerificationURI, resp.UserCode)

	token, err := p.oauthCfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, MapError(err)
	}
	return p.adoptToken(ctx, token)
}

var _ Provider = (*DeviceProvider)(nil)

func printDevicePrompt(verificationURL, userCode string) {
	fmt.Printf("To sign in, open %s on another device and enter the code: %s\n", verificationURL, userCode)
}
