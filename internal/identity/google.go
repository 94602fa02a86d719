// File: internal/identity/google.go
package identity

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"puck_buddy_auth/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	googleIssuer    = "https://accounts.google.com"
	googleRevokeURL = "https://oauth2.googleapis.com/revoke"
)

var googleScopes = []string{oidc.ScopeOpenID, "profile", "email"}

var errMissingIDToken = errors.New("token response missing id_token")

// session is the in-memory provider session. The token source refreshes the
// access token transparently when a refresh token was granted.
type session struct {
	identity Identity
	token    *oauth2.Token
	source   oauth2.TokenSource
}

// googleCore holds the OAuth client state shared by the browser and device
// providers. It owns the session and the ID-token verification path.
type googleCore struct {
	oauthCfg *oauth2.Config
	verifier *oidc.IDTokenVerifier
	logger   *zap.Logger

	mu      sync.Mutex
	session *session
}

func newGoogleCore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*googleCore, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, MapError(err)
	}
	return &googleCore{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       googleScopes,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.GoogleClientID}),
		logger:   logger,
	}, nil
}

type googleClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// adoptToken verifies the ID token carried by an exchanged OAuth token and
// installs the resulting session.
func (g *googleCore) adoptToken(ctx context.Context, token *oauth2.Token) (*Identity, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, MapError(errMissingIDToken)
	}
	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, MapError(err)
	}
	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, MapError(err)
	}

	ident := Identity{
		ID:          claims.Subject,
		Email:       strings.ToLower(claims.Email),
		DisplayName: claims.Name,
		PictureURL:  claims.Picture,
	}
	if ident.DisplayName == "" {
		ident.DisplayName = ident.Email
	}

	g.mu.Lock()
	g.session = &session{
		identity: ident,
		token:    token,
		source:   g.oauthCfg.TokenSource(context.WithoutCancel(ctx), token),
	}
	g.mu.Unlock()

	g.logger.Info("Provider session established", zap.String("subject", ident.ID))
	out := ident
	return &out, nil
}

func (g *googleCore) CurrentUser(ctx context.Context) (*Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil, nil
	}
	if !g.session.token.Valid() {
		refreshed, err := g.session.source.Token()
		if err != nil {
			g.logger.Warn("Session refresh failed, dropping session", zap.Error(err))
			g.session = nil
			return nil, MapError(err)
		}
		g.session.token = refreshed
	}
	out := g.session.identity
	return &out, nil
}

func (g *googleCore) IsAuthenticated(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session != nil
}

func (g *googleCore) Tokens(ctx context.Context) (*Tokens, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil, nil
	}
	if !g.session.token.Valid() {
		refreshed, err := g.session.source.Token()
		if err != nil {
			return nil, MapError(err)
		}
		g.session.token = refreshed
	}
	out := Tokens{
		AccessToken:  g.session.token.AccessToken,
		RefreshToken: g.session.token.RefreshToken,
	}
	if raw, ok := g.session.token.Extra("id_token").(string); ok {
		out.IDToken = raw
	}
	return &out, nil
}

// SignOut revokes the access token with Google and drops the session. Both
// steps are best-effort.
func (g *googleCore) SignOut(ctx context.Context) {
	g.mu.Lock()
	sess := g.session
	g.session = nil
	g.mu.Unlock()

	if sess == nil {
		return
	}
	if err := revokeToken(ctx, sess.token.AccessToken); err != nil {
		g.logger.Warn("Token revocation failed", zap.Error(err))
	}
}

func revokeToken(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	form := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleRevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
