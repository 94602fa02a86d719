// File: internal/identity/browser.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"puck_buddy_auth/internal/config"
	"puck_buddy_auth/internal/platform/crypto"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var (
	errStateMismatch = errors.New("authorization response state mismatch")
	errNoAuthCode    = errors.New("authorization response carried no code")
)

// BrowserProvider signs in through the system browser using the
// authorization-code flow with PKCE and a loopback redirect listener.
type BrowserProvider struct {
	*googleCore
	port int

	// openURL is swappable for tests.
	openURL func(url string) error
}

func NewBrowserProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*BrowserProvider, error) {
	core, err := newGoogleCore(ctx, cfg, logger.Named("BrowserProvider"))
	if err != nil {
		return nil, err
	}
	core.oauthCfg.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d/callback", cfg.OAuthLoopbackPort)
	return &BrowserProvider{
		googleCore: core,
		port:       cfg.OAuthLoopbackPort,
		openURL:    openBrowser,
	}, nil
}

type callbackResult struct {
	code string
	err  error
}

func (p *BrowserProvider) SignIn(ctx context.Context) (*Identity, error) {
	state, err := crypto.GenerateSecureRandomString(16)
	if err != nil {
		return nil, MapError(err)
	}
	pkceVerifier := oauth2.GenerateVerifier()

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p.port))
	if err != nil {
		return nil, MapError(err)
	}

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "State mismatch.", http.StatusBadRequest)
			results <- callbackResult{err: errStateMismatch}
		case q.Get("error") != "":
			http.Error(w, "Sign-in was not completed. You can close this tab.", http.StatusOK)
			results <- callbackResult{err: &oauth2.RetrieveError{ErrorCode: q.Get("error")}}
		case q.Get("code") == "":
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
			results <- callbackResult{err: errNoAuthCode}
		default:
			fmt.Fprintln(w, "Signed in! You can close this tab and return to the app.")
			results <- callbackResult{code: q.Get("code")}
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go server.Serve(listener)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	authURL := p.oauthCfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(pkceVerifier),
	)
	p.logger.Info("Opening browser for sign-in", zap.Int("loopback_port", p.port))
	if err := p.openURL(authURL); err != nil {
		p.logger.Warn("Could not open browser, falling back to manual URL", zap.Error(err))
		fmt.Printf("Open this URL in your browser to sign in:\n\n  %s\n\n", authURL)
	}

	var result callbackResult
	select {
	case <-ctx.Done():
		return nil, MapError(ctx.Err())
	case result = <-results:
	}
	if result.err != nil {
		return nil, MapError(result.err)
	}

	token, err := p.oauthCfg.Exchange(ctx, result.code, oauth2.VerifierOption(pkceVerifier))
	if err != nil {
		return nil, MapError(err)
	}
	ident, err := p.adoptToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return ident, nil
}

var _ Provider = (*BrowserProvider)(nil)

// openBrowser launches the platform default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
