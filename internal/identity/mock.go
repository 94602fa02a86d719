// File: internal/identity/mock.go
package identity

import (
	"context"
	"sync"
)

// MockProvider is a scripted Provider for tests and offline development.
// Zero value: no session, sign-in fails with a nil identity.
type MockProvider struct {
	mu sync.Mutex

	// Scripted behavior.
	SignInIdentity *Identity
	SignInErr      error
	SignInTokens   *Tokens
	CurrentUserErr error

	// Call accounting.
	SignInCalls  int
	SignOutCalls int

	session       *Identity
	sessionTokens *Tokens
}

// NewMockProvider returns a provider whose SignIn succeeds with ident.
func NewMockProvider(ident *Identity) *MockProvider {
	return &MockProvider{
		SignInIdentity: ident,
		SignInTokens: &Tokens{
			AccessToken:  "mock-access-token",
			RefreshToken: "mock-refresh-token",
		},
	}
}

func (m *MockProvider) SignIn(ctx context.Context) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignInCalls++
	if m.SignInErr != nil {
		return nil, m.SignInErr
	}
	if m.SignInIdentity == nil {
		return nil, MapError(errNoAuthCode)
	}
	ident := *m.SignInIdentity
	m.session = &ident
	m.sessionTokens = m.SignInTokens
	out := ident
	return &out, nil
}

func (m *MockProvider) SignOut(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignOutCalls++
	m.session = nil
	m.sessionTokens = nil
}

func (m *MockProvider) CurrentUser(ctx context.Context) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CurrentUserErr != nil {
		return nil, m.CurrentUserErr
	}
	if m.session == nil {
		return nil, nil
	}
	out := *m.session
	return &out, nil
}

func (m *MockProvider) IsAuthenticated(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

func (m *MockProvider) Tokens(ctx context.Context) (*Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.sessionTokens == nil {
		return nil, nil
	}
	out := *m.sessionTokens
	return &out, nil
}

var _ Provider = (*MockProvider)(nil)
