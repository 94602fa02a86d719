// File: internal/auth/coordinator.go
package auth

import (
	"context"
	"errors"
	"sync"

	"puck_buddy_auth/internal/cache"
	"puck_buddy_auth/internal/common"
	"puck_buddy_auth/internal/identity"
	"puck_buddy_auth/internal/profile"
	"puck_buddy_auth/internal/securestore"

	"go.uber.org/zap"
)

// Result is the outcome of an interactive auth operation. Identity carries
// the provider identity on success; Err carries a taxonomy error on failure.
type Result struct {
	Success  bool
	Identity *identity.Identity
	Err      error
}

// Listener observes state changes. Listeners are invoked synchronously after
// every transition and must not call back into the Coordinator.
type Listener func(State)

// Coordinator owns the in-memory authentication state and orchestrates the
// identity provider, profile store, profile cache and credential store. It is
// the single writer of State; all reads go through State().
type Coordinator struct {
	provider identity.Provider
	profiles profile.Store
	cache    cache.Cache
	secrets  securestore.Store
	logger   *zap.Logger

	// opMu serializes interactive auth operations. Interactive entry points
	// use TryLock and report a busy error instead of queueing behind an
	// in-flight sign-in.
	opMu sync.Mutex

	stateMu   sync.RWMutex
	state     State
	listeners []Listener
}

func NewCoordinator(
	provider identity.Provider,
	profiles profile.Store,
	profileCache cache.Cache,
	secrets securestore.Store,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		provider: provider,
		profiles: profiles,
		cache:    profileCache,
		secrets:  secrets,
		logger:   logger.Named("AuthCoordinator"),
		state:    State{IsLoading: true},
	}
}

// State returns a copy of the current authentication state.
func (c *Coordinator) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state.clone()
}

// Subscribe registers a listener for state changes. There is no unsubscribe:
// listeners live for the process, like the Coordinator itself.
func (c *Coordinator) Subscribe(l Listener) {
	c.stateMu.Lock()
	c.listeners = append(c.listeners, l)
	c.stateMu.Unlock()
}

// transition applies fn under the state lock and notifies listeners with the
// resulting snapshot.
func (c *Coordinator) transition(fn func()) {
	c.stateMu.Lock()
	fn()
	snapshot := c.state.clone()
	listeners := c.listeners
	c.stateMu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Initialize restores the session at process start. It tries the local cache
// first, then an existing provider session; storage failures settle on
// unauthenticated rather than blocking startup. A provider session with no
// matching profile is inconsistent and is torn down completely.
func (c *Coordinator) Initialize(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.transition(func() { c.setLoadingLocked(true) })

	cached, err := c.cache.Get(ctx)
	if err != nil {
		c.logger.Warn("Cache read failed during initialize", zap.Error(err))
	}
	if cached != nil {
		c.logger.Info("Session restored from cache", zap.String("user_id", cached.ID))
		c.transition(func() { c.setUserLocked(cached) })
		return nil
	}

	ident, err := c.provider.CurrentUser(ctx)
	if err != nil {
		c.logger.Warn("Provider session check failed during initialize", zap.Error(err))
		c.transition(func() { c.setUserLocked(nil) })
		return nil
	}
	if ident == nil {
		c.transition(func() { c.setUserLocked(nil) })
		return nil
	}

	p, err := c.profiles.Get(ctx, ident.ID)
	if errors.Is(err, profile.ErrNotFound) {
		// Provider session without a profile: tear everything down instead
		// of authenticating a user with no account record.
		c.logger.Warn("Provider session has no matching profile, signing out",
			zap.String("provider_id", ident.ID))
		c.teardownSession(ctx)
		return nil
	}
	if err != nil {
		c.logger.Warn("Profile fetch failed during initialize", zap.Error(err))
		c.transition(func() { c.setUserLocked(nil) })
		return nil
	}

	c.persistSession(ctx, p)
	c.logger.Info("Session restored from provider", zap.String("user_id", p.ID))
	c.transition(func() { c.setUserLocked(p) })
	return nil
}

// SignInWithGoogle runs the interactive sign-in flow. Sign-in never creates
// an account: when no profile exists for the provider identity, the provider
// session is undone and ACCOUNT_NOT_FOUND is reported.
func (c *Coordinator) SignInWithGoogle(ctx context.Context) Result {
	if !c.opMu.TryLock() {
		return Result{Err: common.ErrAuthInProgress}
	}
	defer c.opMu.Unlock()

	c.transition(func() {
		c.setLoadingLocked(true)
		c.state.Err = nil
	})

	ident, err := c.provider.SignIn(ctx)
	if err != nil {
		c.transition(func() { c.setErrorLocked(err) })
		return Result{Err: err}
	}

	p, err := c.profiles.Get(ctx, ident.ID)
	if errors.Is(err, profile.ErrNotFound) {
		c.logger.Info("Sign-in for unknown account, undoing provider session",
			zap.String("provider_id", ident.ID))
		c.provider.SignOut(ctx)
		notFound := common.ErrAccountNotFound
		c.transition(func() { c.setErrorLocked(notFound) })
		return Result{Err: notFound}
	}
	if err != nil {
		mapped := mapStorageError(err)
		c.transition(func() { c.setErrorLocked(mapped) })
		return Result{Err: mapped}
	}

	refreshed, err := c.profiles.Update(ctx, p.ID, profile.Updates{})
	if err != nil {
		c.logger.Warn("Last-login refresh failed", zap.Error(err))
		refreshed = p
	}

	c.persistSession(ctx, refreshed)
	c.transition(func() { c.setUserLocked(refreshed) })
	c.logger.Info("Signed in", zap.String("user_id", refreshed.ID))
	return Result{Success: true, Identity: ident}
}

// SignUpWithGoogle runs the interactive sign-up flow. Sign-up never becomes
// sign-in: when a profile already exists for the provider identity, the
// provider session is undone and ACCOUNT_EXISTS is reported.
func (c *Coordinator) SignUpWithGoogle(ctx context.Context) Result {
	if !c.opMu.TryLock() {
		return Result{Err: common.ErrAuthInProgress}
	}
	defer c.opMu.Unlock()

	c.transition(func() {
		c.setLoadingLocked(true)
		c.state.Err = nil
	})

	ident, err := c.provider.SignIn(ctx)
	if err != nil {
		c.transition(func() { c.setErrorLocked(err) })
		return Result{Err: err}
	}

	_, err = c.profiles.Get(ctx, ident.ID)
	if err == nil {
		c.logger.Info("Sign-up for existing account, undoing provider session",
			zap.String("provider_id", ident.ID))
		c.provider.SignOut(ctx)
		exists := common.ErrAccountExists
		c.transition(func() { c.setErrorLocked(exists) })
		return Result{Err: exists}
	}
	if !errors.Is(err, profile.ErrNotFound) {
		mapped := mapStorageError(err)
		c.transition(func() { c.setErrorLocked(mapped) })
		return Result{Err: mapped}
	}

	seed := profile.CreateProfileSeed{
		GoogleID:    ident.ID,
		Email:       ident.Email,
		Name:        ident.DisplayName,
		Preferences: profile.DefaultPreferences(),
	}
	if ident.PictureURL != "" {
		pic := ident.PictureURL
		seed.PictureURL = &pic
	}

	created, err := c.profiles.Create(ctx, seed)
	if err != nil {
		mapped := mapStorageError(err)
		c.provider.SignOut(ctx)
		c.transition(func() { c.setErrorLocked(mapped) })
		return Result{Err: mapped}
	}

	c.persistSession(ctx, created)
	c.transition(func() { c.setUserLocked(created) })
	c.logger.Info("Signed up", zap.String("user_id", created.ID))
	return Result{Success: true, Identity: ident}
}

// SignOut tears down the provider session, credentials, cache and in-memory
// state. Local teardown always completes even when the provider call fails.
func (c *Coordinator) SignOut(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.teardownSession(ctx)
	c.logger.Info("Signed out")
}

// RefreshUser re-fetches the session profile from the store and refreshes the
// cache. Failures are non-fatal: the existing session user stays valid. A
// concurrent auth operation skips the refresh.
func (c *Coordinator) RefreshUser(ctx context.Context) {
	if !c.opMu.TryLock() {
		return
	}
	defer c.opMu.Unlock()

	c.stateMu.RLock()
	user := c.state.User
	c.stateMu.RUnlock()
	if user == nil {
		return
	}

	p, err := c.profiles.Get(ctx, user.ID)
	if err != nil {
		c.logger.Warn("Profile refresh failed", zap.Error(err), zap.String("user_id", user.ID))
		return
	}
	if err := c.cache.Store(ctx, p); err != nil {
		c.logger.Warn("Cache refresh failed", zap.Error(err))
	}
	c.transition(func() { c.setUserLocked(p) })
}

// teardownSession clears the provider session, secrets, cache and state.
// Every step runs regardless of earlier failures. Callers hold opMu.
func (c *Coordinator) teardownSession(ctx context.Context) {
	c.provider.SignOut(ctx)
	if err := c.secrets.ClearAuthData(ctx); err != nil {
		c.logger.Warn("Credential clear failed during sign-out", zap.Error(err))
	}
	if err := c.cache.Clear(ctx); err != nil {
		c.logger.Warn("Cache clear failed during sign-out", zap.Error(err))
	}
	c.transition(func() { c.resetLocked() })
}

// persistSession writes the profile to the cache and the session credentials
// to the secure store. Both are best-effort: the authoritative copy is the
// in-memory state backed by the profile store.
func (c *Coordinator) persistSession(ctx context.Context, p *profile.UserProfile) {
	if err := c.cache.Store(ctx, p); err != nil {
		c.logger.Warn("Cache write failed", zap.Error(err), zap.String("user_id", p.ID))
	}

	tokens, err := c.provider.Tokens(ctx)
	if err != nil {
		c.logger.Warn("Token fetch failed while persisting session", zap.Error(err))
	}
	if tokens != nil {
		if err := c.secrets.StoreAccessToken(ctx, tokens.AccessToken); err != nil {
			c.logger.Warn("Access token store failed", zap.Error(err))
		}
		if tokens.RefreshToken != "" {
			if err := c.secrets.StoreRefreshToken(ctx, tokens.RefreshToken); err != nil {
				c.logger.Warn("Refresh token store failed", zap.Error(err))
			}
		}
	}
	if err := c.secrets.StoreUserID(ctx, p.ID); err != nil {
		c.logger.Warn("User id store failed", zap.Error(err))
	}
}

// mapStorageError converts store-level failures on critical paths into the
// user-facing taxonomy.
func mapStorageError(err error) error {
	if _, ok := common.IsAuthError(err); ok {
		return err
	}
	return common.ErrAuthFailed.WithDetails(common.SanitizeErrorMessage(err))
}
