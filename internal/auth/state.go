// File: internal/auth/state.go
package auth

import (
	"puck_buddy_auth/internal/profile"
)

// State is the in-memory, session-scoped authentication state. It is rebuilt
// from the cache, credential store and provider session on every process
// start; the zero value (unauthenticated, not loading) is the signed-out
// shape.
type State struct {
	IsAuthenticated bool
	IsLoading       bool
	User            *profile.UserProfile
	Err             error
}

// clone deep-copies the state so observers never share the session profile.
func (s State) clone() State {
	out := s
	out.User = s.User.Clone()
	return out
}

// The four state transitions. Callers must hold c.stateMu.

func (c *Coordinator) setLoadingLocked(loading bool) {
	c.state.IsLoading = loading
}

// setUserLocked installs user as the session user. A nil user still clears
// loading and error: it means "checked, not signed in".
func (c *Coordinator) setUserLocked(user *profile.UserProfile) {
	c.state.User = user
	c.state.IsAuthenticated = user != nil
	c.state.Err = nil
	c.state.IsLoading = false
}

func (c *Coordinator) setErrorLocked(err error) {
	c.state.Err = err
	c.state.IsLoading = false
}

func (c *Coordinator) resetLocked() {
	c.state = State{}
}
