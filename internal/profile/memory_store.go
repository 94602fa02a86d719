// File: internal/profile/memory_store.go
package profile

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryStore is an in-memory profile store. It backs the "mock" backend for
// offline development and is also used by tests.
type memoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*UserProfile
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory profile store.
func NewMemoryStore() Store {
	return &memoryStore{
		profiles: make(map[string]*UserProfile),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewMemoryStoreWithClock is like NewMemoryStore but with an injectable clock.
func NewMemoryStoreWithClock(now func() time.Time) Store {
	return &memoryStore{profiles: make(map[string]*UserProfile), now: now}
}

func (s *memoryStore) Create(ctx context.Context, seed CreateProfileSeed) (*UserProfile, error) {
	if err := ValidateSeed(seed); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[seed.GoogleID]; ok {
		return nil, ErrAlreadyExists
	}

	now := s.now()
	p := &UserProfile{
		ID:          seed.GoogleID,
		GoogleID:    seed.GoogleID,
		Email:       strings.ToLower(strings.TrimSpace(seed.Email)),
		Name:        seed.Name,
		PictureURL:  seed.PictureURL,
		CreatedAt:   now,
		LastLoginAt: now,
		Preferences: seed.Preferences,
	}
	s.profiles[p.ID] = p
	return p.Clone(), nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (*UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *memoryStore) Update(ctx context.Context, id string, updates Updates) (*UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}

	if updates.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*updates.Email))
	}
	if updates.Name != nil {
		p.Name = *updates.Name
	}
	if updates.PictureURL != nil {
		p.PictureURL = updates.PictureURL
	}
	if updates.Preferences != nil {
		p.Preferences = *updates.Preferences
	}
	p.LastLoginAt = s.now()
	return p.Clone(), nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
	return nil
}

func (s *memoryStore) TouchLastLogin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.LastLoginAt = s.now()
	return nil
}
