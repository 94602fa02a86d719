// File: internal/profile/gorm_store.go
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGORMStore creates a profile store backed by a GORM database.
func NewGORMStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&UserProfile{}); err != nil {
		return nil, err
	}
	return &gormStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *gormStore) Create(ctx context.Context, seed CreateProfileSeed) (*UserProfile, error) {
	if err := ValidateSeed(seed); err != nil {
		return nil, err
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

	err := s.db.WithContext(ctx).Create(p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return p, nil
}

func (s *gormStore) Get(ctx context.Context, id string) (*UserProfile, error) {
	var p UserProfile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) Update(ctx context.Context, id string, updates Updates) (*UserProfile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
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

	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *gormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&UserProfile{}).Error
}

func (s *gormStore) TouchLastLogin(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).
		Model(&UserProfile{}).
		Where("id = ?", id).
		Update("last_login_at", s.now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
