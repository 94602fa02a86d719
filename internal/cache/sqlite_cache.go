// File: internal/cache/sqlite_cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"puck_buddy_auth/internal/profile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const profileKey = "user_profile"

// cachedProfile is the single-row cache table: serialized profile plus the
// write instant the freshness window is computed from.
type cachedProfile struct {
	Key       string    `gorm:"type:varchar(64);primaryKey"`
	Payload   []byte    `gorm:"not null"`
	WrittenAt time.Time `gorm:"not null"`
}

func (cachedProfile) TableName() string {
	return "cached_profiles"
}

type sqliteCache struct {
	db     *gorm.DB
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteCache creates a profile cache on top of a local SQLite database.
func NewSQLiteCache(db *gorm.DB, ttl time.Duration, logger *zap.Logger) (Cache, error) {
	if err := db.AutoMigrate(&cachedProfile{}); err != nil {
		return nil, err
	}
	return &sqliteCache{
		db:     db,
		ttl:    ttl,
		logger: logger.Named("ProfileCache"),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// newSQLiteCacheWithClock is the test constructor with an injectable clock.
func newSQLiteCacheWithClock(db *gorm.DB, ttl time.Duration, logger *zap.Logger, now func() time.Time) (Cache, error) {
	c, err := NewSQLiteCache(db, ttl, logger)
	if err != nil {
		return nil, err
	}
	c.(*sqliteCache).now = now
	return c, nil
}

func (c *sqliteCache) Store(ctx context.Context, p *profile.UserProfile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	row := cachedProfile{Key: profileKey, Payload: payload, WrittenAt: c.now()}
	return c.db.WithContext(ctx).Save(&row).Error
}

func (c *sqliteCache) Get(ctx context.Context) (*profile.UserProfile, error) {
	var row cachedProfile
	err := c.db.WithContext(ctx).Where("key = ?", profileKey).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if c.expired(row.WrittenAt) {
		c.logger.Debug("Cached profile expired, deleting stale entry",
			zap.Time("written_at", row.WrittenAt))
		if err := c.Clear(ctx); err != nil {
			c.logger.Warn("Failed to delete stale cache entry", zap.Error(err))
		}
		return nil, nil
	}

	var p profile.UserProfile
	if err := json.Unmarshal(row.Payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *sqliteCache) Valid(ctx context.Context) (bool, error) {
	var row cachedProfile
	err := c.db.WithContext(ctx).
		Select("key", "written_at").
		Where("key = ?", profileKey).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return !c.expired(row.WrittenAt), nil
}

func (c *sqliteCache) Clear(ctx context.Context) error {
	return c.db.WithContext(ctx).Where("key = ?", profileKey).Delete(&cachedProfile{}).Error
}

func (c *sqliteCache) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl)
	res := c.db.WithContext(ctx).Where("written_at < ?", cutoff).Delete(&cachedProfile{})
	return res.RowsAffected, res.Error
}

// expired reports whether a write instant has aged past the TTL. An age of
// exactly the TTL is still fresh.
func (c *sqliteCache) expired(writtenAt time.Time) bool {
	return c.now().Sub(writtenAt) > c.ttl
}
