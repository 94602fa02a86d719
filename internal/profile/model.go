// File: internal/profile/model.go
package profile

import (
	"time"
)

// Theme values for user preferences.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences holds the per-user presentation settings.
type Preferences struct {
	Theme         string `json:"theme" firestore:"theme" gorm:"column:pref_theme;type:varchar(10);not null;default:'light'" validate:"omitempty,oneof=light dark"`
	Notifications bool   `json:"notifications" firestore:"notifications" gorm:"column:pref_notifications;not null;default:true"`
}

// DefaultPreferences are applied to every newly created account.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, Notifications: true}
}

// UserProfile is the durable account record. The document/row ID equals the
// Google provider id, which enforces one profile per provider identity.
type UserProfile struct {
	ID          string      `json:"id" firestore:"id" gorm:"type:varchar(255);primaryKey"`
	GoogleID    string      `json:"googleId" firestore:"googleId" gorm:"type:varchar(255);not null;uniqueIndex"`
	Email       string      `json:"email" firestore:"email" gorm:"type:varchar(255);not null;index"`
	Name        string      `json:"name" firestore:"name" gorm:"type:varchar(255);not null"`
	PictureURL  *string     `json:"profilePicture,omitempty" firestore:"profilePicture,omitempty" gorm:"type:text"`
	CreatedAt   time.Time   `json:"createdAt" firestore:"createdAt" gorm:"not null"`
	LastLoginAt time.Time   `json:"lastLoginAt" firestore:"lastLoginAt" gorm:"not null"`
	Preferences Preferences `json:"preferences" firestore:"preferences" gorm:"embedded"`
}

// TableName specifies the table name for the UserProfile model.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// Clone returns a deep copy so callers can hand profiles across goroutines
// without sharing mutable state.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.PictureURL != nil {
		pic := *p.PictureURL
		cp.PictureURL = &pic
	}
	return &cp
}

// CreateProfileSeed carries the fields needed to create a new profile from a
// provider identity.
type CreateProfileSeed struct {
	GoogleID    string  `validate:"required"`
	Email       string  `validate:"required,email"`
	Name        string  `validate:"required"`
	PictureURL  *string
	Preferences Preferences
}

// Updates describes a partial profile update. Nil fields are left untouched.
type Updates struct {
	Email       *string
	Name        *string
	PictureURL  *string
	Preferences *Preferences
}
