// File: internal/common/validation_test.go
package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"parent+kid@family.co.uk", true},
		{"", false},
		{"not-an-email", false},
		{"a@b", false},
		{"a b@c.com", false},
		{"a@b c.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateEmail(tt.email), tt.email)
	}
}

func TestSanitizeUserInput(t *testing.T) {
	assert.Equal(t, "Ann", SanitizeUserInput("  Ann  "))
	assert.Equal(t, "scriptalert(1)/script", SanitizeUserInput("<script>alert(1)</script>"))
}

func TestSanitizeErrorMessage(t *testing.T) {
	msg := SanitizeErrorMessage(errors.New("bad token: secret key rejected by auth server"))
	for _, word := range []string{"token", "secret", "key", "auth"} {
		assert.NotContains(t, msg, word)
	}
	assert.Contains(t, msg, "[REDACTED]")

	assert.Equal(t, "Unknown error", SanitizeErrorMessage(nil))
}

func TestValidateAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		birthDate   time.Time
		valid       bool
		needConsent bool
	}{
		{"teenager", time.Date(2010, 1, 15, 0, 0, 0, 0, time.UTC), true, false},
		{"just turned 13", time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC), true, false},
		{"under 13", time.Date(2013, 6, 2, 0, 0, 0, 0, time.UTC), true, true},
		{"birthday not yet this year", time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), true, true},
		{"born in the future", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), false, true},
		{"implausibly old", time.Date(1890, 1, 1, 0, 0, 0, 0, time.UTC), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := ValidateAge(tt.birthDate, now)
			assert.Equal(t, tt.valid, check.IsValid)
			assert.Equal(t, tt.needConsent, check.RequiresParentalConsent)
		})
	}
}
