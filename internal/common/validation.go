// File: internal/common/validation.go
package common

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether email has a plausible address shape.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// SanitizeUserInput trims whitespace and strips angle brackets from
// user-supplied text before it is persisted or displayed.
func SanitizeUserInput(input string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(input))
}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)key`),
	regexp.MustCompile(`(?i)secret`),
	regexp.MustCompile(`(?i)password`),
	regexp.MustCompile(`(?i)auth`),
}

// SanitizeErrorMessage redacts credential-adjacent words from an error before
// it can reach a log line or a screen.
func SanitizeErrorMessage(err error) string {
	if err == nil {
		return "Unknown error"
	}
	msg := err.Error()
	for _, p := range sensitivePatterns {
		msg = p.ReplaceAllString(msg, "[REDACTED]")
	}
	return msg
}

// AgeCheck is the result of a COPPA age validation.
type AgeCheck struct {
	IsValid                 bool
	RequiresParentalConsent bool
}

// ValidateAge computes age from birthDate and flags accounts that need
// parental consent (children under 13).
func ValidateAge(birthDate, now time.Time) AgeCheck {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	return AgeCheck{
		IsValid:                 age >= 0 && age <= 120,
		RequiresParentalConsent: age < 13,
	}
}
