// File: internal/profile/validate.go
package profile

import (
	"errors"
	"fmt"
	"strings"

	"puck_buddy_auth/internal/common"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateSeed checks the required fields of a profile seed before it is
// persisted. Email failures map to the invalid-email taxonomy entry; every
// other validation failure is a storage-class error.
func ValidateSeed(seed CreateProfileSeed) error {
	err := validate.Struct(seed)
	if err == nil {
		if seed.Preferences.Theme != "" {
			if vErr := validate.Var(seed.Preferences.Theme, "oneof=light dark"); vErr != nil {
				return common.ErrStorage.WithDetails("preferences.theme must be light or dark")
			}
		}
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make(map[string]string, len(validationErrors))
		invalidEmail := false
		for _, fe := range validationErrors {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				details[field] = fmt.Sprintf("The %s field is required.", field)
			case "email":
				details[field] = fmt.Sprintf("The %s field must be a valid email address.", field)
				invalidEmail = true
			default:
				details[field] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", field, fe.Tag())
			}
		}
		if invalidEmail {
			return common.ErrInvalidEmail.WithDetails(details)
		}
		return common.ErrStorage.WithDetails(details)
	}
	return common.ErrStorage.WithDetails(err.Error())
}

// allowedProfileFields is the complete field set a stored profile may carry;
// anything beyond it violates the minimal-data-collection rule.
var allowedProfileFields = map[string]struct{}{
	"id": {}, "googleId": {}, "email": {}, "name": {},
	"profilePicture": {}, "createdAt": {}, "lastLoginAt": {}, "preferences": {},
}

// ValidateMinimalDataCollection reports whether the given serialized field
// names stay within the allowed profile schema.
func ValidateMinimalDataCollection(fields []string) bool {
	for _, f := range fields {
		if _, ok := allowedProfileFields[f]; !ok {
			return false
		}
	}
	return true
}
