package validation

import (
	"regexp"
	"unicode/utf8"

	"github.com/templui/portfolio/internal/apperror"
)

const MinPasswordLength = 6

var simpleEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCredentials checks the shape of a sign-in attempt. Rules run in
// order and the first failure is returned. It never touches storage.
func ValidateCredentials(email, password string) error {
	if email == "" || password == "" {
		return apperror.ValidationFailed("credentials", "Email and password are required")
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperror.ValidationFailed("password", "Password must be at least 6 characters")
	}

	if !simpleEmailPattern.MatchString(email) {
		return apperror.ValidationFailed("email", "Invalid email format")
	}

	return nil
}
