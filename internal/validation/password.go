package validation

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

const MaxPasswordLength = 100

var passwordRules = []struct {
	pattern *regexp.Regexp
	message string
}{
	{regexp.MustCompile(`[A-Z]`), "Password must contain at least one uppercase letter"},
	{regexp.MustCompile(`[a-z]`), "Password must contain at least one lowercase letter"},
	{regexp.MustCompile(`[0-9]`), "Password must contain at least one number"},
	{regexp.MustCompile(`[^A-Za-z0-9]`), "Password must contain at least one special character"},
}

// ValidatePassword enforces sign-up password strength.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return errors.New("Password must be at least 6 characters")
	}
	if n > MaxPasswordLength {
		return errors.New("Password is too long")
	}

	for _, rule := range passwordRules {
		if !rule.pattern.MatchString(password) {
			return errors.New(rule.message)
		}
	}

	return nil
}
