package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var lettersAndSpaces = regexp.MustCompile(`^[a-zA-Z\s]*$`)

// ValidateSignUpName applies the sign-up rules: 2-50 letters and spaces.
func ValidateSignUpName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return errors.New("Name must be at least 2 characters")
	}
	if n > 50 {
		return errors.New("Name must be less than 50 characters")
	}
	if !lettersAndSpaces.MatchString(name) {
		return errors.New("Name can only contain letters and spaces")
	}
	return nil
}

// ValidateName validates a stored display name (profile edits, contact form).
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("Name is required")
	}

	n := utf8.RuneCountInString(trimmed)
	if n < 2 {
		return errors.New("Name must be at least 2 characters")
	}
	if n > 100 {
		return errors.New("Name cannot exceed 100 characters")
	}

	return nil
}
