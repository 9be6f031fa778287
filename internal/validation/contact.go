package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/model"
)

func ValidateContact(msg model.ContactMessage) error {
	details := map[string]string{}

	if err := ValidateName(msg.Name); err != nil {
		details["name"] = err.Error()
	}
	if err := ValidateEmail(strings.TrimSpace(msg.Email)); err != nil {
		details["email"] = err.Error()
	}

	n := utf8.RuneCountInString(strings.TrimSpace(msg.Message))
	switch {
	case n < 10:
		details["message"] = "Message must be at least 10 characters"
	case n > 5000:
		details["message"] = "Message cannot exceed 5000 characters"
	}

	if len(details) > 0 {
		return apperror.InvalidFields("Validation failed", details)
	}
	return nil
}
