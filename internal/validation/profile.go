package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/templui/portfolio/internal/apperror"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

const (
	maxAddressLength = 200
	maxBioLength     = 500
)

func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return errors.New("Please provide a valid phone number")
	}
	return nil
}

func ValidateAddress(address string) error {
	if utf8.RuneCountInString(address) > maxAddressLength {
		return errors.New("Address cannot exceed 200 characters")
	}
	return nil
}

func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > maxBioLength {
		return errors.New("Bio cannot exceed 500 characters")
	}
	return nil
}

type ProfileInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Bio     *string `json:"bio"`
}

// ValidateProfile checks only the fields that are present.
func ValidateProfile(in ProfileInput) error {
	details := map[string]string{}

	if in.Name != nil {
		if err := ValidateName(*in.Name); err != nil {
			details["name"] = err.Error()
		}
	}
	if in.Phone != nil {
		if err := ValidatePhone(strings.TrimSpace(*in.Phone)); err != nil {
			details["phone"] = err.Error()
		}
	}
	if in.Address != nil {
		if err := ValidateAddress(strings.TrimSpace(*in.Address)); err != nil {
			details["address"] = err.Error()
		}
	}
	if in.Bio != nil {
		if err := ValidateBio(strings.TrimSpace(*in.Bio)); err != nil {
			details["bio"] = err.Error()
		}
	}

	if len(details) > 0 {
		return apperror.InvalidFields("Validation failed", details)
	}
	return nil
}
