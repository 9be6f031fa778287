package validation

import (
	"github.com/templui/portfolio/internal/apperror"
)

type SignUpInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ValidateSignUp collects the first failure per field. A nil return means
// the input is well formed; it does not check for existing accounts.
func ValidateSignUp(in SignUpInput) error {
	details := map[string]string{}

	if err := ValidateSignUpName(in.Name); err != nil {
		details["name"] = err.Error()
	}

	if err := ValidateEmail(in.Email); err != nil {
		details["email"] = err.Error()
	}

	if err := ValidatePassword(in.Password); err != nil {
		details["password"] = err.Error()
	}

	switch {
	case in.ConfirmPassword == "":
		details["confirmPassword"] = "Please confirm your password"
	case in.ConfirmPassword != in.Password:
		details["confirmPassword"] = "Passwords do not match"
	}

	if len(details) > 0 {
		return apperror.InvalidFields("Validation failed", details)
	}
	return nil
}
