package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/portfolio/internal/apperror"
)

func validSignUp() SignUpInput {
	return SignUpInput{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "Secret#1",
		ConfirmPassword: "Secret#1",
	}
}

func TestValidateSignUp_Valid(t *testing.T) {
	assert.NoError(t, ValidateSignUp(validSignUp()))
}

func TestValidateSignUp_FieldDetails(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignUpInput)
		field  string
		want   string
	}{
		{"short name", func(in *SignUpInput) { in.Name = "A" }, "name", "Name must be at least 2 characters"},
		{"long name", func(in *SignUpInput) { in.Name = strings.Repeat("a", 51) }, "name", "Name must be less than 50 characters"},
		{"digits in name", func(in *SignUpInput) { in.Name = "Ada 2" }, "name", "Name can only contain letters and spaces"},
		{"bad email", func(in *SignUpInput) { in.Email = "ada@" }, "email", "Please enter a valid email address"},
		{"no uppercase", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "secret#1", "secret#1" }, "password", "Password must contain at least one uppercase letter"},
		{"no lowercase", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "SECRET#1", "SECRET#1" }, "password", "Password must contain at least one lowercase letter"},
		{"no digit", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "Secret#x", "Secret#x" }, "password", "Password must contain at least one number"},
		{"no symbol", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "Secret12", "Secret12" }, "password", "Password must contain at least one special character"},
		{"too long", func(in *SignUpInput) {
			p := "Aa1#" + strings.Repeat("x", 97)
			in.Password, in.ConfirmPassword = p, p
		}, "password", "Password is too long"},
		{"mismatch", func(in *SignUpInput) { in.ConfirmPassword = "Secret#2" }, "confirmPassword", "Passwords do not match"},
		{"missing confirmation", func(in *SignUpInput) { in.ConfirmPassword = "" }, "confirmPassword", "Please confirm your password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSignUp()
			tt.mutate(&in)

			err := ValidateSignUp(in)
			require.Error(t, err)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, tt.want, appErr.Details[tt.field])
		})
	}
}

func TestValidateProfile(t *testing.T) {
	phone := "+1 (555) 010-2030"
	assert.NoError(t, ValidateProfile(ProfileInput{Phone: &phone}))

	badPhone := "call me"
	longBio := strings.Repeat("b", 501)
	err := ValidateProfile(ProfileInput{Phone: &badPhone, Bio: &longBio})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "phone")
	assert.Contains(t, appErr.Details, "bio")
	assert.NotContains(t, appErr.Details, "name")
}
