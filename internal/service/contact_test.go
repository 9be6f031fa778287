package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/model"
)

type recordingSender struct {
	got []model.ContactMessage
	err error
}

func (s *recordingSender) SendContactMessage(_ context.Context, msg model.ContactMessage) error {
	s.got = append(s.got, msg)
	return s.err
}

func TestContactService_Submit(t *testing.T) {
	sender := &recordingSender{}
	err := NewContactService(sender).Submit(context.Background(), model.ContactMessage{
		Name:    " Ada ",
		Email:   " ada@example.com ",
		Message: "  Let's build something together.  ",
	})
	require.NoError(t, err)
	require.Len(t, sender.got, 1)
	assert.Equal(t, model.ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Let's build something together."}, sender.got[0])
}

func TestContactService_Invalid(t *testing.T) {
	sender := &recordingSender{}
	err := NewContactService(sender).Submit(context.Background(), model.ContactMessage{Name: "A", Email: "nope", Message: "short"})
	require.ErrorIs(t, err, apperror.ErrValidation)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Details, 3)
	assert.Empty(t, sender.got)
}

func TestContactService_DeliveryFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("resend: 503")}
	err := NewContactService(sender).Submit(context.Background(), model.ContactMessage{
		Name: "Ada", Email: "ada@example.com", Message: "Hello from the contact form.",
	})
	assert.ErrorIs(t, err, apperror.ErrInfrastructure)
}
