package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/validation"
)

type ContactSender interface {
	SendContactMessage(ctx context.Context, msg model.ContactMessage) error
}

type ContactService struct {
	sender ContactSender
}

func NewContactService(sender ContactSender) *ContactService {
	return &ContactService{sender: sender}
}

func (s *ContactService) Submit(ctx context.Context, msg model.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)

	err := validation.ValidateContact(msg)
	if err != nil {
		return err
	}

	err = s.sender.SendContactMessage(ctx, msg)
	if err != nil {
		return apperror.Infrastructure(fmt.Errorf("failed to deliver contact message: %w", err))
	}

	slog.Info("contact message delivered", "from", msg.Email)
	return nil
}
