package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/templui/portfolio/internal/model"
)

var ErrEmailNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

type EmailService struct {
	client       *resend.Client
	fromEmail    string
	contactEmail string
	isDev        bool
	appURL       string
	appName      string
}

func NewEmailService(apiKey, fromEmail, contactEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:       client,
		fromEmail:    fromEmail,
		contactEmail: contactEmail,
		isDev:        isDev,
		appURL:       appURL,
		appName:      appName,
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	signInURL := fmt.Sprintf("%s/auth/signin", s.appURL)
	subject, body := welcomeEmailTemplate(name, signInURL, s.appName)

	return s.send(ctx, "welcome", &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	})
}

// SendContactMessage forwards a contact form submission to the site owner.
// Replies go straight to the sender.
func (s *EmailService) SendContactMessage(ctx context.Context, msg model.ContactMessage) error {
	subject, body := contactEmailTemplate(msg, s.appName)

	return s.send(ctx, "contact", &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.contactEmail},
		ReplyTo: msg.Email,
		Subject: subject,
		Text:    body,
	})
}

func (s *EmailService) send(ctx context.Context, kind string, params *resend.SendEmailRequest) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", params.To, "subject", params.Subject)
		return nil
	}

	if s.client == nil {
		return ErrEmailNotConfigured
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", params.To)
	return nil
}
