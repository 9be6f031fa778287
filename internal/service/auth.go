package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/metrics"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/validation"
)

const AccountDisabledRedirect = "/auth/error?error=AccountDisabled"

const (
	msgInvalidCredentials  = "Invalid email or password"
	msgAccountDisabled     = "Your account has been disabled. Please contact support."
	msgOAuthOnly           = "This account uses social login. Please sign in with your social account."
	msgUnsupportedProvider = "Unsupported sign-in provider"
	msgEmailTaken          = "An account with this email already exists"
)

// WelcomeMailer sends the post-signup greeting.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, email, name string) error
}

// FederatedResult is either a signed-in user or a redirect that diverts the
// sign-in to the error surface.
type FederatedResult struct {
	User     *model.User
	Redirect string
}

type AuthService struct {
	users    repository.UserRepository
	hasher   *PasswordHasher
	resolver *IdentityResolver
	sessions *SessionBuilder
	mailer   WelcomeMailer
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	hasher *PasswordHasher,
	resolver *IdentityResolver,
	sessions *SessionBuilder,
	mailer WelcomeMailer,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		resolver: resolver,
		sessions: sessions,
		mailer:   mailer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) SignInCredentials(ctx context.Context, email, password string) (*model.User, error) {
	const method = "credentials"

	email = strings.TrimSpace(email)
	err := validation.ValidateCredentials(email, password)
	if err != nil {
		metrics.RecordSignIn(method, metrics.OutcomeInvalid)
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		s.hasher.VerifyDummy(password)
		return nil, reject(method, apperror.ReasonInvalidCredentials, msgInvalidCredentials)
	}
	if err != nil {
		metrics.RecordSignIn(method, metrics.OutcomeError)
		return nil, apperror.Infrastructure(fmt.Errorf("failed to look up user: %w", err))
	}

	if !user.IsActive {
		return nil, reject(method, apperror.ReasonDisabled, msgAccountDisabled)
	}

	if !user.HasPassword() {
		return nil, reject(method, apperror.ReasonOAuthOnly, msgOAuthOnly)
	}

	ok, err := s.hasher.Verify(password, *user.PasswordHash)
	if err != nil {
		metrics.RecordSignIn(method, metrics.OutcomeError)
		return nil, apperror.Infrastructure(err)
	}
	if !ok {
		return nil, reject(method, apperror.ReasonInvalidCredentials, msgInvalidCredentials)
	}

	metrics.RecordSignIn(method, metrics.OutcomeSuccess)
	slog.Info("user signed in", "user_id", user.ID, "provider", model.ProviderCredentials)
	return s.recordLogin(ctx, user), nil
}

// SignInFederated signs in through an identity provider. A disabled account
// yields a redirect instead of an error.
func (s *AuthService) SignInFederated(ctx context.Context, profile model.FederatedProfile) (*FederatedResult, error) {
	method := string(profile.Provider)
	if !profile.Provider.Federated() {
		return nil, reject("unknown", apperror.ReasonUnsupportedProvider, msgUnsupportedProvider)
	}

	if model.NormalizeEmail(profile.Email) == "" {
		metrics.RecordSignIn(method, metrics.OutcomeInvalid)
		return nil, apperror.Identity("No email found from OAuth provider")
	}

	existing, err := s.users.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil && !existing.IsActive:
		metrics.RecordSignIn(method, string(apperror.ReasonDisabled))
		slog.Warn("disabled account attempted federated sign-in", "user_id", existing.ID, "provider", profile.Provider)
		return &FederatedResult{Redirect: AccountDisabledRedirect}, nil
	case err != nil && !errors.Is(err, repository.ErrUserNotFound):
		metrics.RecordSignIn(method, metrics.OutcomeError)
		return nil, apperror.Infrastructure(fmt.Errorf("failed to look up user: %w", err))
	}

	user, err := s.resolver.Resolve(ctx, profile)
	if err != nil {
		metrics.RecordSignIn(method, metrics.OutcomeError)
		return nil, err
	}

	metrics.RecordSignIn(method, metrics.OutcomeSuccess)
	return &FederatedResult{User: user}, nil
}

func (s *AuthService) SignUp(ctx context.Context, in validation.SignUpInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	err := validation.ValidateSignUp(in)
	if err != nil {
		metrics.RecordSignUp(metrics.OutcomeInvalid)
		return nil, err
	}

	email := model.NormalizeEmail(in.Email)
	_, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		metrics.RecordSignUp(metrics.OutcomeConflict)
		return nil, apperror.Conflict(msgEmailTaken)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		metrics.RecordSignUp(metrics.OutcomeError)
		return nil, apperror.Infrastructure(fmt.Errorf("failed to look up user: %w", err))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		metrics.RecordSignUp(metrics.OutcomeError)
		return nil, apperror.Infrastructure(err)
	}

	user := &model.User{
		Name:                    in.Name,
		Email:                   email,
		PasswordHash:            &hash,
		Role:                    model.RoleUser,
		IsActive:                true,
		AuthProvider:            model.ProviderCredentials,
		NotificationPreferences: model.DefaultNotificationPreferences(),
	}

	err = s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		metrics.RecordSignUp(metrics.OutcomeConflict)
		return nil, apperror.Conflict(msgEmailTaken)
	}
	if err != nil {
		metrics.RecordSignUp(metrics.OutcomeError)
		return nil, apperror.Infrastructure(fmt.Errorf("failed to create user: %w", err))
	}

	metrics.RecordSignUp(metrics.OutcomeSuccess)
	slog.Info("user signed up", "user_id", user.ID)

	if s.mailer != nil {
		err = s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}

	return user, nil
}

// Refresh re-reads the record behind a session so the token can be
// re-issued with current role and profile fields.
func (s *AuthService) Refresh(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.NotFound("user", userID)
	}
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("failed to refresh session: %w", err))
	}
	return user, nil
}

func (s *AuthService) Sessions() *SessionBuilder {
	return s.sessions
}

// recordLogin bumps lastLogin. Failures are logged and never block sign-in.
func (s *AuthService) recordLogin(ctx context.Context, user *model.User) *model.User {
	now := s.now()
	updated, err := s.users.Update(ctx, user.ID, model.UserUpdate{LastLoginAt: &now})
	if err != nil {
		slog.Warn("failed to update last login", "error", err, "user_id", user.ID)
		return user
	}
	return updated
}

func reject(method string, reason apperror.Reason, message string) error {
	metrics.RecordSignIn(method, string(reason))
	return apperror.Authentication(reason, message)
}
