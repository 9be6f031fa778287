package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
)

// IdentityResolver finds or creates the directory record for a federated
// identity. Merges never clear a field or replace an established provider.
type IdentityResolver struct {
	users repository.UserRepository
	now   func() time.Time
}

func NewIdentityResolver(users repository.UserRepository) *IdentityResolver {
	return &IdentityResolver{
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *IdentityResolver) Resolve(ctx context.Context, profile model.FederatedProfile) (*model.User, error) {
	email := model.NormalizeEmail(profile.Email)
	if email == "" {
		return nil, apperror.Identity("No email found from OAuth provider")
	}

	user, err := r.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = r.create(ctx, email, profile)
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			return user, err
		}
		// Lost a creation race; merge into the winner
		user, err = r.users.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("failed to look up user: %w", err))
	}

	return r.merge(ctx, user, profile)
}

func (r *IdentityResolver) create(ctx context.Context, email string, profile model.FederatedProfile) (*model.User, error) {
	now := r.now()
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = "User"
	}

	user := &model.User{
		Name:                    name,
		Email:                   email,
		Role:                    model.RoleUser,
		IsActive:                true,
		EmailVerifiedAt:         &now,
		LastLoginAt:             &now,
		AuthProvider:            profile.Provider,
		NotificationPreferences: model.DefaultNotificationPreferences(),
	}
	if profile.Image != "" {
		image := profile.Image
		user.Image = &image
	}

	err := r.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, err
	}
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("failed to create user: %w", err))
	}

	slog.Info("new OAuth user created", "user_id", user.ID, "provider", profile.Provider)
	return user, nil
}

func (r *IdentityResolver) merge(ctx context.Context, user *model.User, profile model.FederatedProfile) (*model.User, error) {
	now := r.now()
	upd := model.UserUpdate{LastLoginAt: &now}

	if name := strings.TrimSpace(profile.Name); name != "" {
		upd.Name = &name
	}
	if profile.Image != "" {
		image := profile.Image
		upd.Image = &image
	}
	if user.AuthProvider == "" && profile.Provider != "" {
		provider := profile.Provider
		upd.AuthProvider = &provider
	}
	if user.EmailVerifiedAt == nil {
		upd.EmailVerifiedAt = &now
	}

	updated, err := r.users.Update(ctx, user.ID, upd)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("failed to update user: %w", err))
	}

	slog.Info("user authenticated via OAuth", "user_id", updated.ID, "provider", profile.Provider)
	return updated, nil
}
