package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/validation"
)

// AdminUserUpdate is what an administrator may change on another account.
type AdminUserUpdate struct {
	Role     *model.Role `json:"role"`
	IsActive *bool       `json:"isActive"`
}

// ProfileUpdate is the self-service subset of a user record.
type ProfileUpdate struct {
	validation.ProfileInput
	NotificationPreferences *model.NotificationPreferences `json:"notificationPreferences"`
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	return user, classifyLookup(err, id)
}

func (s *UserService) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	return user, classifyLookup(err, email)
}

// List returns one page of users matching the filter together with the
// total count for the same filter.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]model.User, int, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, apperror.ValidationFailed("role", "Invalid role")
	}
	if filter.Provider != "" && !filter.Provider.Valid() {
		return nil, 0, apperror.ValidationFailed("provider", "Invalid provider")
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Infrastructure(fmt.Errorf("failed to list users: %w", err))
	}

	count := len(users)
	if filter.Limit > 0 || filter.Offset > 0 {
		count, err = s.users.Count(ctx, filter)
		if err != nil {
			return nil, 0, apperror.Infrastructure(fmt.Errorf("failed to count users: %w", err))
		}
	}
	return users, count, nil
}

// AdminUpdate applies a role or activation change made by actorID.
// An empty actorID marks an out-of-band change from the admin CLI, which
// skips the self-modification guard.
func (s *UserService) AdminUpdate(ctx context.Context, actorID, targetID string, in AdminUserUpdate) (*model.User, error) {
	if in.Role == nil && in.IsActive == nil {
		return nil, apperror.ValidationFailed("", "Nothing to update")
	}
	if in.Role != nil && !in.Role.Valid() {
		return nil, apperror.ValidationFailed("role", "Invalid role")
	}

	if actorID != "" && actorID == targetID {
		if in.Role != nil {
			return nil, apperror.Forbidden("You cannot change your own role")
		}
		if in.IsActive != nil && !*in.IsActive {
			return nil, apperror.Forbidden("You cannot deactivate your own account")
		}
	}

	user, err := s.users.Update(ctx, targetID, model.UserUpdate{Role: in.Role, IsActive: in.IsActive})
	if err := classifyLookup(err, targetID); err != nil {
		return nil, err
	}

	slog.Info("user updated by admin",
		"actor_id", actorID,
		"user_id", targetID,
		"role", user.Role,
		"is_active", user.IsActive,
	)
	return user, nil
}

// UpdateProfile validates and applies a self-service change. Blank optional
// fields clear the stored value.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*model.User, error) {
	err := validation.ValidateProfile(in.ProfileInput)
	if err != nil {
		return nil, err
	}

	upd := model.UserUpdate{
		Name:                    trimmed(in.Name),
		Phone:                   trimmed(in.Phone),
		Address:                 trimmed(in.Address),
		Bio:                     trimmed(in.Bio),
		NotificationPreferences: in.NotificationPreferences,
	}
	if upd.Empty() {
		return s.ByID(ctx, userID)
	}

	user, err := s.users.Update(ctx, userID, upd)
	if err := classifyLookup(err, userID); err != nil {
		return nil, err
	}
	return user, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func classifyLookup(err error, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound):
		return apperror.NotFound("user", id)
	case errors.Is(err, repository.ErrInvalidRole):
		return apperror.ValidationFailed("role", "Invalid role")
	default:
		return apperror.Infrastructure(err)
	}
}
