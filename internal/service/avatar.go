package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"

	"github.com/google/uuid"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/storage"
	"github.com/templui/portfolio/internal/validation"
)

const avatarPrefix = "public/avatars"

// ObjectStore is storage.Storage plus the reverse URL mapping needed to
// clean up replaced avatars.
type ObjectStore interface {
	storage.Storage
	KeyFromURL(url string) (string, bool)
}

type AvatarService struct {
	users   repository.UserRepository
	storage ObjectStore
}

func NewAvatarService(users repository.UserRepository, store ObjectStore) *AvatarService {
	return &AvatarService{users: users, storage: store}
}

// Upload stores a new avatar and points the user's image at it. A previous
// avatar held in the same bucket is removed afterwards.
func (s *AvatarService) Upload(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (*model.User, error) {
	contentType, err := validation.ValidateUpload(file, header, validation.AvatarConstraints)
	if err != nil {
		return nil, apperror.ValidationFailed("avatar", err.Error())
	}

	current, err := s.users.FindByID(ctx, userID)
	if err := classifyLookup(err, userID); err != nil {
		return nil, err
	}

	key := path.Join(avatarPrefix, uuid.New().String()+validation.AvatarConstraints.AllowedMimeTypes[contentType])
	err = s.storage.Save(ctx, key, file, contentType)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("failed to save avatar: %w", err))
	}

	url := s.storage.URL(key)
	user, err := s.users.Update(ctx, userID, model.UserUpdate{Image: &url})
	if err != nil {
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to delete avatar during cleanup", "error", delErr, "key", key)
		}
		return nil, classifyLookup(err, userID)
	}

	if oldKey, ok := s.storage.KeyFromURL(model.StringValue(current.Image)); ok {
		err = s.storage.Delete(ctx, oldKey)
		if err != nil {
			slog.Warn("failed to delete previous avatar", "error", err, "key", oldKey)
		}
	}

	slog.Info("avatar uploaded", "user_id", userID, "key", key)
	return user, nil
}
