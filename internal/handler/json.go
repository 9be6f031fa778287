package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/model"
)

const maxJSONBody = 1 << 20

var errInvalidBody = apperror.ValidationFailed("", "Invalid request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write json response", "error", err)
	}
}

type errorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Field   string            `json:"field,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// writeError maps an error kind to a status. Infrastructure failures and
// unclassified errors are logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || errors.Is(err, apperror.ErrInfrastructure) {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	resp := errorResponse{
		Error:   appErr.Message,
		Code:    string(appErr.Reason),
		Field:   appErr.Field,
		Details: appErr.Details,
	}

	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrIdentity):
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, apperror.ErrAuthentication):
		writeJSON(w, http.StatusUnauthorized, resp)
	case errors.Is(err, apperror.ErrForbidden):
		writeJSON(w, http.StatusForbidden, resp)
	case errors.Is(err, apperror.ErrNotFound):
		writeJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, apperror.ErrConflict):
		writeJSON(w, http.StatusConflict, resp)
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// userResponse is the client view of a user record. The password hash is
// never serialized.
type userResponse struct {
	ID                      string                        `json:"id"`
	Name                    string                        `json:"name"`
	Email                   string                        `json:"email"`
	Role                    model.Role                    `json:"role"`
	Image                   *string                       `json:"image"`
	Phone                   *string                       `json:"phone"`
	Address                 *string                       `json:"address"`
	Bio                     *string                       `json:"bio"`
	IsActive                bool                          `json:"isActive"`
	AuthProvider            model.AuthProvider            `json:"authProvider"`
	HasPassword             bool                          `json:"hasPassword"`
	EmailVerified           *time.Time                    `json:"emailVerified"`
	LastLogin               *time.Time                    `json:"lastLogin"`
	NotificationPreferences model.NotificationPreferences `json:"notificationPreferences"`
	CreatedAt               time.Time                     `json:"createdAt"`
	UpdatedAt               time.Time                     `json:"updatedAt"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:                      u.ID,
		Name:                    u.Name,
		Email:                   u.Email,
		Role:                    u.Role,
		Image:                   u.Image,
		Phone:                   u.Phone,
		Address:                 u.Address,
		Bio:                     u.Bio,
		IsActive:                u.IsActive,
		AuthProvider:            u.AuthProvider,
		HasPassword:             u.HasPassword(),
		EmailVerified:           u.EmailVerifiedAt,
		LastLogin:               u.LastLoginAt,
		NotificationPreferences: u.NotificationPreferences,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}
