package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/validation"
)

type ProfileHandler struct {
	users    *service.UserService
	avatars  *service.AvatarService // nil when uploads are disabled
	sessions *service.SessionBuilder
}

func NewProfileHandler(users *service.UserService, avatars *service.AvatarService, sessions *service.SessionBuilder) *ProfileHandler {
	return &ProfileHandler{users: users, avatars: avatars, sessions: sessions}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Session(r.Context())

	user, err := h.users.ByID(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Session(r.Context())

	var in service.ProfileUpdate
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), claims.Subject, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.refreshSession(w, user)
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Avatar uploads are not configured"})
		return
	}
	claims := ctxkeys.Session(r.Context())

	maxSize := validation.AvatarConstraints.MaxSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+(1<<20))
	err := r.ParseMultipartForm(maxSize)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apperror.ValidationFailed("avatar", "File too large: maximum size is 5 MB"))
			return
		}
		writeError(w, r, errInvalidBody)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, r, apperror.ValidationFailed("avatar", "No file uploaded"))
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close upload", "error", closeErr)
		}
	}()

	user, err := h.avatars.Upload(r.Context(), claims.Subject, file, header)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.refreshSession(w, user)
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// refreshSession re-issues the cookie so the token carries the new profile.
func (h *ProfileHandler) refreshSession(w http.ResponseWriter, user *model.User) {
	token, claims, err := h.sessions.Issue(user)
	if err != nil {
		slog.Error("failed to re-issue session after profile change", "error", err, "user_id", user.ID)
		return
	}
	h.sessions.SetCookie(w, token, claims)
}
