package handler

import (
	"net/http"
	"strconv"

	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/service"
)

const maxPageSize = 100

type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseUserFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	users, total, err := h.users.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out, "total": total})
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Session(r.Context())

	var in service.AdminUserUpdate
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.AdminUpdate(r.Context(), claims.Subject, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func parseUserFilter(r *http.Request) (repository.UserFilter, error) {
	q := r.URL.Query()
	filter := repository.UserFilter{
		Role:     model.Role(q.Get("role")),
		Provider: model.AuthProvider(q.Get("provider")),
	}

	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return filter, apperror.ValidationFailed("active", "active must be true or false")
		}
		filter.Active = &active
	}

	for key, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, apperror.ValidationFailed(key, key+" must be a non-negative integer")
		}
		*dst = n
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	return filter, nil
}
