package handler

import (
	"net/http"

	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/ui"
)

type NavHandler struct {
	sessions *service.SessionBuilder
}

func NewNavHandler(sessions *service.SessionBuilder) *NavHandler {
	return &NavHandler{sessions: sessions}
}

// Nav returns the navigation model for the current session. The optional
// path query parameter marks the active item.
func (h *NavHandler) Nav(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ui.BuildNav(sessionView(h.sessions, r), r.URL.Query().Get("path")))
}

func sessionView(sessions *service.SessionBuilder, r *http.Request) *model.SessionView {
	claims := ctxkeys.Session(r.Context())
	if claims == nil {
		return nil
	}
	view := sessions.View(claims)
	return &view
}
