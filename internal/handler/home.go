package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/ui"
)

type HomeHandler struct {
	appName  string
	projects *service.ProjectService
	sessions *service.SessionBuilder
	ping     func(ctx context.Context) error
}

func NewHomeHandler(appName string, projects *service.ProjectService, sessions *service.SessionBuilder, ping func(ctx context.Context) error) *HomeHandler {
	return &HomeHandler{appName: appName, projects: projects, sessions: sessions, ping: ping}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.Projects()
	if err != nil {
		slog.Error("failed to load projects", "error", err)
	}
	ui.Render(w, r, ui.HomePage(h.appName, ui.BuildNav(sessionView(h.sessions, r), r.URL.Path), projects))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
}

// Healthz reports whether the user directory answers a ping.
func (h *HomeHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.ping(ctx)
	if err != nil {
		slog.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
