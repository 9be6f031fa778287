package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
)

func writeProject(t *testing.T, dir, slug, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "projects"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", slug+".md"), []byte(body), 0o644))
}

func TestProjects(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, "iot", "---\ntitle: IoT Project\norder: 2\n---\nSensors.\n")
	writeProject(t, dir, "portfolio", "---\ntitle: Web Development Portfolio\norder: 1\n---\nThis site.\n")
	h := NewProjectHandler(service.NewProjectService(dir))

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	projects := decodeBody(t, rec)["projects"].([]any)
	require.Len(t, projects, 2)
	assert.Equal(t, "portfolio", projects[0].(map[string]any)["slug"])

	req := httptest.NewRequest(http.MethodGet, "/api/projects/iot", nil)
	req.SetPathValue("slug", "iot")
	rec = httptest.NewRecorder()
	h.Show(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "IoT Project", decodeBody(t, rec)["title"])

	req = httptest.NewRequest(http.MethodGet, "/api/projects/nope", nil)
	req.SetPathValue("slug", "nope")
	rec = httptest.NewRecorder()
	h.Show(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContact(t *testing.T) {
	email := service.NewEmailService("", "noreply@app.example", "owner@app.example", testAppURL, "Portfolio", true)
	h := NewContactHandler(service.NewContactService(email))

	rec := httptest.NewRecorder()
	h.Submit(rec, jsonRequest(t, http.MethodPost, "/api/contact", model.ContactMessage{
		Name:    "Grace Hopper",
		Email:   "grace@example.com",
		Message: "I would like to talk about your IoT project.",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Message sent successfully", decodeBody(t, rec)["message"])

	rec = httptest.NewRecorder()
	h.Submit(rec, jsonRequest(t, http.MethodPost, "/api/contact", model.ContactMessage{Name: "G", Email: "nope", Message: "hi"}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := decodeBody(t, rec)["details"].(map[string]any)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "message")
}

func TestNav(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.com", "Secret#1", model.RoleAdmin, true)
	h := NewNavHandler(f.sessions)

	rec := httptest.NewRecorder()
	h.Nav(rec, httptest.NewRequest(http.MethodGet, "/api/nav?path=/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["authenticated"])

	rec = httptest.NewRecorder()
	h.Nav(rec, f.signedIn(t, httptest.NewRequest(http.MethodGet, "/api/nav?path=/admin/users", nil), admin))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "/dashboard/admin", body["dashboardRoute"])
	assert.Equal(t, true, body["features"].(map[string]any)["canManageUsers"])
}

func TestHealthz(t *testing.T) {
	projects := service.NewProjectService(t.TempDir())

	healthy := NewHomeHandler("Portfolio", projects, nil, func(context.Context) error { return nil })
	rec := httptest.NewRecorder()
	healthy.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	down := NewHomeHandler("Portfolio", projects, nil, func(context.Context) error { return errors.New("db down") })
	rec = httptest.NewRecorder()
	down.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHomeAndNotFound(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	writeProject(t, dir, "iot", "---\ntitle: IoT Project\n---\nSensors.\n")
	h := NewHomeHandler("Portfolio", service.NewProjectService(dir), f.sessions, func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	h.HomePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "IoT Project")

	rec = httptest.NewRecorder()
	h.NotFoundPage(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
