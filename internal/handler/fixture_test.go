package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/db"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/oauth"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/service"
)

const testAppURL = "https://app.example"

type fixture struct {
	users    repository.UserRepository
	hasher   *service.PasswordHasher
	sessions *service.SessionBuilder
	auth     *service.AuthService
	provider *stubProvider
	handler  *AuthHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	conn, err := db.Init(ctx, "sqlite", filepath.Join(t.TempDir(), "users.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.RunMigrations(ctx, conn.DB, "sqlite"))

	users := repository.NewUserRepository(conn)
	hasher := service.NewPasswordHasher()
	sessions := service.NewSessionBuilder("test-secret", testAppURL, time.Hour, time.Hour, false)
	mailer := service.NewEmailService("", "noreply@app.example", "owner@app.example", testAppURL, "Portfolio", true)
	auth := service.NewAuthService(users, hasher, service.NewIdentityResolver(users), sessions, mailer)

	provider := &stubProvider{id: model.ProviderGoogle}
	return &fixture{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		auth:     auth,
		provider: provider,
		handler:  NewAuthHandler(auth, oauth.NewRegistry(provider), testAppURL, false),
	}
}

func (f *fixture) seedUser(t *testing.T, email, password string, role model.Role, active bool) *model.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	u := &model.User{
		Name:                    "Ada Lovelace",
		Email:                   email,
		PasswordHash:            &hash,
		Role:                    role,
		IsActive:                active,
		AuthProvider:            model.ProviderCredentials,
		NotificationPreferences: model.DefaultNotificationPreferences(),
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

// signedIn attaches the claims for user as the sessions middleware would.
func (f *fixture) signedIn(t *testing.T, req *http.Request, user *model.User) *http.Request {
	t.Helper()
	_, claims, err := f.sessions.Issue(user)
	require.NoError(t, err)
	return req.WithContext(ctxkeys.WithSession(req.Context(), claims))
}

// stubProvider is an identity provider that accepts the code "good-code".
type stubProvider struct {
	id      model.AuthProvider
	profile model.FederatedProfile
	err     error
}

func (p *stubProvider) ID() model.AuthProvider { return p.id }
func (p *stubProvider) DisplayName() string    { return "Google" }

func (p *stubProvider) AuthCodeURL(state string) string {
	return "https://idp.example/authorize?state=" + state
}

func (p *stubProvider) Profile(_ context.Context, code string) (model.FederatedProfile, error) {
	if code != "good-code" {
		return model.FederatedProfile{}, errors.New("invalid_grant")
	}
	return p.profile, p.err
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
