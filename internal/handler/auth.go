package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/templui/portfolio/internal/access"
	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/oauth"
	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/ui"
	"github.com/templui/portfolio/internal/validation"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthCallbackCookie = "auth_callback_url"
	oauthCookieMaxAge   = 10 * 60
)

type AuthHandler struct {
	auth      *service.AuthService
	sessions  *service.SessionBuilder
	providers *oauth.Registry
	appURL    string
	secure    bool
}

func NewAuthHandler(auth *service.AuthService, providers *oauth.Registry, appURL string, secure bool) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		sessions:  auth.Sessions(),
		providers: providers,
		appURL:    appURL,
		secure:    secure,
	}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

type signUpUser struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var in validation.SignUpInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.auth.SignUp(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    signUpUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	})
}

func (h *AuthHandler) SignInCredentials(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.auth.SignInCredentials(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	claims, ok := h.startSession(w, r, user)
	if !ok {
		return
	}

	target := in.CallbackURL
	if target == "" {
		target = access.DashboardRoute(user.Role)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":  service.ResolveRedirect(target, h.appURL),
		"user": h.sessions.View(claims),
	})
}

// SignInProvider starts the authorization code flow. The state and the
// requested destination travel in short-lived cookies.
func (h *AuthHandler) SignInProvider(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers.Get(r.PathValue("provider"))
	if !ok {
		slog.Warn("sign-in with unknown provider", "provider", r.PathValue("provider"))
		h.redirectError(w, r, "Configuration")
		return
	}

	state, err := randomState()
	if err != nil {
		slog.Error("failed to generate oauth state", "error", err)
		h.redirectError(w, r, "Configuration")
		return
	}

	h.setTempCookie(w, oauthStateCookie, state)
	if cb := r.URL.Query().Get("callbackUrl"); cb != "" {
		h.setTempCookie(w, oauthCallbackCookie, service.ResolveRedirect(cb, h.appURL))
	}

	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers.Get(r.PathValue("provider"))
	if !ok {
		h.redirectError(w, r, "Configuration")
		return
	}
	ctx := r.Context()

	stateCookie, err := r.Cookie(oauthStateCookie)
	state := r.URL.Query().Get("state")
	h.clearTempCookie(w, oauthStateCookie)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(state)) != 1 {
		slog.Warn("oauth state validation failed", "provider", provider.ID())
		h.redirectError(w, r, "AuthenticationFailed")
		return
	}

	callbackURL := ""
	if c, err := r.Cookie(oauthCallbackCookie); err == nil {
		callbackURL = c.Value
	}
	h.clearTempCookie(w, oauthCallbackCookie)

	if e := r.URL.Query().Get("error"); e != "" {
		slog.Info("oauth consent not granted", "provider", provider.ID(), "error", e)
		h.redirectError(w, r, "AccessDenied")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, "AuthenticationFailed")
		return
	}

	profile, err := provider.Profile(ctx, code)
	if errors.Is(err, oauth.ErrNoEmail) {
		slog.Warn("oauth profile without email", "provider", provider.ID())
		h.redirectError(w, r, "AccessDenied")
		return
	}
	if err != nil {
		slog.Error("oauth profile fetch failed", "error", err, "provider", provider.ID())
		h.redirectError(w, r, "AuthenticationFailed")
		return
	}

	result, err := h.auth.SignInFederated(ctx, profile)
	switch {
	case errors.Is(err, apperror.ErrIdentity):
		h.redirectError(w, r, "AccessDenied")
		return
	case err != nil:
		slog.Error("federated sign-in failed", "error", err, "provider", provider.ID())
		h.redirectError(w, r, "AuthenticationFailed")
		return
	case result.Redirect != "":
		http.Redirect(w, r, service.ResolveRedirect(result.Redirect, h.appURL), http.StatusFound)
		return
	}

	if _, ok := h.startSession(w, r, result.User); !ok {
		return
	}

	if callbackURL == "" {
		callbackURL = access.DashboardRoute(result.User.Role)
	}
	http.Redirect(w, r, service.ResolveRedirect(callbackURL, h.appURL), http.StatusFound)
}

// Session returns the current session view, or {} for guests.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Session(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.View(claims))
}

// RefreshSession re-reads the user and re-issues the token so role and
// profile changes show up without signing in again. A missing record keeps
// the current token; a disabled one ends the session.
func (h *AuthHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Session(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}

	user, err := h.auth.Refresh(r.Context(), claims.Subject)
	if errors.Is(err, apperror.ErrNotFound) {
		slog.Warn("session refresh for missing user", "user_id", claims.Subject)
		h.sessions.ClearCookie(w)
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !user.IsActive {
		h.sessions.ClearCookie(w)
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}

	fresh, ok := h.startSession(w, r, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.View(fresh))
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if claims := ctxkeys.Session(r.Context()); claims != nil {
		slog.Info("user signed out", "user_id", claims.Subject)
	}
	h.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"url": h.appURL + "/"})
}

type providerInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	SignInURL   string `json:"signinUrl"`
	CallbackURL string `json:"callbackUrl"`
}

func (h *AuthHandler) Providers(w http.ResponseWriter, r *http.Request) {
	out := map[string]providerInfo{
		string(model.ProviderCredentials): {
			ID:          string(model.ProviderCredentials),
			Name:        "Credentials",
			Type:        "credentials",
			SignInURL:   h.appURL + "/api/auth/signin/credentials",
			CallbackURL: h.appURL + "/api/auth/callback/credentials",
		},
	}
	for _, p := range h.providers.List() {
		id := string(p.ID())
		out[id] = providerInfo{
			ID:          id,
			Name:        p.DisplayName(),
			Type:        "oauth",
			SignInURL:   h.appURL + "/api/auth/signin/" + id,
			CallbackURL: h.appURL + "/api/auth/callback/" + id,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AuthHandler) ErrorPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.AuthErrorPage(r.URL.Query().Get("error")))
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) (*service.SessionClaims, bool) {
	token, claims, err := h.sessions.Issue(user)
	if err != nil {
		writeError(w, r, apperror.Infrastructure(err))
		return nil, false
	}
	h.sessions.SetCookie(w, token, claims)
	return claims, true
}

func (h *AuthHandler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/auth/error?error="+url.QueryEscape(code), http.StatusFound)
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   oauthCookieMaxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func randomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
