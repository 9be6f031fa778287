package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/portfolio/internal/access"
	"github.com/templui/portfolio/internal/apperror"
	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
)

// UserRefresher reloads the account behind a session.
type UserRefresher interface {
	Refresh(ctx context.Context, userID string) (*model.User, error)
}

// Sessions verifies the session cookie and puts its claims in the context.
// The account behind every session is reloaded so that deactivation and
// role changes apply to tokens already handed out. An invalid cookie, a
// missing user or an inactive user clears the session. The token is
// re-issued from the current record once it is older than the update age or
// its role no longer matches.
func Sessions(sessions *service.SessionBuilder, users UserRefresher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := sessions.Parse(cookie.Value)
			if err != nil {
				slog.Debug("discarding invalid session", "error", err)
				sessions.ClearCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			claims = reconcile(w, r, sessions, users, claims)
			if claims == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithSession(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// reconcile returns the claims to serve the request with, or nil when the
// session has been dropped.
func reconcile(w http.ResponseWriter, r *http.Request, sessions *service.SessionBuilder, users UserRefresher, claims *service.SessionClaims) *service.SessionClaims {
	user, err := users.Refresh(r.Context(), claims.Subject)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		slog.Info("dropping session for missing user", "user_id", claims.Subject)
		sessions.ClearCookie(w)
		return nil
	case err != nil:
		// Directory outage: keep the signed claims and retry on the next request.
		slog.Error("failed to reload session user", "error", err, "user_id", claims.Subject)
		return claims
	case !user.IsActive:
		slog.Info("dropping session for inactive user", "user_id", user.ID)
		sessions.ClearCookie(w)
		return nil
	}

	if !sessions.NeedsRotation(claims) && claims.Role == user.Role {
		return claims
	}

	token, rotated, err := sessions.Issue(user)
	if err != nil {
		slog.Error("failed to rotate session", "error", err, "user_id", user.ID)
		claims.Role = user.Role
		return claims
	}
	sessions.SetCookie(w, token, rotated)
	return rotated
}

// RequireAuth sends guests away: 401 for API calls, a redirect to the
// sign-in page otherwise.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Session(r.Context()) == nil {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			http.Redirect(w, r, "/auth/signin?callbackUrl="+r.URL.EscapedPath(), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole admits sessions holding any of the given roles.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ctxkeys.Session(r.Context())
			if !access.CanAccess(claims.Role, roles...) {
				slog.Warn("role check failed", "user_id", claims.Subject, "role", claims.Role, "path", r.URL.Path)
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]string{"error": message})
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
