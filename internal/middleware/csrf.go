package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/templui/portfolio/internal/ctxkeys"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32
)

// CSRFProtection guards state-changing requests. API calls from the browser
// must come from the app's own origin. Requests without an Origin or
// Referer (and all form posts) fall back to the double-submit cookie.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := getOrGenerateCSRFToken(w, r)
		ctx := ctxkeys.WithCSRFToken(r.Context(), token)

		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/") {
			if origin := requestOrigin(r); origin != "" {
				if !sameOrigin(r, origin) {
					rejectCSRF(w, r, "cross-origin request")
					return
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		submitted := r.Header.Get(csrfHeader)
		if submitted == "" && !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			submitted = r.PostFormValue(csrfFormField)
		}
		if !validCSRFToken(token, submitted) {
			rejectCSRF(w, r, "token mismatch")
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func requestOrigin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" && origin != "null" {
		return origin
	}
	if ref := r.Header.Get("Referer"); ref != "" {
		u, err := url.Parse(ref)
		if err == nil && u.Host != "" {
			return u.Scheme + "://" + u.Host
		}
	}
	return ""
}

// sameOrigin compares against APP_URL when configured, else the Host header.
func sameOrigin(r *http.Request, origin string) bool {
	o, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.AppURL != "" {
		app, err := url.Parse(cfg.AppURL)
		if err != nil {
			return false
		}
		return strings.EqualFold(o.Scheme, app.Scheme) && strings.EqualFold(o.Host, app.Host)
	}
	return strings.EqualFold(o.Host, r.Host)
}

func rejectCSRF(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Warn("csrf validation failed",
		"reason", reason,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", getClientIP(r),
	)
	writeJSONError(w, http.StatusForbidden, "Invalid CSRF token")
}

func getOrGenerateCSRFToken(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err == nil && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return cookie.Value
	}

	token := generateCSRFToken()

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.SecureCookies(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})

	return token
}

func generateCSRFToken() string {
	b := make([]byte, csrfTokenLen)
	_, err := rand.Read(b)
	if err != nil {
		panic("failed to generate csrf token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
