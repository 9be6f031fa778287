package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/templui/portfolio/internal/ctxkeys"
)

type nonceKey struct{}

// NonceMiddleware generates a per-request CSP nonce. Templates read it via
// templ.GetNonce; SecurityHeaders reads it via GetNonce.
func NonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := generateNonce()
		if err != nil {
			slog.Error("failed to generate csp nonce", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := templ.WithNonce(r.Context(), nonce)
		ctx = context.WithValue(ctx, nonceKey{}, nonce)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetNonce(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey{}).(string)
	return nonce
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// SecurityHeaders sets the CSP and the usual hardening headers. Inline
// scripts run only with the request's nonce. Avatar images may come from
// the configured object store and from the identity providers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		imgSrc := []string{"'self'", "data:", "https://lh3.googleusercontent.com", "https://avatars.githubusercontent.com"}
		if cfg := ctxkeys.Config(r.Context()); cfg != nil {
			if cfg.S3PublicURL != "" {
				imgSrc = append(imgSrc, cfg.S3PublicURL)
			} else if cfg.S3Endpoint != "" {
				imgSrc = append(imgSrc, cfg.S3Endpoint)
			} else if cfg.S3Bucket != "" {
				imgSrc = append(imgSrc, "https://*.amazonaws.com")
			}
		}

		scriptSrc := "'self'"
		if nonce := GetNonce(r.Context()); nonce != "" {
			scriptSrc = fmt.Sprintf("'self' 'nonce-%s'", nonce)
		}

		csp := strings.Join([]string{
			"default-src 'self'",
			"script-src " + scriptSrc,
			"style-src 'self' 'unsafe-inline'",
			"img-src " + strings.Join(imgSrc, " "),
			"frame-ancestors 'none'",
			"base-uri 'self'",
			"form-action 'self' https://accounts.google.com https://github.com",
		}, "; ")

		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		next.ServeHTTP(w, r)
	})
}
