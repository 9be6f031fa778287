package ctxkeys

import (
	"context"

	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/service"
)

type contextKey string

const (
	SessionKey   contextKey = "session"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
	RouteKey     contextKey = "route"
	ClientIPKey  contextKey = "client_ip"
)

// Session returns the verified session claims, or nil for guests.
func Session(ctx context.Context) *service.SessionClaims {
	claims, _ := ctx.Value(SessionKey).(*service.SessionClaims)
	return claims
}

func WithSession(ctx context.Context, claims *service.SessionClaims) context.Context {
	return context.WithValue(ctx, SessionKey, claims)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

// ClientIP returns the address resolved by the client IP middleware.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ClientIPKey).(string)
	return ip
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}
