package routes

import (
	"net/http"

	"github.com/templui/portfolio/internal/app"
	"github.com/templui/portfolio/internal/handler"
	"github.com/templui/portfolio/internal/metrics"
	"github.com/templui/portfolio/internal/middleware"
	"github.com/templui/portfolio/internal/model"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.Cfg.AppName, app.ProjectService, app.Sessions, app.Ping)
	auth := handler.NewAuthHandler(app.AuthService, app.Providers, app.Cfg.AppURL, app.Cfg.SecureCookies())
	profile := handler.NewProfileHandler(app.UserService, app.AvatarService, app.Sessions)
	admin := handler.NewAdminHandler(app.UserService)
	contact := handler.NewContactHandler(app.ContactService)
	project := handler.NewProjectHandler(app.ProjectService)
	nav := handler.NewNavHandler(app.Sessions)

	rateLimit := middleware.RateLimit(app.RateLimiter)
	requireAdmin := middleware.RequireRole(model.RoleAdmin)
	requireAuth := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /healthz", home.Healthz)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	mux.HandleFunc("GET /api/projects", project.List)
	mux.HandleFunc("GET /api/projects/{slug}", project.Show)
	mux.HandleFunc("GET /api/nav", nav.Nav)
	mux.Handle("POST /api/contact", rateLimit(http.HandlerFunc(contact.Submit)))

	// ============================================================================
	// AUTH
	// ============================================================================

	mux.HandleFunc("GET /auth/error", auth.ErrorPage)

	mux.Handle("POST /api/auth/signup", rateLimit(http.HandlerFunc(auth.SignUp)))
	mux.Handle("POST /api/auth/signin/credentials", rateLimit(http.HandlerFunc(auth.SignInCredentials)))
	mux.Handle("GET /api/auth/signin/{provider}", rateLimit(http.HandlerFunc(auth.SignInProvider)))
	mux.HandleFunc("GET /api/auth/callback/{provider}", auth.Callback)
	mux.HandleFunc("GET /api/auth/session", auth.Session)
	mux.Handle("POST /api/auth/session", requireAuth(auth.RefreshSession))
	mux.HandleFunc("GET /api/auth/providers", auth.Providers)
	mux.HandleFunc("POST /api/auth/signout", auth.SignOut)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.Handle("GET /api/profile", requireAuth(profile.Get))
	mux.Handle("PATCH /api/profile", requireAuth(profile.Update))
	mux.Handle("POST /api/profile/avatar", requireAuth(profile.UploadAvatar))

	mux.Handle("GET /api/admin/users", requireAdmin(http.HandlerFunc(admin.ListUsers)))
	mux.Handle("PATCH /api/admin/users/{id}", requireAdmin(http.HandlerFunc(admin.UpdateUser)))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware, first listed runs first
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // needed by SecurityHeaders and CSRFProtection
		middleware.NonceMiddleware, // before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.ClientIP(app.Cfg.TrustProxy), // before RequestLogging and rate limits
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.Sessions(app.Sessions, app.AuthService),
		middleware.Metrics, // innermost so the mux pattern is visible
	)
}
