package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/db"
	"github.com/templui/portfolio/internal/middleware"
	"github.com/templui/portfolio/internal/oauth"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/storage"
)

type App struct {
	Cfg   *config.Config
	DB    *sqlx.DB
	Mongo *mongo.Client
	Users repository.UserRepository

	AuthService    *service.AuthService
	UserService    *service.UserService
	AvatarService  *service.AvatarService // nil when uploads are disabled
	EmailService   *service.EmailService
	ContactService *service.ContactService
	ProjectService *service.ProjectService
	Sessions       *service.SessionBuilder
	Providers      *oauth.Registry
	RateLimiter    *middleware.RateLimiter
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	err := a.openDirectory(ctx)
	if err != nil {
		return nil, err
	}

	// Storage
	var store *storage.S3Storage
	if cfg.AvatarUploadsEnabled() {
		store, err = storage.NewS3Storage(ctx, storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	} else {
		slog.Info("avatar uploads disabled: S3_BUCKET not set")
	}

	// Services
	a.Sessions = service.NewSessionBuilder(
		cfg.JWTSecret,
		cfg.AppURL,
		cfg.SessionMaxAge,
		cfg.SessionUpdateAge,
		cfg.SecureCookies(),
	)
	a.EmailService = service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.ContactEmail,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	a.AuthService = service.NewAuthService(
		a.Users,
		service.NewPasswordHasher(),
		service.NewIdentityResolver(a.Users),
		a.Sessions,
		a.EmailService,
	)
	a.UserService = service.NewUserService(a.Users)
	if store != nil {
		a.AvatarService = service.NewAvatarService(a.Users, store)
	}
	a.ContactService = service.NewContactService(a.EmailService)
	a.ProjectService = service.NewProjectService(cfg.ContentPath)

	a.Providers = newProviders(cfg)
	a.RateLimiter = middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)

	return a, nil
}

// openDirectory connects the user directory for the configured driver.
func (a *App) openDirectory(ctx context.Context) error {
	cfg := a.Cfg

	if cfg.DBDriver == "mongo" {
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.Mongo = client

		database := client.Database(cfg.MongoDatabase)
		err = repository.EnsureUserIndexes(ctx, database)
		if err != nil {
			_ = a.Close()
			return fmt.Errorf("failed to create indexes: %w", err)
		}
		a.Users = repository.NewMongoUserRepository(database)
		return nil
	}

	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = database

	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = a.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.Users = repository.NewUserRepository(database)
	return nil
}

// newProviders registers the federated providers that have credentials.
func newProviders(cfg *config.Config) *oauth.Registry {
	var providers []oauth.Provider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers = append(providers, oauth.NewGoogleProvider(oauth.Credentials{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/api/auth/callback/google",
		}))
	}
	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		providers = append(providers, oauth.NewGitHubProvider(oauth.Credentials{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.AppURL + "/api/auth/callback/github",
		}))
	}
	return oauth.NewRegistry(providers...)
}

// Ping checks the user directory. Used by the health endpoint.
func (a *App) Ping(ctx context.Context) error {
	if a.Mongo != nil {
		return a.Mongo.Ping(ctx, nil)
	}
	if a.DB != nil {
		return a.DB.PingContext(ctx)
	}
	return errors.New("no database configured")
}

func (a *App) Close() error {
	if a.RateLimiter != nil {
		a.RateLimiter.Stop()
	}

	var errs []error
	if a.DB != nil {
		errs = append(errs, db.Close(a.DB))
	}
	if a.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, db.DisconnectMongo(ctx, a.Mongo))
	}
	return errors.Join(errs...)
}
