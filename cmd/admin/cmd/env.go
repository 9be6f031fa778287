package cmd

import (
	"context"
	"fmt"

	"github.com/templui/portfolio/internal/app"
	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/logger"
)

// withApp loads config, opens the user directory and runs fn. Commands act
// out of band, so they connect directly instead of going through the API.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flush, err := logger.Init(logger.Options{Development: true, Environment: cfg.AppEnv})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer flush()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return fn(a)
}
