package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "SQL schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), db.RunMigrations)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), db.MigrateDown)
		},
	})
	return cmd
}

func migrate(ctx context.Context, run func(context.Context, *sql.DB, string) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DBDriver == "mongo" {
		return fmt.Errorf("migrations apply to SQL drivers only, mongo indexes are created at startup")
	}

	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	return run(ctx, database.DB, cfg.DBDriver)
}
