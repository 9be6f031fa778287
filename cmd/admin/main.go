package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/templui/portfolio/cmd/admin/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "User directory administration for the portfolio",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.UsersCmd())
	rootCmd.AddCommand(cmd.RoleCmds()...)
	rootCmd.AddCommand(cmd.StatusCmds()...)
	rootCmd.AddCommand(cmd.MigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
