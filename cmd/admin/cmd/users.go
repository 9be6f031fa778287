package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/templui/portfolio/internal/app"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/service"
)

func UsersCmd() *cobra.Command {
	var role, active, provider string
	var limit int

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users in the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := repository.UserFilter{
				Role:     model.Role(role),
				Provider: model.AuthProvider(provider),
				Limit:    limit,
			}
			if active != "" {
				v, err := strconv.ParseBool(active)
				if err != nil {
					return fmt.Errorf("--active must be true or false")
				}
				filter.Active = &v
			}

			return withApp(cmd.Context(), func(a *app.App) error {
				users, total, err := a.UserService.List(cmd.Context(), filter)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tACTIVE\tPROVIDER")
				for _, u := range users {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n", u.ID, u.Email, u.Name, u.Role, u.IsActive, u.AuthProvider)
				}
				err = tw.Flush()
				if err != nil {
					return err
				}
				if limit > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%d of %d users\n", len(users), total)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "filter by role (ADMIN or USER)")
	cmd.Flags().StringVar(&active, "active", "", "filter by active flag (true or false)")
	cmd.Flags().StringVar(&provider, "provider", "", "filter by auth provider")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of users to list")
	return cmd
}

// RoleCmds returns promote and demote.
func RoleCmds() []*cobra.Command {
	return []*cobra.Command{
		updateCmd("promote <email>", "Grant the ADMIN role", func() service.AdminUserUpdate {
			role := model.RoleAdmin
			return service.AdminUserUpdate{Role: &role}
		}),
		updateCmd("demote <email>", "Revoke the ADMIN role", func() service.AdminUserUpdate {
			role := model.RoleUser
			return service.AdminUserUpdate{Role: &role}
		}),
	}
}

// StatusCmds returns activate and deactivate.
func StatusCmds() []*cobra.Command {
	return []*cobra.Command{
		updateCmd("activate <email>", "Re-enable a disabled account", func() service.AdminUserUpdate {
			active := true
			return service.AdminUserUpdate{IsActive: &active}
		}),
		updateCmd("deactivate <email>", "Disable an account", func() service.AdminUserUpdate {
			active := false
			return service.AdminUserUpdate{IsActive: &active}
		}),
	}
}

func updateCmd(use, short string, update func() service.AdminUserUpdate) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				user, err := a.UserService.ByEmail(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				user, err = a.UserService.AdminUpdate(cmd.Context(), "", user.ID, update())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s: role=%s active=%t\n", user.Email, user.Role, user.IsActive)
				return nil
			})
		},
	}
}
