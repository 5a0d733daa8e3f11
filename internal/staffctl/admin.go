package staffctl

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staffdir/internal/users"
	"github.com/spf13/cobra"
)

func (c *cli) bootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the default administrator if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *users.Service) error {
				created, err := svc.BootstrapDefaultAdmin(ctx)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "default administrator created (login %q)\n", users.DefaultAdminLogin)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "administrator already present")
				}
				return nil
			})
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every employee record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the directory without --yes")
			}
			return c.withService(cmd, func(ctx context.Context, svc *users.Service) error {
				if err := svc.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "directory cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}
