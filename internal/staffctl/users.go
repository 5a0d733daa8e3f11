package staffctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/staffdir/internal/users"
	"github.com/spf13/cobra"
)

func (c *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and change employee records",
	}
	cmd.AddCommand(
		c.usersListCmd(),
		c.usersAddCmd(),
		c.usersUpdateCmd(),
		c.usersRemoveCmd(),
		c.usersAuthCmd(),
	)
	return cmd
}

func (c *cli) usersListCmd() *cobra.Command {
	var asJSON, showPINs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *users.Service) error {
				list, err := svc.List(ctx)
				if err != nil {
					return err
				}
				if !showPINs {
					for i := range list {
						list[i].PIN = ""
					}
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(list)
				}

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				if showPINs {
					fmt.Fprintln(tw, "ID\tNAME\tLOGIN\tROLE\tPIN")
				} else {
					fmt.Fprintln(tw, "ID\tNAME\tLOGIN\tROLE")
				}
				for _, u := range list {
					if showPINs {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Login, u.Role, u.PIN)
					} else {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Login, u.Role)
					}
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&showPINs, "pins", false, "include PINs")
	return cmd
}

func (c *cli) usersAddCmd() *cobra.Command {
	var n users.NewUser

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee; login and PIN are generated unless given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *users.Service) error {
				u, err := svc.Enroll(ctx, n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "id=%s login=%s pin=%s role=%s\n", u.ID, u.Login, u.PIN, u.Role)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&n.Name, "name", "", "full name")
	f.StringVar(&n.Role, "role", users.RoleAttendant, "role")
	f.StringVar(&n.Login, "login", "", "login (generated when empty)")
	f.StringVar(&n.PIN, "pin", "", "PIN (generated when empty)")
	f.StringVar(&n.ID, "id", "", "record id (uuid when empty)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *cli) usersUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p users.Patch
			for name, dst := range map[string]**string{
				"name":  &p.Name,
				"login": &p.Login,
				"pin":   &p.PIN,
				"role":  &p.Role,
			} {
				if cmd.Flags().Changed(name) {
					v, _ := cmd.Flags().GetString(name)
					*dst = &v
				}
			}
			if p.IsEmpty() {
				return errors.New("nothing to update: pass at least one of --name, --login, --pin, --role")
			}

			return c.withService(cmd, func(ctx context.Context, svc *users.Service) error {
				u, err := svc.Update(ctx, args[0], p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "id=%s name=%q login=%s role=%s\n", u.ID, u.Name, u.Login, u.Role)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.String("name", "", "new name")
	f.String("login", "", "new login")
	f.String("pin", "", "new PIN")
	f.String("role", "", "new role")
	return cmd
}

func (c *cli) usersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *users.Service) error {
				if err := svc.Remove(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "removed", args[0])
				return nil
			})
		},
	}
}

func (c *cli) usersAuthCmd() *cobra.Command {
	var login, pin string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Check a login and PIN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *users.Service) error {
				u, err := svc.Authenticate(ctx, login, pin)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok id=%s role=%s\n", u.ID, u.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&login, "login", "", "login")
	cmd.Flags().StringVar(&pin, "pin", "", "PIN")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}
