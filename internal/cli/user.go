package cli

import (
	"fmt"

	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
	"github.com/spf13/cobra"
)

// NewUserCommand creates the user command.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a staff account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), rootOpts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			auth := service.NewAuthService(a.store, a.cfg.Session.TTL, a.log)
			user, err := auth.CreateUser(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%d)\n", user.Username, user.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = add.MarkFlagRequired("password")

	cmd.AddCommand(add)
	return cmd
}
