package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewEmailExistsCmd создаёт CLI-команду проверки, зарегистрирован ли email.
func NewEmailExistsCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "email-exists",
		Short: "Проверить, зарегистрирован ли email",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.client().EmailExists(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exists=%t\n%s\n", resp.Exists, resp.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// NewIsEmailVerifiedCmd создаёт CLI-команду проверки подтверждения email.
func NewIsEmailVerifiedCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "is-email-verified",
		Short: "Проверить, подтверждён ли email",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.client().IsEmailVerified(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "is_verified=%t\n%s\n", resp.IsVerified, resp.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
