package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyEmailCmd создаёт CLI-команду подтверждения email по токену из письма.
// Сервер сразу выдаёт сессию, она сохраняется как после login.
func NewVerifyEmailCmd(app *App) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Подтвердить email по токену из письма",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, session, err := app.client().VerifyEmail(cmd.Context(), token)
			if err != nil {
				return err
			}
			if err := app.saveSession(cmd, "", session); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "token from the verification link")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

// NewResendVerificationCmd создаёт CLI-команду повторной отправки письма подтверждения.
func NewResendVerificationCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "resend-verification",
		Short: "Повторно отправить письмо подтверждения",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.client().ResendVerification(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
