package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewForgotPasswordCmd создаёт CLI-команду запроса письма для сброса пароля.
func NewForgotPasswordCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Отправить письмо для сброса пароля",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.client().ForgotPassword(cmd.Context(), email)
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

// NewResetPasswordCmd создаёт CLI-команду смены пароля по токену из письма.
// Сервер сразу выдаёт сессию, она сохраняется локально.
//
// Пример использования:
//
//	authctl reset-password --token <token>
func NewResetPasswordCmd(app *App) *cobra.Command {
	var token, newPassword string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Сменить пароль по токену из письма",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFlag(cmd, newPassword, "New password: ", passwordStdin)
			if err != nil {
				return err
			}

			resp, session, err := app.client().ResetPassword(cmd.Context(), token, pw)
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

	cmd.Flags().StringVar(&token, "token", "", "token from the reset link")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "new password (prompted when omitted)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read new password from stdin")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}
