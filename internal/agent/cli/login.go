package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabrieldeam/sysane/internal/agent/config"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя.
//
// Токен сессии из cookie access_token сохраняется в локальный конфиг.
//
// Пример использования:
//
//	authctl login --email ana@empresa.com
func NewLoginCmd(app *App) *cobra.Command {
	var email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (сохранить токен сессии)",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFlag(cmd, password, "Password: ", passwordStdin)
			if err != nil {
				return err
			}

			resp, session, err := app.client().Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			if err := app.saveSession(cmd, email, session); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// NewLogoutCmd создаёт CLI-команду выхода: сервер сбрасывает cookie,
// локальный файл с токеном удаляется.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Выход (удалить сохранённый токен)",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.client().Logout(cmd.Context())
			if err != nil {
				// локальный токен удаляем даже если сервер недоступен
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			if err := config.Remove(app.CredsPath); err != nil {
				return err
			}
			app.Creds = &config.Credentials{}

			if resp.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			}
			return nil
		},
	}
}

// NewMeCmd создаёт CLI-команду, которая печатает профиль текущего пользователя в JSON.
func NewMeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Профиль текущего пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Creds.HasSession() {
				return errors.New("no session in config, run: authctl login")
			}

			me, err := app.client().Me(cmd.Context(), app.Creds.AccessToken)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(me)
		},
	}
}
