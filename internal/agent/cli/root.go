// Package cli реализует командный интерфейс (CLI) клиентского приложения authctl.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку и сохранение токена сессии в локальном конфигурационном файле;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gabrieldeam/sysane/internal/agent/api"
	"github.com/gabrieldeam/sysane/internal/agent/config"
)

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ServerURL — базовый URL сервера Sysane (например, "http://127.0.0.1:8080").
	ServerURL string
	// Insecure отключает проверку TLS сертификата сервера.
	Insecure bool

	// CredsPath — путь к файлу с сохранённым токеном сессии.
	CredsPath string
	// Creds — загруженные учётные данные из файла конфигурации.
	Creds *config.Credentials
}

func (a *App) client() *api.Client {
	return NewAPIClient(a.ServerURL, a.Insecure)
}

// saveSession сохраняет токен сессии, полученный от сервера.
func (a *App) saveSession(cmd *cobra.Command, email, token string) error {
	if token == "" {
		return fmt.Errorf("server did not return %s cookie", api.SessionCookie)
	}
	a.Creds.AccessToken = token
	a.Creds.Email = email
	a.Creds.Server = a.ServerURL
	a.Creds.SavedAt = time.Now().UTC()
	if err := config.Save(a.CredsPath, a.Creds); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "session saved to", a.CredsPath)
	return nil
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// В PersistentPreRunE определяется путь к файлу учётных данных
// и загружается сохранённый токен. Без --server используется сервер,
// на котором была получена сохранённая сессия.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "authctl",
		Short: "authctl — клиент сервера аутентификации Sysane",
		Long: `authctl — клиент сервера аутентификации Sysane.

Примеры:

Регистрация (пароль будет запрошен в терминале):
  authctl register --name Ana --email ana@empresa.com --phone "+55 11 90000-0000" \
    --work-area TI --department Vendas --accept-privacy-policy

Подтверждение email по токену из письма:
  authctl verify-email --token <token>

Логин:
  authctl login --email ana@empresa.com
  (сохраняет токен сессии в ~/.sysane/credentials.json)

Текущий пользователь:
  authctl me
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds

			if !cmd.Flags().Changed("server") && creds.Server != "" {
				app.ServerURL = creds.Server
			}
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", "http://127.0.0.1:8080", "server base URL")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification (dev only)")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "credentials", "", "credentials file (default ~/.sysane/credentials.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewVerifyEmailCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewMeCmd(app))
	cmd.AddCommand(NewForgotPasswordCmd(app))
	cmd.AddCommand(NewResetPasswordCmd(app))
	cmd.AddCommand(NewEmailExistsCmd(app))
	cmd.AddCommand(NewIsEmailVerifiedCmd(app))
	cmd.AddCommand(NewResendVerificationCmd(app))
	cmd.AddCommand(NewVersionCmd(app, buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		os.Exit(1)
	}
}
