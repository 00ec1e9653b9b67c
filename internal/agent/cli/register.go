package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabrieldeam/sysane/internal/agent/api"
)

// NewRegisterCmd создаёт CLI-команду для регистрации нового пользователя.
//
// После регистрации сервер отправляет письмо со ссылкой подтверждения,
// сессия не выдаётся. Если --password не указан, пароль запрашивается в терминале.
//
// Пример использования:
//
//	authctl register --name Ana --email ana@empresa.com --phone "+55 11 90000-0000" \
//	  --work-area TI --department Vendas --accept-privacy-policy
func NewRegisterCmd(app *App) *cobra.Command {
	var (
		req                      api.RegisterRequest
		companyName, companySize string
		password                 string
		passwordStdin            bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFlag(cmd, password, "Password: ", passwordStdin)
			if err != nil {
				return err
			}
			req.Password = pw
			if companyName != "" {
				req.CompanyName = &companyName
			}
			if companySize != "" {
				req.CompanySize = &companySize
			}

			resp, err := app.client().Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "full name")
	f.StringVar(&req.Email, "email", "", "email")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&companyName, "company-name", "", "company name (optional)")
	f.StringVar(&companySize, "company-size", "", "company size, e.g. 11-50 (optional)")
	f.StringVar(&req.WorkArea, "work-area", "", "work area: TI | Negócios")
	f.StringVar(&req.Department, "department", "", "department, e.g. Vendas")
	f.BoolVar(&req.AcceptedPrivacyPolicy, "accept-privacy-policy", false, "accept the privacy policy")
	f.StringVar(&password, "password", "", "password (prompted when omitted)")
	f.BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("work-area")
	_ = cmd.MarkFlagRequired("department")

	return cmd
}
