package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd печатает версию authctl. С --check дополнительно
// опрашивает /healthz сервера.
//
//	authctl version --check --server https://auth.sysane.dev
func NewVersionCmd(app *App, buildVersion, buildDate string) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Версия клиента и состояние сервера",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version=%s\nbuild_date=%s\n", buildVersion, buildDate)
			if !check {
				return nil
			}

			health, err := app.client().Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("server %s: %w", app.ServerURL, err)
			}
			fmt.Fprintf(out, "server=%s\nserver_status=%s\n", app.ServerURL, health.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check server health")
	return cmd
}
