package cli

import (
	"github.com/spf13/cobra"

	"github.com/gabrieldeam/sysane/internal/agent/api"
)

// для тестов
var (
	NewAPIClient = api.NewClient
	ReadPassword = func(cmd *cobra.Command, prompt string, fromStdin bool) (string, error) {
		return readPassword(cmd, prompt, fromStdin)
	}
)
