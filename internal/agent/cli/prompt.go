package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword читает пароль из stdin (одна строка) или с терминала без эха.
func readPassword(cmd *cobra.Command, prompt string, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := strings.TrimRight(line, "\r\n")
		if pw == "" {
			return "", errors.New("empty password on stdin")
		}
		return pw, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password or --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(pwBytes))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}

// passwordFlag возвращает пароль из флага или запрашивает его.
func passwordFlag(cmd *cobra.Command, value, prompt string, fromStdin bool) (string, error) {
	if value != "" {
		return value, nil
	}
	return ReadPassword(cmd, prompt, fromStdin)
}
