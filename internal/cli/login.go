package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/walletctl/pkg/model"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the wallet gateway",
		Long:  "Authenticate with email and password and persist the session credential locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = promptLine(cmd, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptLine(cmd, "Password: "); err != nil {
					return err
				}
			}

			creds := model.Credentials{Email: email, Password: password}
			if err := sess.SignIn(cmd.Context(), creds); err != nil {
				return err
			}

			user := sess.CurrentUser()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (document %s)\n", user.Names, user.Document)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

// promptLine prints a prompt and reads one trimmed line from the command input.
func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
