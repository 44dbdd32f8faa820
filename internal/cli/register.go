package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/walletctl/pkg/model"
)

func newRegisterCmd() *cobra.Command {
	var reg model.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a wallet account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if reg.Password == "" {
				if reg.Password, err = promptLine(cmd, "Password: "); err != nil {
					return err
				}
			}

			for _, f := range []struct{ name, value string }{
				{"names", reg.Names},
				{"document", reg.Document},
				{"phone", reg.Phone},
				{"email", reg.Email},
				{"password", reg.Password},
			} {
				if f.value == "" {
					return model.NewValidationError(f.name, "is required")
				}
			}

			user, err := client.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s (document %s). Run 'walletctl login' to sign in.\n",
				user.Names, user.Document)
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.Names, "names", "", "Full name")
	cmd.Flags().StringVar(&reg.Document, "document", "", "Identity document")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password (prompted if omitted)")
	return cmd
}
