package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/walletctl/pkg/model"
)

func newBalanceCmd() *cobra.Command {
	var document, phone string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Query the wallet balance",
		Long:  "Query the balance for a document/phone pair, defaulting to the signed-in profile.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			user := sess.CurrentUser()
			if document == "" {
				document = user.Document
			}
			if phone == "" {
				phone = user.Phone
			}
			if document == "" || phone == "" {
				return model.NewValidationError("balance", "document and phone are required")
			}

			bal, err := client.Balance(cmd.Context(), document, phone)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Balance for %s: %s\n", document, model.FormatCOP(bal))
			return nil
		},
	}

	cmd.Flags().StringVar(&document, "document", "", "Account document (default: signed-in profile)")
	cmd.Flags().StringVar(&phone, "phone", "", "Account phone (default: signed-in profile)")
	return cmd
}
