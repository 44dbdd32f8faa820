package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/walletctl/pkg/model"
)

func newTopUpCmd() *cobra.Command {
	var amount, document, phone string

	cmd := &cobra.Command{
		Use:   "topup",
		Short: "Recharge a wallet balance",
		Long:  "Credit an amount to the account identified by document and phone. Amounts accept COP formatting, e.g. 10000, 10.000 or $ 10.000,50.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			cents, err := model.ParseAmount(amount)
			if err != nil {
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
				return model.NewValidationError("topup", "document and phone are required")
			}

			res, err := client.TopUp(cmd.Context(), cents, document, phone)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Top-up of %s to %s successful. New balance: %s\n",
				model.FormatCOP(cents), res.Document, model.FormatCOP(model.CentavosFromFloat(res.NewBalance)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to credit (required)")
	cmd.Flags().StringVar(&document, "document", "", "Target document (default: signed-in profile)")
	cmd.Flags().StringVar(&phone, "phone", "", "Target phone (default: signed-in profile)")
	cmd.MarkFlagRequired("amount")
	return cmd
}
