package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/walletctl/pkg/model"
)

func newPayCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "pay <purchase-id>",
		Short: "Pay an active purchase",
		Long: "Start the two-step payment for an ACTIVE purchase: the gateway sends a " +
			"one-time security token to your email or SMS, which you then enter to confirm.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			purchaseID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return model.NewValidationError("purchase-id", fmt.Sprintf("%q is not a purchase id", args[0]))
			}

			ctx := cmd.Context()
			document := sess.CurrentUser().Document
			out := cmd.OutOrStdout()

			flow := newPaymentFlow()
			if err := flow.LoadPurchases(ctx, document); err != nil {
				return err
			}
			if err := flow.OpenPayment(ctx, purchaseID, document); err != nil {
				return err
			}

			fmt.Fprintf(out, "Paying purchase #%d. A security token was sent to your email or SMS.\n", purchaseID)

			reader := bufio.NewReader(cmd.InOrStdin())
			for {
				if token == "" {
					fmt.Fprint(out, "Token (empty to cancel): ")
					line, err := reader.ReadString('\n')
					if err != nil && line == "" {
						break
					}
					token = strings.TrimSpace(line)
				}

				if token == "" {
					break
				}

				flow.TypeToken(token)
				token = ""
				if err := flow.SubmitToken(ctx); err != nil {
					fmt.Fprintf(out, "Payment failed: %v. Try again.\n", err)
					continue
				}
				break
			}

			confirmed := flow.Phase() == model.PaymentPhaseSucceeded
			if confirmed {
				fmt.Fprintf(out, "%s\n", flow.Result().Message)
			} else {
				fmt.Fprintln(out, "Payment cancelled.")
			}

			// Closing after a confirmation re-fetches the list so the
			// FINISHED status shows up.
			if err := flow.Close(ctx); err != nil {
				return err
			}
			if confirmed {
				printPurchases(out, flow)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "One-time security token (prompted if omitted)")
	return cmd
}
