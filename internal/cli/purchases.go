package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/me/walletctl/internal/payment"
	"github.com/me/walletctl/pkg/model"
)

func newPurchasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purchases",
		Short: "List your purchases",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			flow := newPaymentFlow()
			if err := flow.LoadPurchases(cmd.Context(), sess.CurrentUser().Document); err != nil {
				return err
			}

			printPurchases(cmd.OutOrStdout(), flow)
			return nil
		},
	}
}

// printPurchases renders the flow's current list, marking it stale when the
// last refresh failed but an older list is still available.
func printPurchases(w io.Writer, flow *payment.Flow) {
	purchases := flow.Purchases()
	if err := flow.LoadError(); err != nil {
		fmt.Fprintf(w, "Warning: purchase list may be stale: %v\n", err)
	}
	if len(purchases) == 0 {
		fmt.Fprintln(w, "No purchases recorded for this account.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-16s  %-30s  %s\n", "ID", "AMOUNT", "PRODUCT", "STATUS")
	fmt.Fprintf(w, "%-8s  %-16s  %-30s  %s\n", "--", "------", "-------", "------")
	for _, p := range purchases {
		fmt.Fprintf(w, "%-8d  %-16s  %-30s  %s\n", p.ID, formatPurchaseAmount(p.Amount), p.Product, p.Status)
	}
}

// formatPurchaseAmount renders the gateway's decimal string as COP, falling
// back to the raw string when it does not parse.
func formatPurchaseAmount(amount string) string {
	cents, err := model.ParseAmount(amount)
	if err != nil {
		return amount
	}
	return model.FormatCOP(cents)
}
