package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sess.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}

			u := sess.CurrentUser()
			fmt.Fprintf(cmd.OutOrStdout(), "Name:     %s\n", u.Names)
			fmt.Fprintf(cmd.OutOrStdout(), "Document: %s\n", u.Document)
			fmt.Fprintf(cmd.OutOrStdout(), "Phone:    %s\n", u.Phone)
			fmt.Fprintf(cmd.OutOrStdout(), "Email:    %s\n", u.Email)
			return nil
		},
	}
}
