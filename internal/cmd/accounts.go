package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sendlens/sendlens/internal/core"
	"github.com/sendlens/sendlens/internal/core/eligibility"
	"github.com/sendlens/sendlens/internal/output"
)

var (
	accountsFormat       string
	accountsEligibleOnly bool
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List sending accounts and their eligibility",
	Long: `List every sending account on the platform, walking the paginated
inventory exhaustively, and report per-account eligibility.

An account is eligible when it is active, fully set up, actively
warming, and has a non-empty address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(accountsFormat)
		if err != nil {
			return err
		}

		components := newPlatformComponents(currentConfig())

		accounts, err := components.paginator.FetchAccounts(cmd.Context(), eligibility.DefaultAccountsEndpoint)
		if err != nil {
			return err
		}

		if accountsEligibleOnly {
			filtered := make([]core.Account, 0, len(accounts))
			for _, a := range accounts {
				if a.Eligible() {
					filtered = append(filtered, a)
				}
			}
			accounts = filtered
		}

		rendered, err := output.NewFormatter(format).FormatAccounts(accounts)
		if err != nil {
			return err
		}

		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)

	accountsCmd.Flags().StringVarP(&accountsFormat, "format", "f", "table", "output format (table, json)")
	accountsCmd.Flags().BoolVar(&accountsEligibleOnly, "eligible", false, "show only eligible accounts")
}
