package cmd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/sendlens/sendlens/internal/core/eligibility"
	"github.com/sendlens/sendlens/internal/core/gateway"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the current rate-limit window",
	Long: `Probe the platform with a minimal request and report the rate-limit
window it advertises. The probe itself consumes one request from the
quota.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		components := newPlatformComponents(currentConfig())

		// A one-item listing is the cheapest call that still returns
		// the rate-limit headers.
		probe := gateway.WithQuery(eligibility.DefaultAccountsEndpoint, url.Values{"limit": {"1"}})
		if _, err := components.client.Call(cmd.Context(), http.MethodGet, probe, nil); err != nil {
			return err
		}

		fmt.Println(components.tracker.Describe())
		if components.tracker.Blocked() {
			fmt.Println("Requests are currently blocked until the window resets.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}
