package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sendlens/sendlens/internal/core"
)

// TableFormatter renders accounts as an ASCII table.
type TableFormatter struct{}

// FormatAccounts renders the inventory with per-account eligibility.
func (f *TableFormatter) FormatAccounts(accounts []core.Account) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Email", "Status", "Setup", "Warmup", "Score", "Eligible"})

	eligible := 0
	for _, a := range accounts {
		if a.Eligible() {
			eligible++
		}
		t.AppendRow(table.Row{
			a.Email,
			statusLabel(a.Status),
			setupLabel(a.SetupPending),
			warmupLabel(a.WarmupStatus),
			scoreLabel(a),
			eligibleLabel(a.Eligible()),
		})
	}

	t.AppendFooter(table.Row{
		"",
		"",
		"",
		"",
		fmt.Sprintf("%d/%d eligible", eligible, len(accounts)),
		"",
	})

	return t.Render(), nil
}

func statusLabel(status int) string {
	if status == 1 {
		return "active"
	}
	return fmt.Sprintf("inactive (%d)", status)
}

func setupLabel(pending bool) string {
	if pending {
		return "pending"
	}
	return "complete"
}

func warmupLabel(status int) string {
	if status == 1 {
		return "active"
	}
	return fmt.Sprintf("inactive (%d)", status)
}

func scoreLabel(a core.Account) string {
	if a.WarmupScore == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *a.WarmupScore)
}

func eligibleLabel(eligible bool) string {
	if eligible {
		return "yes"
	}
	return "no"
}
