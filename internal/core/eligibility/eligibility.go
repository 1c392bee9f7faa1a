// Package eligibility decides which sending identities may be used for
// a campaign. The eligible set is recomputed from the live inventory on
// every call; nothing is cached between validations.
package eligibility

import (
	"context"
	"strings"

	"github.com/sendlens/sendlens/internal/core"
	"github.com/sendlens/sendlens/internal/core/gateway"
	apperrors "github.com/sendlens/sendlens/internal/errors"
)

// DefaultAccountsEndpoint is the platform's account inventory listing.
const DefaultAccountsEndpoint = "/accounts"

// Validator checks caller-supplied sender lists against live account
// state.
type Validator struct {
	Paginator *gateway.Paginator
	Endpoint  string
}

// ListEligible fetches the full inventory and returns the accounts
// passing every eligibility predicate, in inventory order.
func (v *Validator) ListEligible(ctx context.Context) ([]core.Account, error) {
	if v == nil || v.Paginator == nil {
		return nil, apperrors.NewInternal("eligibility validator is not configured")
	}

	inventory, err := v.Paginator.FetchAccounts(ctx, v.endpoint())
	if err != nil {
		return nil, err
	}
	if len(inventory) == 0 {
		return nil, apperrors.NewNoAccounts()
	}

	eligible := make([]core.Account, 0, len(inventory))
	for _, account := range inventory {
		if account.Eligible() {
			eligible = append(eligible, account)
		}
	}
	if len(eligible) == 0 {
		diagnostics := make([]core.AccountDiagnostic, 0, len(inventory))
		for _, account := range inventory {
			diagnostics = append(diagnostics, account.Diagnostic())
		}
		return nil, apperrors.NewNoEligibleAccounts(diagnostics)
	}

	return eligible, nil
}

// ValidateSenders checks every requested address against the live
// eligible set, case-insensitively. It succeeds silently when all
// addresses are eligible and otherwise reports every miss together
// with the roster of alternatives.
func (v *Validator) ValidateSenders(ctx context.Context, requested []string) error {
	eligible, err := v.ListEligible(ctx)
	if err != nil {
		return err
	}

	members := make(map[string]struct{}, len(eligible))
	for _, account := range eligible {
		members[strings.ToLower(account.Email)] = struct{}{}
	}

	var ineligible []string
	for _, email := range requested {
		if _, ok := members[strings.ToLower(strings.TrimSpace(email))]; !ok {
			ineligible = append(ineligible, email)
		}
	}
	if len(ineligible) > 0 {
		return apperrors.NewIneligibleEmails(ineligible, eligible)
	}
	return nil
}

func (v *Validator) endpoint() string {
	if v != nil && v.Endpoint != "" {
		return v.Endpoint
	}
	return DefaultAccountsEndpoint
}
