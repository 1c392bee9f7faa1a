package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sendlens/sendlens/internal/core/campaign"
	"github.com/sendlens/sendlens/internal/core/eligibility"
	"github.com/sendlens/sendlens/internal/core/quota"
	apperrors "github.com/sendlens/sendlens/internal/errors"
	"github.com/sendlens/sendlens/internal/metrics"
)

// CreateCampaignHandler runs the full assembly pipeline.
func CreateCampaignHandler(assembler *campaign.Assembler) mcp.ToolHandlerFor[CreateCampaignInput, campaign.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateCampaignInput) (*mcp.CallToolResult, campaign.Result, error) {
		result, err := assembler.Create(ctx, input.Spec())
		metrics.RecordToolInvocation("create_campaign", err == nil)
		if err != nil {
			return nil, campaign.Result{}, err
		}
		return nil, *result, nil
	}
}

// ValidateSendersHandler checks addresses against live eligibility.
func ValidateSendersHandler(validator *eligibility.Validator) mcp.ToolHandlerFor[ValidateSendersInput, ValidateSendersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ValidateSendersInput) (*mcp.CallToolResult, ValidateSendersResult, error) {
		if len(input.EmailList) == 0 {
			metrics.RecordToolInvocation("validate_sender_accounts", false)
			return nil, ValidateSendersResult{}, apperrors.NewMissingField("email_list")
		}

		err := validator.ValidateSenders(ctx, input.EmailList)
		metrics.RecordToolInvocation("validate_sender_accounts", err == nil)
		if err != nil {
			return nil, ValidateSendersResult{}, err
		}
		return nil, ValidateSendersResult{
			Valid:   true,
			Checked: input.EmailList,
			Message: fmt.Sprintf("All %d address(es) are eligible to send: %s", len(input.EmailList), strings.Join(input.EmailList, ", ")),
		}, nil
	}
}

// ListEligibleAccountsHandler returns the current eligible roster.
func ListEligibleAccountsHandler(validator *eligibility.Validator) mcp.ToolHandlerFor[ListEligibleInput, ListEligibleResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListEligibleInput) (*mcp.CallToolResult, ListEligibleResult, error) {
		eligible, err := validator.ListEligible(ctx)
		metrics.RecordToolInvocation("list_eligible_accounts", err == nil)
		if err != nil {
			return nil, ListEligibleResult{}, err
		}

		accounts := make([]campaign.EligibleAccount, 0, len(eligible))
		for _, account := range eligible {
			accounts = append(accounts, campaign.EligibleAccount{Email: account.Email, WarmupScore: account.Score()})
		}
		return nil, ListEligibleResult{Count: len(accounts), Accounts: accounts}, nil
	}
}

// CheckRateLimitHandler reports the tracker's current window.
func CheckRateLimitHandler(tracker *quota.Tracker) mcp.ToolHandlerFor[CheckRateLimitInput, CheckRateLimitResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ CheckRateLimitInput) (*mcp.CallToolResult, CheckRateLimitResult, error) {
		metrics.RecordToolInvocation("check_rate_limit", true)

		window, observed := tracker.Window()
		if !observed {
			return nil, CheckRateLimitResult{
				Observed: false,
				Summary:  "No rate-limit headers observed yet; assuming not limited.",
			}, nil
		}
		return nil, CheckRateLimitResult{
			Observed:       true,
			Limit:          window.Limit,
			Remaining:      window.Remaining,
			ResetInSeconds: int(tracker.TimeUntilReset().Seconds()),
			Blocked:        tracker.Blocked(),
			Summary:        tracker.Describe(),
		}, nil
	}
}
