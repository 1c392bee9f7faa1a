package mcptools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sendlens/sendlens/internal/core/gateway"
	apperrors "github.com/sendlens/sendlens/internal/errors"
	"github.com/sendlens/sendlens/internal/metrics"
)

// forward performs one gateway call and wraps the body verbatim. The
// thin tools below do nothing beyond argument mapping.
func forward(ctx context.Context, client *gateway.Client, tool, method, endpoint string, body interface{}) (ForwardResult, error) {
	resp, err := client.Call(ctx, method, endpoint, body)
	metrics.RecordToolInvocation(tool, err == nil)
	if err != nil {
		return ForwardResult{}, err
	}
	if resp.IsJSON() {
		return ForwardResult{Data: resp.JSON}, nil
	}
	encoded, _ := json.Marshal(resp.Text)
	return ForwardResult{Data: encoded}, nil
}

func pagingParams(limit int, startingAfter string) url.Values {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if startingAfter != "" {
		params.Set("starting_after", startingAfter)
	}
	return params
}

// ListCampaignsHandler forwards the campaign listing.
func ListCampaignsHandler(client *gateway.Client) mcp.ToolHandlerFor[ListCampaignsInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListCampaignsInput) (*mcp.CallToolResult, ForwardResult, error) {
		params := pagingParams(input.Limit, input.StartingAfter)
		if input.Search != "" {
			params.Set("search", input.Search)
		}
		result, err := forward(ctx, client, "list_campaigns", http.MethodGet, gateway.WithQuery("/campaigns", params), nil)
		return nil, result, err
	}
}

// GetCampaignHandler forwards a single campaign fetch.
func GetCampaignHandler(client *gateway.Client) mcp.ToolHandlerFor[GetCampaignInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCampaignInput) (*mcp.CallToolResult, ForwardResult, error) {
		if input.CampaignID == "" {
			return nil, ForwardResult{}, apperrors.NewMissingField("campaign_id")
		}
		result, err := forward(ctx, client, "get_campaign", http.MethodGet, "/campaigns/"+url.PathEscape(input.CampaignID), nil)
		return nil, result, err
	}
}

// GetCampaignAnalyticsHandler forwards an analytics fetch.
func GetCampaignAnalyticsHandler(client *gateway.Client) mcp.ToolHandlerFor[GetCampaignAnalyticsInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCampaignAnalyticsInput) (*mcp.CallToolResult, ForwardResult, error) {
		params := url.Values{}
		if input.CampaignID != "" {
			params.Set("id", input.CampaignID)
		}
		if input.StartDate != "" {
			params.Set("start_date", input.StartDate)
		}
		if input.EndDate != "" {
			params.Set("end_date", input.EndDate)
		}
		result, err := forward(ctx, client, "get_campaign_analytics", http.MethodGet, gateway.WithQuery("/campaigns/analytics", params), nil)
		return nil, result, err
	}
}

// ListAccountsHandler forwards the raw account inventory listing.
func ListAccountsHandler(client *gateway.Client) mcp.ToolHandlerFor[ListAccountsInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListAccountsInput) (*mcp.CallToolResult, ForwardResult, error) {
		result, err := forward(ctx, client, "list_accounts", http.MethodGet, gateway.WithQuery("/accounts", pagingParams(input.Limit, input.StartingAfter)), nil)
		return nil, result, err
	}
}

// ListEmailsHandler forwards the email listing.
func ListEmailsHandler(client *gateway.Client) mcp.ToolHandlerFor[ListEmailsInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListEmailsInput) (*mcp.CallToolResult, ForwardResult, error) {
		params := pagingParams(input.Limit, input.StartingAfter)
		if input.CampaignID != "" {
			params.Set("campaign_id", input.CampaignID)
		}
		result, err := forward(ctx, client, "list_emails", http.MethodGet, gateway.WithQuery("/emails", params), nil)
		return nil, result, err
	}
}

// GetEmailHandler forwards a single email fetch.
func GetEmailHandler(client *gateway.Client) mcp.ToolHandlerFor[GetEmailInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetEmailInput) (*mcp.CallToolResult, ForwardResult, error) {
		if input.EmailID == "" {
			return nil, ForwardResult{}, apperrors.NewMissingField("email_id")
		}
		result, err := forward(ctx, client, "get_email", http.MethodGet, "/emails/"+url.PathEscape(input.EmailID), nil)
		return nil, result, err
	}
}

// ReplyToEmailHandler forwards a thread reply.
func ReplyToEmailHandler(client *gateway.Client) mcp.ToolHandlerFor[ReplyToEmailInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReplyToEmailInput) (*mcp.CallToolResult, ForwardResult, error) {
		var missing []string
		if input.ReplyToUUID == "" {
			missing = append(missing, "reply_to_uuid")
		}
		if input.EAccount == "" {
			missing = append(missing, "eaccount")
		}
		if input.Body == "" {
			missing = append(missing, "body")
		}
		if len(missing) > 0 {
			return nil, ForwardResult{}, apperrors.NewMissingField(missing...)
		}

		payload := map[string]interface{}{
			"reply_to_uuid": input.ReplyToUUID,
			"eaccount":      input.EAccount,
			"subject":       input.Subject,
			"body":          map[string]string{"text": input.Body},
		}
		result, err := forward(ctx, client, "reply_to_email", http.MethodPost, "/emails/reply", payload)
		return nil, result, err
	}
}

// ListLeadsHandler forwards the lead listing.
func ListLeadsHandler(client *gateway.Client) mcp.ToolHandlerFor[ListLeadsInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListLeadsInput) (*mcp.CallToolResult, ForwardResult, error) {
		payload := map[string]interface{}{}
		if input.CampaignID != "" {
			payload["campaign_id"] = input.CampaignID
		}
		if input.Limit > 0 {
			payload["limit"] = input.Limit
		}
		if input.StartingAfter != "" {
			payload["starting_after"] = input.StartingAfter
		}
		result, err := forward(ctx, client, "list_leads", http.MethodPost, "/leads/list", payload)
		return nil, result, err
	}
}

// CreateLeadHandler forwards a lead creation.
func CreateLeadHandler(client *gateway.Client) mcp.ToolHandlerFor[CreateLeadInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateLeadInput) (*mcp.CallToolResult, ForwardResult, error) {
		var missing []string
		if input.CampaignID == "" {
			missing = append(missing, "campaign_id")
		}
		if input.Email == "" {
			missing = append(missing, "email")
		}
		if len(missing) > 0 {
			return nil, ForwardResult{}, apperrors.NewMissingField(missing...)
		}

		payload := map[string]interface{}{
			"campaign": input.CampaignID,
			"email":    input.Email,
		}
		if input.FirstName != "" {
			payload["first_name"] = input.FirstName
		}
		if input.LastName != "" {
			payload["last_name"] = input.LastName
		}
		if input.CompanyName != "" {
			payload["company_name"] = input.CompanyName
		}
		if input.Personalization != "" {
			payload["personalization"] = input.Personalization
		}
		result, err := forward(ctx, client, "create_lead", http.MethodPost, "/leads", payload)
		return nil, result, err
	}
}

// VerifyEmailHandler forwards an address verification.
func VerifyEmailHandler(client *gateway.Client) mcp.ToolHandlerFor[VerifyEmailInput, ForwardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input VerifyEmailInput) (*mcp.CallToolResult, ForwardResult, error) {
		if input.Email == "" {
			return nil, ForwardResult{}, apperrors.NewMissingField("email")
		}
		payload := map[string]interface{}{"email": input.Email}
		result, err := forward(ctx, client, "verify_email", http.MethodPost, "/email-verification", payload)
		return nil, result, err
	}
}
