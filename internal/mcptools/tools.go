package mcptools

import "github.com/modelcontextprotocol/go-sdk/mcp"

// CreateCampaignTool defines the MCP tool schema for campaign creation.
func CreateCampaignTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_campaign",
		Description: "Creates an email campaign. Resolves partial input, validates senders against live account eligibility, and builds the schedule and follow-up sequence. Set guided to list eligible senders without creating.",
	}
}

// ValidateSendersTool defines the MCP tool schema for sender validation.
func ValidateSendersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "validate_sender_accounts",
		Description: "Checks a list of sender addresses against live account eligibility (active, setup complete, warmup active).",
	}
}

// ListEligibleAccountsTool defines the MCP tool schema for the
// eligible-sender roster.
func ListEligibleAccountsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_eligible_accounts",
		Description: "Lists accounts currently eligible to send, with warmup scores.",
	}
}

// CheckRateLimitTool defines the MCP tool schema for quota inspection.
func CheckRateLimitTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "check_rate_limit",
		Description: "Reports the platform rate-limit window last observed for this credential.",
	}
}

// ListCampaignsTool defines the MCP tool schema for campaign listing.
func ListCampaignsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_campaigns",
		Description: "Lists campaigns with optional search and pagination.",
	}
}

// GetCampaignTool defines the MCP tool schema for a single campaign
// fetch.
func GetCampaignTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_campaign",
		Description: "Fetches one campaign by identifier.",
	}
}

// GetCampaignAnalyticsTool defines the MCP tool schema for analytics.
func GetCampaignAnalyticsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_campaign_analytics",
		Description: "Fetches campaign analytics, optionally scoped to one campaign and a date range.",
	}
}

// ListAccountsTool defines the MCP tool schema for the raw account
// inventory.
func ListAccountsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_accounts",
		Description: "Lists sending accounts with pagination.",
	}
}

// ListEmailsTool defines the MCP tool schema for email listing.
func ListEmailsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_emails",
		Description: "Lists emails with optional campaign filter and pagination.",
	}
}

// GetEmailTool defines the MCP tool schema for a single email fetch.
func GetEmailTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_email",
		Description: "Fetches one email by identifier.",
	}
}

// ReplyToEmailTool defines the MCP tool schema for thread replies.
func ReplyToEmailTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "reply_to_email",
		Description: "Sends a reply in an existing email thread.",
	}
}

// ListLeadsTool defines the MCP tool schema for lead listing.
func ListLeadsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_leads",
		Description: "Lists leads with optional campaign filter and pagination.",
	}
}

// CreateLeadTool defines the MCP tool schema for lead creation.
func CreateLeadTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_lead",
		Description: "Adds a lead to a campaign.",
	}
}

// VerifyEmailTool defines the MCP tool schema for address
// verification.
func VerifyEmailTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "verify_email",
		Description: "Verifies deliverability of an email address.",
	}
}
