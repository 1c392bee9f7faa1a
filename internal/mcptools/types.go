// Package mcptools exposes the campaign gateway as MCP tools: typed
// input/result structs, tool definitions, and handlers bound to the
// orchestration core. Thin forwarders return the platform's JSON body
// verbatim; orchestration-backed tools run the core pipelines.
package mcptools

import (
	"encoding/json"

	"github.com/sendlens/sendlens/internal/core/campaign"
)

// DaysInput carries explicit per-weekday schedule overrides. Absent
// flags keep the Monday-Friday default.
type DaysInput struct {
	Sunday    *bool `json:"sunday,omitempty" jsonschema:"schedule sends on Sunday"`
	Monday    *bool `json:"monday,omitempty" jsonschema:"schedule sends on Monday"`
	Tuesday   *bool `json:"tuesday,omitempty" jsonschema:"schedule sends on Tuesday"`
	Wednesday *bool `json:"wednesday,omitempty" jsonschema:"schedule sends on Wednesday"`
	Thursday  *bool `json:"thursday,omitempty" jsonschema:"schedule sends on Thursday"`
	Friday    *bool `json:"friday,omitempty" jsonschema:"schedule sends on Friday"`
	Saturday  *bool `json:"saturday,omitempty" jsonschema:"schedule sends on Saturday"`
}

// CreateCampaignInput is the caller contract for campaign creation.
type CreateCampaignInput struct {
	Name      string   `json:"name" jsonschema:"campaign name"`
	Subject   string   `json:"subject,omitempty" jsonschema:"email subject line"`
	Body      string   `json:"body,omitempty" jsonschema:"plain-text email body"`
	Message   string   `json:"message,omitempty" jsonschema:"combined shorthand split into subject/body when either is missing"`
	EmailList []string `json:"email_list,omitempty" jsonschema:"sender addresses; omit to auto-select the best eligible account"`

	Timezone  string     `json:"timezone,omitempty" jsonschema:"IANA timezone for the sending window"`
	StartTime string     `json:"start_time,omitempty" jsonschema:"24-hour HH:MM window start"`
	EndTime   string     `json:"end_time,omitempty" jsonschema:"24-hour HH:MM window end"`
	Days      *DaysInput `json:"days,omitempty" jsonschema:"per-weekday overrides; default is Monday through Friday"`

	SequenceSteps int `json:"sequence_steps,omitempty" jsonschema:"total steps including the primary send"`
	StepDelayDays int `json:"step_delay_days,omitempty" jsonschema:"days between follow-up steps"`

	DailyLimit      int   `json:"daily_limit,omitempty" jsonschema:"maximum sends per day"`
	EmailGapMinutes int   `json:"email_gap_minutes,omitempty" jsonschema:"minutes between consecutive sends"`
	StopOnReply     *bool `json:"stop_on_reply,omitempty" jsonschema:"stop the sequence when a lead replies"`
	OpenTracking    *bool `json:"open_tracking,omitempty" jsonschema:"track opens"`
	LinkTracking    *bool `json:"link_tracking,omitempty" jsonschema:"track link clicks"`
	TextOnly        bool  `json:"text_only,omitempty" jsonschema:"send as plain text"`

	Guided bool `json:"guided,omitempty" jsonschema:"list eligible senders and stop instead of creating"`
}

// Spec converts the tool input into the assembler's partial
// configuration.
func (in CreateCampaignInput) Spec() campaign.Spec {
	spec := campaign.Spec{
		Name:            in.Name,
		Subject:         in.Subject,
		Body:            in.Body,
		Message:         in.Message,
		EmailList:       in.EmailList,
		Timezone:        in.Timezone,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		SequenceSteps:   in.SequenceSteps,
		StepDelayDays:   in.StepDelayDays,
		DailyLimit:      in.DailyLimit,
		EmailGapMinutes: in.EmailGapMinutes,
		StopOnReply:     in.StopOnReply,
		OpenTracking:    in.OpenTracking,
		LinkTracking:    in.LinkTracking,
		TextOnly:        in.TextOnly,
		Guided:          in.Guided,
	}
	if in.Days != nil {
		spec.Days = campaign.DayOverrides{
			Sunday:    in.Days.Sunday,
			Monday:    in.Days.Monday,
			Tuesday:   in.Days.Tuesday,
			Wednesday: in.Days.Wednesday,
			Thursday:  in.Days.Thursday,
			Friday:    in.Days.Friday,
			Saturday:  in.Days.Saturday,
		}
	}
	return spec
}

// ValidateSendersInput is the caller contract for sender validation.
type ValidateSendersInput struct {
	EmailList []string `json:"email_list" jsonschema:"sender addresses to validate against live account eligibility"`
}

// ValidateSendersResult confirms every requested address is eligible.
type ValidateSendersResult struct {
	Valid   bool     `json:"valid" jsonschema:"true when every address is eligible"`
	Checked []string `json:"checked" jsonschema:"addresses validated"`
	Message string   `json:"message" jsonschema:"human-readable confirmation"`
}

// ListEligibleInput requests the current eligible-account roster.
type ListEligibleInput struct{}

// ListEligibleResult is the structured eligible-account listing.
type ListEligibleResult struct {
	Count    int                        `json:"count" jsonschema:"number of eligible accounts"`
	Accounts []campaign.EligibleAccount `json:"accounts" jsonschema:"eligible accounts with warmup scores"`
}

// CheckRateLimitInput requests the current quota window.
type CheckRateLimitInput struct{}

// CheckRateLimitResult reports the last observed quota window.
type CheckRateLimitResult struct {
	Observed       bool   `json:"observed" jsonschema:"false before any response has been seen"`
	Limit          int    `json:"limit,omitempty" jsonschema:"window allowance"`
	Remaining      int    `json:"remaining,omitempty" jsonschema:"requests left in the window"`
	ResetInSeconds int    `json:"reset_in_seconds,omitempty" jsonschema:"seconds until the window resets"`
	Blocked        bool   `json:"blocked" jsonschema:"true when calls would be pre-empted"`
	Summary        string `json:"summary,omitempty" jsonschema:"human-readable window description"`
}

// ForwardResult wraps a verbatim platform JSON body.
type ForwardResult struct {
	Data json.RawMessage `json:"data" jsonschema:"platform response body, unmodified"`
}

// ListCampaignsInput filters the campaign listing.
type ListCampaignsInput struct {
	Limit         int    `json:"limit,omitempty" jsonschema:"page size"`
	StartingAfter string `json:"starting_after,omitempty" jsonschema:"continuation cursor from a previous page"`
	Search        string `json:"search,omitempty" jsonschema:"name filter"`
}

// GetCampaignInput identifies one campaign.
type GetCampaignInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"campaign identifier"`
}

// GetCampaignAnalyticsInput scopes an analytics fetch.
type GetCampaignAnalyticsInput struct {
	CampaignID string `json:"campaign_id,omitempty" jsonschema:"campaign identifier; omit for all campaigns"`
	StartDate  string `json:"start_date,omitempty" jsonschema:"YYYY-MM-DD range start"`
	EndDate    string `json:"end_date,omitempty" jsonschema:"YYYY-MM-DD range end"`
}

// ListAccountsInput pages through the account inventory.
type ListAccountsInput struct {
	Limit         int    `json:"limit,omitempty" jsonschema:"page size"`
	StartingAfter string `json:"starting_after,omitempty" jsonschema:"continuation cursor from a previous page"`
}

// ListEmailsInput filters the email listing.
type ListEmailsInput struct {
	CampaignID    string `json:"campaign_id,omitempty" jsonschema:"restrict to one campaign"`
	Limit         int    `json:"limit,omitempty" jsonschema:"page size"`
	StartingAfter string `json:"starting_after,omitempty" jsonschema:"continuation cursor from a previous page"`
}

// GetEmailInput identifies one email.
type GetEmailInput struct {
	EmailID string `json:"email_id" jsonschema:"email identifier"`
}

// ReplyToEmailInput composes a reply in an existing thread.
type ReplyToEmailInput struct {
	ReplyToUUID string `json:"reply_to_uuid" jsonschema:"identifier of the email being replied to"`
	EAccount    string `json:"eaccount" jsonschema:"sending account address"`
	Subject     string `json:"subject" jsonschema:"reply subject"`
	Body        string `json:"body" jsonschema:"reply body"`
}

// ListLeadsInput filters the lead listing.
type ListLeadsInput struct {
	CampaignID    string `json:"campaign_id,omitempty" jsonschema:"restrict to one campaign"`
	Limit         int    `json:"limit,omitempty" jsonschema:"page size"`
	StartingAfter string `json:"starting_after,omitempty" jsonschema:"continuation cursor from a previous page"`
}

// CreateLeadInput describes one lead to add.
type CreateLeadInput struct {
	CampaignID      string `json:"campaign_id" jsonschema:"campaign to attach the lead to"`
	Email           string `json:"email" jsonschema:"lead address"`
	FirstName       string `json:"first_name,omitempty" jsonschema:"lead first name"`
	LastName        string `json:"last_name,omitempty" jsonschema:"lead last name"`
	CompanyName     string `json:"company_name,omitempty" jsonschema:"lead company"`
	Personalization string `json:"personalization,omitempty" jsonschema:"personalized opener"`
}

// VerifyEmailInput requests a deliverability verification.
type VerifyEmailInput struct {
	Email string `json:"email" jsonschema:"address to verify"`
}
