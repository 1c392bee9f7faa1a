package mcptools

import (
	"context"
	"net/http"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/sendlens/sendlens/internal/config"
	"github.com/sendlens/sendlens/internal/core/campaign"
	"github.com/sendlens/sendlens/internal/core/eligibility"
	"github.com/sendlens/sendlens/internal/core/gateway"
	"github.com/sendlens/sendlens/internal/core/quota"
)

const serverName = "sendlens"

// Server hosts the MCP server and the orchestration components behind
// its tools.
type Server struct {
	mcpServer *mcp.Server
	tracker   *quota.Tracker
}

// New wires the orchestration core from configuration and registers
// every tool. The quota registry outlives this server so that
// rate-limit awareness survives reconnects of the same credential.
func New(cfg *config.Config, registry *quota.Registry, version string, logger *logging.Logger) *Server {
	tracker := registry.TrackerFor(cfg.Platform.APIKey)

	var throttle *rate.Limiter
	if cfg.Platform.ThrottlePerSecond > 0 {
		throttle = rate.NewLimiter(rate.Limit(cfg.Platform.ThrottlePerSecond), 1)
	}

	client := &gateway.Client{
		BaseURL:    cfg.Platform.BaseURL,
		APIKey:     cfg.Platform.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Platform.Timeout},
		Tracker:    tracker,
		Throttle:   throttle,
	}
	paginator := &gateway.Paginator{
		Client:   client,
		MaxItems: cfg.Platform.MaxAccounts,
		Logger:   logger,
	}
	validator := &eligibility.Validator{Paginator: paginator}
	assembler := &campaign.Assembler{
		Gateway:     client,
		Eligibility: validator,
		Logger:      logger,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)

	mcp.AddTool(mcpServer, CreateCampaignTool(), CreateCampaignHandler(assembler))
	mcp.AddTool(mcpServer, ValidateSendersTool(), ValidateSendersHandler(validator))
	mcp.AddTool(mcpServer, ListEligibleAccountsTool(), ListEligibleAccountsHandler(validator))
	mcp.AddTool(mcpServer, CheckRateLimitTool(), CheckRateLimitHandler(tracker))

	mcp.AddTool(mcpServer, ListCampaignsTool(), ListCampaignsHandler(client))
	mcp.AddTool(mcpServer, GetCampaignTool(), GetCampaignHandler(client))
	mcp.AddTool(mcpServer, GetCampaignAnalyticsTool(), GetCampaignAnalyticsHandler(client))
	mcp.AddTool(mcpServer, ListAccountsTool(), ListAccountsHandler(client))
	mcp.AddTool(mcpServer, ListEmailsTool(), ListEmailsHandler(client))
	mcp.AddTool(mcpServer, GetEmailTool(), GetEmailHandler(client))
	mcp.AddTool(mcpServer, ReplyToEmailTool(), ReplyToEmailHandler(client))
	mcp.AddTool(mcpServer, ListLeadsTool(), ListLeadsHandler(client))
	mcp.AddTool(mcpServer, CreateLeadTool(), CreateLeadHandler(client))
	mcp.AddTool(mcpServer, VerifyEmailTool(), VerifyEmailHandler(client))

	return &Server{mcpServer: mcpServer, tracker: tracker}
}

// RunStdio serves MCP over stdin/stdout until the context is canceled
// or the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler exposes the same server over the streamable HTTP
// transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// Tracker exposes the quota tracker for operator commands.
func (s *Server) Tracker() *quota.Tracker {
	return s.tracker
}
