package cmd

import (
	"net/http"

	"github.com/fulmenhq/gofulmen/foundry"
	"golang.org/x/time/rate"

	"github.com/sendlens/sendlens/internal/config"
	"github.com/sendlens/sendlens/internal/core/eligibility"
	"github.com/sendlens/sendlens/internal/core/gateway"
	"github.com/sendlens/sendlens/internal/core/quota"
	"github.com/sendlens/sendlens/internal/observability"
)

// platformComponents bundles the remote-facing pieces the operator
// commands share with the MCP tools.
type platformComponents struct {
	client    *gateway.Client
	paginator *gateway.Paginator
	validator *eligibility.Validator
	tracker   *quota.Tracker
}

// newPlatformComponents wires a gateway stack from the loaded
// configuration. Exits when no API key is configured.
func newPlatformComponents(cfg *config.Config) *platformComponents {
	if cfg.Platform.APIKey == "" {
		ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid,
			"No platform API key configured (set platform.api_key or SENDLENS_PLATFORM_API_KEY)", nil)
	}

	tracker := quota.NewRegistry().TrackerFor(cfg.Platform.APIKey)

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
	}
	validator := &eligibility.Validator{Paginator: paginator}

	return &platformComponents{
		client:    client,
		paginator: paginator,
		validator: validator,
		tracker:   tracker,
	}
}
