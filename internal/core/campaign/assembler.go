package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/sendlens/sendlens/internal/core"
	"github.com/sendlens/sendlens/internal/core/eligibility"
	"github.com/sendlens/sendlens/internal/core/gateway"
	apperrors "github.com/sendlens/sendlens/internal/errors"
)

// DefaultCampaignsEndpoint is the platform's campaign creation
// endpoint.
const DefaultCampaignsEndpoint = "/campaigns"

// Assembler orchestrates campaign creation: it resolves partial caller
// input, validates senders against live account state, deterministically
// builds the wire payload, and submits it.
type Assembler struct {
	Gateway     *gateway.Client
	Eligibility *eligibility.Validator
	Endpoint    string
	Logger      *logging.Logger
}

// EligibleAccount is one entry of the guided-mode listing.
type EligibleAccount struct {
	Email       string  `json:"email"`
	WarmupScore float64 `json:"warmup_score"`
}

// Result is the outcome of a Create call: either a guided checkpoint
// listing eligible senders, or a confirmation envelope around the
// created campaign.
type Result struct {
	Guided           bool              `json:"guided,omitempty"`
	EligibleAccounts []EligibleAccount `json:"eligible_accounts,omitempty"`
	Campaign         json.RawMessage   `json:"campaign,omitempty"`
	SendersUsed      []string          `json:"senders_used,omitempty"`
	SequenceSteps    int               `json:"sequence_steps,omitempty"`
	Message          string            `json:"message"`
	NextAction       string            `json:"next_action"`
}

// Create runs the assembly pipeline once, terminal on the first
// unrecoverable error. The guided checkpoint is the one non-error
// early exit.
func (a *Assembler) Create(ctx context.Context, spec Spec) (*Result, error) {
	if a == nil || a.Gateway == nil || a.Eligibility == nil {
		return nil, apperrors.NewInternal("campaign assembler is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	spec.applyMessageShortcut()

	autoDiscovered := false
	if len(spec.EmailList) == 0 {
		result, err := a.discoverSenders(ctx, &spec)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
		autoDiscovered = true
	}

	if missing := spec.missingFields(); len(missing) > 0 {
		return nil, apperrors.NewMissingField(missing...)
	}
	if err := validateFormat(&spec); err != nil {
		return nil, err
	}

	// Auto-discovered senders came from the live eligible set fetched
	// moments ago; only caller-supplied lists need cross-validation.
	if !autoDiscovered {
		if err := a.Eligibility.ValidateSenders(ctx, spec.EmailList); err != nil {
			return nil, err
		}
	}

	payload := BuildPayload(spec)

	resp, err := a.Gateway.Call(ctx, http.MethodPost, a.endpoint(), payload)
	if err != nil {
		return nil, err
	}

	if a.Logger != nil {
		a.Logger.Info("campaign created",
			zap.String("name", spec.Name),
			zap.Int("sequence_steps", len(payload.Sequences[0].Steps)),
			zap.Int("senders", len(spec.EmailList)))
	}

	steps := len(payload.Sequences[0].Steps)
	return &Result{
		Campaign:      resp.JSON,
		SendersUsed:   spec.EmailList,
		SequenceSteps: steps,
		Message:       fmt.Sprintf("Campaign %q created with %d sequence step(s) from %d sender(s).", spec.Name, steps, len(spec.EmailList)),
		NextAction:    "Activate the campaign on the platform, or add leads with create_lead before launching.",
	}, nil
}

// discoverSenders fills the spec's sender list when the caller supplied
// none. Guided mode returns a listing instead of selecting; otherwise
// the eligible account with the highest warmup score wins, ties broken
// by inventory order.
func (a *Assembler) discoverSenders(ctx context.Context, spec *Spec) (*Result, error) {
	eligible, err := a.Eligibility.ListEligible(ctx)
	if err != nil {
		switch apperrors.CodeOf(err) {
		case apperrors.CodeNoAccounts:
			return nil, apperrors.NewAutoDiscoveryFailed(0)
		case apperrors.CodeNoEligibleAccounts:
			return nil, apperrors.NewAutoDiscoveryFailed(len(envelopeAccounts(err)))
		}
		return nil, err
	}

	if spec.Guided {
		listing := make([]EligibleAccount, 0, len(eligible))
		for _, account := range eligible {
			listing = append(listing, EligibleAccount{Email: account.Email, WarmupScore: account.Score()})
		}
		return &Result{
			Guided:           true,
			EligibleAccounts: listing,
			Message:          fmt.Sprintf("%d account(s) are eligible to send. No campaign was created.", len(listing)),
			NextAction:       "Call create_campaign again with email_list set to your chosen sender(s).",
		}, nil
	}

	best := eligible[0]
	for _, account := range eligible[1:] {
		if account.Score() > best.Score() {
			best = account
		}
	}
	spec.EmailList = []string{best.Email}

	if a.Logger != nil {
		a.Logger.Info("auto-selected sender",
			zap.String("email", best.Email),
			zap.Float64("warmup_score", best.Score()))
	}
	return nil, nil
}

func (a *Assembler) endpoint() string {
	if a != nil && a.Endpoint != "" {
		return a.Endpoint
	}
	return DefaultCampaignsEndpoint
}

// envelopeAccounts recovers the diagnostic account count from a
// NO_ELIGIBLE_ACCOUNTS envelope for the auto-discovery message.
func envelopeAccounts(err error) []core.AccountDiagnostic {
	envelope := apperrors.EnsureEnvelope(err)
	if raw, ok := envelope.Context["accounts"]; ok {
		if diagnostics, ok := raw.([]core.AccountDiagnostic); ok {
			return diagnostics
		}
	}
	return nil
}
