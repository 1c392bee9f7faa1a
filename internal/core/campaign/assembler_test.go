package campaign

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sendlens/sendlens/internal/core"
	"github.com/sendlens/sendlens/internal/core/eligibility"
	"github.com/sendlens/sendlens/internal/core/gateway"
	"github.com/sendlens/sendlens/internal/core/quota"
	apperrors "github.com/sendlens/sendlens/internal/errors"
)

func score(v float64) *float64 {
	return &v
}

// fakePlatform serves the account inventory and records campaign
// creation payloads.
type fakePlatform struct {
	accounts []core.Account
	created  []map[string]interface{}
}

func (f *fakePlatform) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/accounts"):
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data":                f.accounts,
				"next_starting_after": "",
			})
		case r.Method == http.MethodPost && r.URL.Path == "/campaigns":
			var payload map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			f.created = append(f.created, payload)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":   "cmp_123",
				"name": payload["name"],
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestAssembler(t *testing.T, platform *fakePlatform) *Assembler {
	t.Helper()

	srv := httptest.NewServer(platform.handler())
	t.Cleanup(srv.Close)

	client := &gateway.Client{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		HTTPClient: srv.Client(),
		Tracker:    quota.NewRegistry().TrackerFor("test-key"),
	}
	validator := &eligibility.Validator{Paginator: &gateway.Paginator{Client: client}}
	return &Assembler{Gateway: client, Eligibility: validator}
}

func warmInventory() []core.Account {
	return []core.Account{
		{Email: "low@example.com", Status: 1, WarmupStatus: 1, WarmupScore: score(60)},
		{Email: "best@example.com", Status: 1, WarmupStatus: 1, WarmupScore: score(97)},
		{Email: "paused@example.com", Status: 2, WarmupStatus: 1, WarmupScore: score(99)},
	}
}

func TestCreateSubmitsResolvedPayload(t *testing.T) {
	platform := &fakePlatform{accounts: warmInventory()}
	assembler := newTestAssembler(t, platform)

	result, err := assembler.Create(context.Background(), Spec{
		Name:          "Launch",
		Message:       "Quick question. I noticed your team is growing.",
		EmailList:     []string{"best@example.com"},
		SequenceSteps: 3,
		StepDelayDays: 2,
	})
	require.NoError(t, err)
	require.False(t, result.Guided)
	require.Equal(t, []string{"best@example.com"}, result.SendersUsed)
	require.Equal(t, 3, result.SequenceSteps)
	require.Contains(t, result.Message, `"Launch"`)
	require.NotEmpty(t, result.NextAction)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(result.Campaign, &created))
	require.Equal(t, "cmp_123", created.ID)

	require.Len(t, platform.created, 1)
	payload := platform.created[0]
	require.Equal(t, "Launch", payload["name"])

	sequences := payload["sequences"].([]interface{})
	steps := sequences[0].(map[string]interface{})["steps"].([]interface{})
	require.Len(t, steps, 3)
	first := steps[0].(map[string]interface{})
	require.Equal(t, float64(0), first["delay"])
	second := steps[1].(map[string]interface{})
	require.Equal(t, float64(2), second["delay"])
}

func TestCreateAutoSelectsHighestWarmupScore(t *testing.T) {
	platform := &fakePlatform{accounts: warmInventory()}
	assembler := newTestAssembler(t, platform)

	result, err := assembler.Create(context.Background(), Spec{
		Name:    "Launch",
		Subject: "Hello",
		Body:    "World",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"best@example.com"}, result.SendersUsed,
		"paused account is excluded even with the top score")
}

func TestCreateGuidedModeListsWithoutCreating(t *testing.T) {
	platform := &fakePlatform{accounts: warmInventory()}
	assembler := newTestAssembler(t, platform)

	result, err := assembler.Create(context.Background(), Spec{
		Name:    "Launch",
		Subject: "Hello",
		Body:    "World",
		Guided:  true,
	})
	require.NoError(t, err)
	require.True(t, result.Guided)
	require.Len(t, result.EligibleAccounts, 2)
	require.Equal(t, "low@example.com", result.EligibleAccounts[0].Email)
	require.Empty(t, platform.created, "guided mode must not create a campaign")
}

func TestCreateGuidedModeSkippedWhenSendersSupplied(t *testing.T) {
	platform := &fakePlatform{accounts: warmInventory()}
	assembler := newTestAssembler(t, platform)

	result, err := assembler.Create(context.Background(), Spec{
		Name:      "Launch",
		Subject:   "Hello",
		Body:      "World",
		EmailList: []string{"best@example.com"},
		Guided:    true,
	})
	require.NoError(t, err)
	require.False(t, result.Guided, "guided checkpoint only applies to auto-discovery")
	require.Len(t, platform.created, 1)
}

func TestCreateMapsDiscoveryFailures(t *testing.T) {
	platform := &fakePlatform{accounts: []core.Account{
		{Email: "cold@example.com", Status: 1, WarmupStatus: 0},
	}}
	assembler := newTestAssembler(t, platform)

	_, err := assembler.Create(context.Background(), Spec{
		Name:    "Launch",
		Subject: "Hello",
		Body:    "World",
	})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeAutoDiscoveryFailed, apperrors.CodeOf(err))
	require.Contains(t, apperrors.EnsureEnvelope(err).Message, "1 accounts")
}

func TestCreateRejectsIneligibleCallerSenders(t *testing.T) {
	platform := &fakePlatform{accounts: warmInventory()}
	assembler := newTestAssembler(t, platform)

	_, err := assembler.Create(context.Background(), Spec{
		Name:      "Launch",
		Subject:   "Hello",
		Body:      "World",
		EmailList: []string{"paused@example.com"},
	})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeIneligibleEmails, apperrors.CodeOf(err))
	require.Empty(t, platform.created)
}

func TestCreateReportsMissingFields(t *testing.T) {
	platform := &fakePlatform{accounts: warmInventory()}
	assembler := newTestAssembler(t, platform)

	_, err := assembler.Create(context.Background(), Spec{
		EmailList: []string{"best@example.com"},
	})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(err))
	require.Contains(t, apperrors.EnsureEnvelope(err).Message, "name")
	require.Contains(t, apperrors.EnsureEnvelope(err).Message, "subject")
}
