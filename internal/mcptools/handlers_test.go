package mcptools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sendlens/sendlens/internal/core"
	"github.com/sendlens/sendlens/internal/core/campaign"
	"github.com/sendlens/sendlens/internal/core/eligibility"
	"github.com/sendlens/sendlens/internal/core/gateway"
	"github.com/sendlens/sendlens/internal/core/quota"
	apperrors "github.com/sendlens/sendlens/internal/errors"
)

func score(v float64) *float64 {
	return &v
}

// testStack spins up a fake platform and returns the wired components.
type testStack struct {
	client    *gateway.Client
	validator *eligibility.Validator
	assembler *campaign.Assembler
	tracker   *quota.Tracker
}

func newTestStack(t *testing.T, handler http.HandlerFunc) *testStack {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tracker := quota.NewRegistry().TrackerFor("test-key")
	client := &gateway.Client{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		HTTPClient: srv.Client(),
		Tracker:    tracker,
	}
	validator := &eligibility.Validator{Paginator: &gateway.Paginator{Client: client}}
	assembler := &campaign.Assembler{Gateway: client, Eligibility: validator}
	return &testStack{client: client, validator: validator, assembler: assembler, tracker: tracker}
}

func accountsHandler(accounts []core.Account) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data":                accounts,
			"next_starting_after": "",
		})
	}
}

func TestValidateSendersHandlerRequiresEmailList(t *testing.T) {
	stack := newTestStack(t, accountsHandler(nil))

	handler := ValidateSendersHandler(stack.validator)
	_, _, err := handler(context.Background(), nil, ValidateSendersInput{})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(err))
}

func TestValidateSendersHandlerConfirmsEligibleSenders(t *testing.T) {
	stack := newTestStack(t, accountsHandler([]core.Account{
		{Email: "ready@example.com", Status: 1, WarmupStatus: 1},
	}))

	handler := ValidateSendersHandler(stack.validator)
	_, result, err := handler(context.Background(), nil, ValidateSendersInput{
		EmailList: []string{"ready@example.com"},
	})
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Contains(t, result.Message, "ready@example.com")
}

func TestListEligibleAccountsHandlerReturnsRoster(t *testing.T) {
	stack := newTestStack(t, accountsHandler([]core.Account{
		{Email: "ready@example.com", Status: 1, WarmupStatus: 1, WarmupScore: score(91)},
		{Email: "paused@example.com", Status: 2, WarmupStatus: 1},
	}))

	handler := ListEligibleAccountsHandler(stack.validator)
	_, result, err := handler(context.Background(), nil, ListEligibleInput{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.Equal(t, "ready@example.com", result.Accounts[0].Email)
	require.Equal(t, float64(91), result.Accounts[0].WarmupScore)
}

func TestCheckRateLimitHandlerBeforeAndAfterObservation(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(quota.HeaderLimit, "100")
		w.Header().Set(quota.HeaderRemaining, "3")
		w.Header().Set(quota.HeaderReset, "1700000000")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	handler := CheckRateLimitHandler(stack.tracker)

	_, result, err := handler(context.Background(), nil, CheckRateLimitInput{})
	require.NoError(t, err)
	require.False(t, result.Observed)
	require.Contains(t, result.Summary, "assuming not limited")

	_, err = stack.client.Call(context.Background(), http.MethodGet, "/accounts", nil)
	require.NoError(t, err)

	_, result, err = handler(context.Background(), nil, CheckRateLimitInput{})
	require.NoError(t, err)
	require.True(t, result.Observed)
	require.Equal(t, 100, result.Limit)
	require.Equal(t, 3, result.Remaining)
	require.False(t, result.Blocked)
}

func TestCreateCampaignHandlerRunsPipeline(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"id":"cmp_9"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []core.Account{
				{Email: "ready@example.com", Status: 1, WarmupStatus: 1, WarmupScore: score(80)},
			},
			"next_starting_after": "",
		})
	})

	handler := CreateCampaignHandler(stack.assembler)
	_, result, err := handler(context.Background(), nil, CreateCampaignInput{
		Name:    "Launch",
		Message: "Quick question. Growing fast.",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ready@example.com"}, result.SendersUsed)
	require.JSONEq(t, `{"id":"cmp_9"}`, string(result.Campaign))
}

func TestForwardHandlersMapArguments(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody map[string]interface{}
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	listHandler := ListCampaignsHandler(stack.client)
	_, result, err := listHandler(context.Background(), nil, ListCampaignsInput{Limit: 5, Search: "launch"})
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(result.Data))
	require.Equal(t, "/campaigns", gotPath)
	require.Contains(t, gotQuery, "limit=5")
	require.Contains(t, gotQuery, "search=launch")

	getHandler := GetCampaignHandler(stack.client)
	_, _, err = getHandler(context.Background(), nil, GetCampaignInput{CampaignID: "cmp 1"})
	require.NoError(t, err)
	require.Equal(t, "/campaigns/cmp 1", gotPath)

	_, _, err = getHandler(context.Background(), nil, GetCampaignInput{})
	require.Error(t, err)
	require.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(err))

	replyHandler := ReplyToEmailHandler(stack.client)
	_, _, err = replyHandler(context.Background(), nil, ReplyToEmailInput{
		ReplyToUUID: "uuid-1",
		EAccount:    "ready@example.com",
		Subject:     "Re: hello",
		Body:        "Thanks!",
	})
	require.NoError(t, err)
	require.Equal(t, "/emails/reply", gotPath)
	require.Equal(t, "uuid-1", gotBody["reply_to_uuid"])
}
