package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gferrors "github.com/fulmenhq/gofulmen/errors"
	"github.com/stretchr/testify/require"

	"github.com/sendlens/sendlens/internal/core/quota"
	apperrors "github.com/sendlens/sendlens/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *quota.Tracker) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tracker := quota.NewRegistry().TrackerFor("test-key")
	client := &Client{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		HTTPClient: srv.Client(),
		Tracker:    tracker,
	}
	return client, tracker
}

func TestCallSendsBearerAuthAndParsesJSON(t *testing.T) {
	var gotAuth, gotAccept string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true}`)
	})

	resp, err := client.Call(context.Background(), http.MethodGet, "/accounts", nil)
	require.NoError(t, err)
	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "application/json", gotAccept)
	require.True(t, resp.IsJSON())
	require.JSONEq(t, `{"ok":true}`, string(resp.JSON))
}

func TestCallObservesRateLimitHeaders(t *testing.T) {
	client, tracker := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(quota.HeaderLimit, "100")
		w.Header().Set(quota.HeaderRemaining, "7")
		w.Header().Set(quota.HeaderReset, "1700000000")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})

	_, err := client.Call(context.Background(), http.MethodGet, "/accounts", nil)
	require.NoError(t, err)

	window, ok := tracker.Window()
	require.True(t, ok)
	require.Equal(t, 7, window.Remaining)
}

func TestCallObservesHeadersOnErrorResponses(t *testing.T) {
	client, tracker := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(quota.HeaderLimit, "100")
		w.Header().Set(quota.HeaderRemaining, "0")
		w.Header().Set(quota.HeaderReset, "1700000000")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":"rate limited"}`)
	})

	_, err := client.Call(context.Background(), http.MethodGet, "/accounts", nil)
	require.Error(t, err)
	require.True(t, tracker.Blocked(), "headers on failures still update the window")
}

func TestCallBlocksBeforeNetworkWhenQuotaExhausted(t *testing.T) {
	calls := 0
	client, tracker := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set(quota.HeaderLimit, "100")
		w.Header().Set(quota.HeaderRemaining, "0")
		w.Header().Set(quota.HeaderReset, "1700000000")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})

	_, err := client.Call(context.Background(), http.MethodGet, "/accounts", nil)
	require.NoError(t, err)
	require.True(t, tracker.Blocked())

	_, err = client.Call(context.Background(), http.MethodGet, "/accounts", nil)
	require.Error(t, err)
	require.Equal(t, apperrors.CodeRateLimited, apperrors.CodeOf(err))
	require.Equal(t, 1, calls, "blocked call must not reach the network")
}

func TestCallMapsJSONErrorBodies(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"string error field", `{"error":"invalid campaign"}`, "invalid campaign"},
		{"nested error object", `{"error":{"message":"bad schedule"}}`, "bad schedule"},
		{"message fallback", `{"message":"try later"}`, "try later"},
		{"empty body falls back to status text", `{}`, http.StatusText(http.StatusBadRequest)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, tc.body)
			})

			_, err := client.Call(context.Background(), http.MethodGet, "/campaigns", nil)
			require.Error(t, err)

			envelope, ok := err.(*gferrors.ErrorEnvelope)
			require.True(t, ok)
			require.Equal(t, apperrors.CodeRemoteAPI, envelope.Code)
			require.Contains(t, envelope.Message, tc.wantMsg)
		})
	}
}

func TestCallMapsNonJSONErrorBodies(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>upstream exploded</html>")
	})

	_, err := client.Call(context.Background(), http.MethodGet, "/campaigns", nil)
	require.Error(t, err)

	envelope, ok := err.(*gferrors.ErrorEnvelope)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeRemoteAPI, envelope.Code)
	require.Contains(t, envelope.Message, "upstream exploded")
}

func TestCallEncodesBodyForNonGET(t *testing.T) {
	var gotBody map[string]interface{}
	var gotContentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})

	_, err := client.Call(context.Background(), http.MethodPost, "/campaigns", map[string]string{"name": "Test"})
	require.NoError(t, err)
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, "Test", gotBody["name"])
}

func TestWithQuery(t *testing.T) {
	require.Equal(t, "/accounts", WithQuery("/accounts", nil))
	require.Equal(t, "/accounts?limit=100", WithQuery("/accounts", url.Values{"limit": {"100"}}))
	require.Equal(t, "/accounts?limit=100&starting_after=a%40b.com",
		WithQuery("/accounts?limit=100", url.Values{"starting_after": {"a@b.com"}}))
}
