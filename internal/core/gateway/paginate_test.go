package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	gferrors "github.com/fulmenhq/gofulmen/errors"
	"github.com/stretchr/testify/require"

	"github.com/sendlens/sendlens/internal/core"
	apperrors "github.com/sendlens/sendlens/internal/errors"
)

func newTestPaginator(t *testing.T, handler http.HandlerFunc) *Paginator {
	t.Helper()
	client, _ := newTestClient(t, handler)
	return &Paginator{Client: client}
}

func makeAccounts(start, count int) []core.Account {
	accounts := make([]core.Account, 0, count)
	for i := 0; i < count; i++ {
		accounts = append(accounts, core.Account{
			Email:        fmt.Sprintf("sender%04d@example.com", start+i),
			Status:       1,
			WarmupStatus: 1,
		})
	}
	return accounts
}

func writePage(w http.ResponseWriter, accounts []core.Account, cursor string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"data":                accounts,
		"next_starting_after": cursor,
	})
}

func TestFetchAccountsWalksCursorPagesInOrder(t *testing.T) {
	pages := map[string]struct {
		accounts []core.Account
		cursor   string
	}{
		"":      {makeAccounts(0, 100), "sender0099@example.com"},
		"sender0099@example.com": {makeAccounts(100, 100), "sender0199@example.com"},
		"sender0199@example.com": {makeAccounts(200, 37), ""},
	}

	var requested []string
	paginator := newTestPaginator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "100", r.URL.Query().Get("limit"))
		cursor := r.URL.Query().Get("starting_after")
		requested = append(requested, cursor)
		page := pages[cursor]
		writePage(w, page.accounts, page.cursor)
	})

	accounts, err := paginator.FetchAccounts(context.Background(), "/accounts")
	require.NoError(t, err)
	require.Len(t, accounts, 237)
	require.Equal(t, []string{"", "sender0099@example.com", "sender0199@example.com"}, requested)
	require.Equal(t, "sender0000@example.com", accounts[0].Email)
	require.Equal(t, "sender0236@example.com", accounts[236].Email)
}

func TestFetchAccountsStopsOnShortPageDespiteCursor(t *testing.T) {
	calls := 0
	paginator := newTestPaginator(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		// Short page with a dangling cursor: end-of-data anyway.
		writePage(w, makeAccounts(0, 3), "sender0002@example.com")
	})

	accounts, err := paginator.FetchAccounts(context.Background(), "/accounts")
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	require.Equal(t, 1, calls)
}

func TestFetchAccountsTreatsBareArrayAsFinal(t *testing.T) {
	calls := 0
	paginator := newTestPaginator(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(makeAccounts(0, 100))
	})

	accounts, err := paginator.FetchAccounts(context.Background(), "/accounts")
	require.NoError(t, err)
	require.Len(t, accounts, 100)
	require.Equal(t, 1, calls, "bare arrays never continue, even at full page size")
}

func TestFetchAccountsDecodesItemsEnvelope(t *testing.T) {
	paginator := newTestPaginator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items":               makeAccounts(0, 2),
			"next_starting_after": "",
		})
	})

	accounts, err := paginator.FetchAccounts(context.Background(), "/accounts")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
}

func TestFetchAccountsTruncatesAtSafetyBound(t *testing.T) {
	paginator := newTestPaginator(t, func(w http.ResponseWriter, r *http.Request) {
		// Every page is full and keeps handing out a cursor.
		writePage(w, makeAccounts(0, 100), "next")
	})
	paginator.MaxItems = 250

	accounts, err := paginator.FetchAccounts(context.Background(), "/accounts")
	require.NoError(t, err, "hitting the bound truncates silently")
	require.Len(t, accounts, 250)
}

func TestFetchAccountsFailsClosedOnUnknownEnvelope(t *testing.T) {
	paginator := newTestPaginator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[],"cursor":"x"}`)
	})

	_, err := paginator.FetchAccounts(context.Background(), "/accounts")
	require.Error(t, err)

	envelope, ok := err.(*gferrors.ErrorEnvelope)
	require.True(t, ok)
	require.Equal(t, apperrors.CodePaginationShape, envelope.Code)
	require.Contains(t, envelope.Message, "cursor, results")
}
