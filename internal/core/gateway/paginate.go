package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/sendlens/sendlens/internal/core"
	apperrors "github.com/sendlens/sendlens/internal/errors"
)

const (
	// DefaultPageSize is the per-page limit requested from listing
	// endpoints.
	DefaultPageSize = 100

	// DefaultMaxItems bounds accumulation across pages. Hitting the
	// bound truncates the result without error.
	DefaultMaxItems = 10000
)

// Paginator walks a paged listing endpoint to exhaustion, preserving
// the platform's page order. There is no resume state: every FetchAccounts
// call starts from the first page.
type Paginator struct {
	Client   *Client
	PageSize int
	MaxItems int
	Logger   *logging.Logger
}

// page is one decoded listing response.
type page struct {
	accounts []core.Account
	cursor   string
	// final marks the bare-array envelope, which never continues.
	final bool
}

// FetchAccounts accumulates every account the endpoint will yield,
// sequentially and in order, stopping at natural end-of-data (short
// page or missing cursor) or at the MaxItems safety bound.
func (p *Paginator) FetchAccounts(ctx context.Context, endpoint string) ([]core.Account, error) {
	if p == nil || p.Client == nil {
		return nil, apperrors.NewInternal("paginator is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	maxItems := p.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	accounts := make([]core.Account, 0, pageSize)
	cursor := ""

	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageSize))
		if cursor != "" {
			params.Set("starting_after", cursor)
		}

		resp, err := p.Client.Call(ctx, http.MethodGet, WithQuery(endpoint, params), nil)
		if err != nil {
			return nil, err
		}

		current, err := decodePage(resp)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, current.accounts...)

		if len(accounts) >= maxItems {
			accounts = accounts[:maxItems]
			if p.Logger != nil {
				p.Logger.Warn("account listing truncated at safety bound",
					zap.String("endpoint", endpoint),
					zap.Int("max_items", maxItems))
			}
			return accounts, nil
		}
		if current.final || current.cursor == "" {
			return accounts, nil
		}
		// A short page means end-of-data even when the platform still
		// handed back a cursor.
		if len(current.accounts) < pageSize {
			return accounts, nil
		}

		cursor = current.cursor
	}
}

// decodePage interprets the known listing envelopes in fixed priority
// order: bare array, {data: [...]}, {items: [...]}. Anything else fails
// closed.
func decodePage(resp *Response) (page, error) {
	if !resp.IsJSON() {
		return page{}, apperrors.NewPaginationShape("non-JSON response body")
	}

	var bare []core.Account
	if err := json.Unmarshal(resp.JSON, &bare); err == nil {
		return page{accounts: bare, final: true}, nil
	}

	var envelope struct {
		Data              []core.Account `json:"data"`
		Items             []core.Account `json:"items"`
		NextStartingAfter string         `json:"next_starting_after"`
	}
	if err := json.Unmarshal(resp.JSON, &envelope); err != nil {
		return page{}, apperrors.NewPaginationShape(summarizeShape(resp.JSON))
	}
	if envelope.Data != nil {
		return page{accounts: envelope.Data, cursor: envelope.NextStartingAfter}, nil
	}
	if envelope.Items != nil {
		return page{accounts: envelope.Items, cursor: envelope.NextStartingAfter}, nil
	}
	return page{}, apperrors.NewPaginationShape(summarizeShape(resp.JSON))
}

// summarizeShape names the top-level keys of an unrecognized envelope
// for the error message, without echoing the whole body.
func summarizeShape(raw json.RawMessage) string {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return "non-object, non-array body"
	}
	if len(object) == 0 {
		return "object with no recognized collection key"
	}
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return "object with keys " + strings.Join(keys, ", ")
}
