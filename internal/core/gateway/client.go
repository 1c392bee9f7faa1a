// Package gateway performs authenticated calls against the campaign
// platform's REST API. Each Call issues exactly one HTTP request; rate
// limiting is advisory (pre-flight block from observed headers) and
// retries are the caller's responsibility.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sendlens/sendlens/internal/core/quota"
	apperrors "github.com/sendlens/sendlens/internal/errors"
	"github.com/sendlens/sendlens/internal/metrics"
)

// Response is the parsed result of one remote call. JSON is set when
// the response declared a JSON content type; Text otherwise.
type Response struct {
	StatusCode int
	Header     http.Header
	JSON       json.RawMessage
	Text       string
}

// IsJSON reports whether the response body was parsed as JSON.
func (r *Response) IsJSON() bool {
	return r != nil && r.JSON != nil
}

// Client issues authenticated requests to the platform.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Tracker    *quota.Tracker

	// Throttle optionally smooths outbound request rate on top of the
	// observed quota window. Nil disables it.
	Throttle *rate.Limiter
}

// Call performs one authenticated request. It fails before any network
// I/O when the tracker reports the quota window exhausted, and feeds
// response headers back to the tracker regardless of status code.
func (c *Client) Call(ctx context.Context, method, endpoint string, body interface{}) (*Response, error) {
	if c == nil {
		return nil, apperrors.NewInternal("gateway client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if c.Tracker.Blocked() {
		return nil, apperrors.NewRateLimited(c.Tracker.TimeUntilReset())
	}

	if c.Throttle != nil {
		if err := c.Throttle.Wait(ctx); err != nil {
			return nil, apperrors.NewInternal(fmt.Sprintf("throttle wait aborted: %v", err))
		}
	}

	var payload io.Reader
	if body != nil && method != http.MethodGet {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.NewInternal(fmt.Sprintf("encode request body: %v", err))
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.requestURL(endpoint), payload)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Sprintf("campaign platform unreachable: %v", err))
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	c.Tracker.Observe(resp.Header)
	metrics.RecordRemoteCall(method, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Sprintf("read response body: %v", err))
	}

	result := &Response{StatusCode: resp.StatusCode, Header: resp.Header}
	if isJSONContentType(resp.Header.Get("Content-Type")) {
		result.JSON = json.RawMessage(raw)
	} else {
		result.Text = string(raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, remoteError(result)
	}
	return result, nil
}

func (c *Client) requestURL(endpoint string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return base + endpoint
}

// WithQuery appends URL query parameters to an endpoint path.
func WithQuery(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	separator := "?"
	if strings.Contains(endpoint, "?") {
		separator = "&"
	}
	return endpoint + separator + params.Encode()
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// remoteError maps a non-2xx response to a REMOTE_API_ERROR envelope,
// drawing the message from the body's error or message field when the
// body is JSON, and the raw text otherwise.
func remoteError(resp *Response) error {
	if !resp.IsJSON() {
		return apperrors.NewRemoteAPI(resp.StatusCode, strings.TrimSpace(resp.Text), "", nil)
	}

	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Code    string          `json:"code"`
		Details interface{}     `json:"details"`
		Errors  interface{}     `json:"errors"`
	}
	if err := json.Unmarshal(resp.JSON, &body); err != nil {
		return apperrors.NewRemoteAPI(resp.StatusCode, "", "", nil)
	}

	message := body.Message
	if len(body.Error) > 0 {
		var text string
		if err := json.Unmarshal(body.Error, &text); err == nil && text != "" {
			message = text
		} else {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
				message = nested.Message
			}
		}
	}

	details := body.Details
	if details == nil {
		details = body.Errors
	}
	return apperrors.NewRemoteAPI(resp.StatusCode, message, body.Code, details)
}
