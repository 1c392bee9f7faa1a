// Package errors defines the failure taxonomy for the campaign
// gateway. Every failure is a gofulmen ErrorEnvelope whose message is
// precise enough for the caller to self-correct; nothing in the core
// retries automatically.
package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sendlens/sendlens/internal/core"
	"github.com/sendlens/sendlens/internal/metrics"
	"github.com/sendlens/sendlens/internal/observability"
	"github.com/sendlens/sendlens/internal/server/middleware"
)

// Taxonomy codes. Retry policy is the caller's: RATE_LIMITED is
// retryable after the stated delay, nothing else is retried.
const (
	CodeRateLimited         = "RATE_LIMITED"
	CodeRemoteAPI           = "REMOTE_API_ERROR"
	CodePaginationShape     = "PAGINATION_SHAPE"
	CodeNoAccounts          = "NO_ACCOUNTS"
	CodeNoEligibleAccounts  = "NO_ELIGIBLE_ACCOUNTS"
	CodeIneligibleEmails    = "INELIGIBLE_EMAILS"
	CodeAutoDiscoveryFailed = "AUTO_DISCOVERY_FAILED"
	CodeValidation          = "VALIDATION_FAILED"
	CodeMissingField        = "MISSING_FIELD"
	CodeInternal            = "INTERNAL_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeConfigInvalid       = "CONFIG_INVALID"
)

// NewRateLimited reports a pre-flight block. The message carries the
// minutes until the observed window resets so callers know when to
// retry.
func NewRateLimited(untilReset time.Duration) *errors.ErrorEnvelope {
	minutes := int(math.Ceil(untilReset.Minutes()))
	envelope := errors.NewErrorEnvelope(CodeRateLimited,
		fmt.Sprintf("Rate limit exceeded. Try again in %d minutes.", minutes))
	envelope, _ = envelope.WithContext(map[string]interface{}{
		"retry_after_minutes": minutes,
	})
	return envelope
}

// NewRemoteAPI wraps a non-success response from the platform.
func NewRemoteAPI(status int, message, code string, details interface{}) *errors.ErrorEnvelope {
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(status)
	}
	envelope := errors.NewErrorEnvelope(CodeRemoteAPI,
		fmt.Sprintf("Campaign platform error (HTTP %d): %s", status, message))
	ctx := map[string]interface{}{"http_status": status}
	if code != "" {
		ctx["remote_code"] = code
	}
	if details != nil {
		ctx["details"] = details
	}
	envelope, _ = envelope.WithContext(ctx)
	return envelope
}

// NewPaginationShape reports an unrecognized listing envelope. This is
// an upstream contract violation, fatal to the current call.
func NewPaginationShape(shape string) *errors.ErrorEnvelope {
	envelope := errors.NewErrorEnvelope(CodePaginationShape,
		fmt.Sprintf("Unrecognized pagination envelope from the platform: %s", shape))
	return envelope
}

// NewNoAccounts reports an empty account inventory.
func NewNoAccounts() *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeNoAccounts,
		"No sending accounts exist in the workspace. Connect at least one account before creating campaigns.")
}

// NewNoEligibleAccounts reports a non-empty inventory with no account
// passing the eligibility predicates. The per-account dump tells the
// caller exactly which predicate each identity fails.
func NewNoEligibleAccounts(diagnostics []core.AccountDiagnostic) *errors.ErrorEnvelope {
	envelope := errors.NewErrorEnvelope(CodeNoEligibleAccounts,
		fmt.Sprintf("None of the %d accounts are eligible to send. An eligible account has status 1, setup complete, and warmup active.\n%s",
			len(diagnostics), diagnosticsText(diagnostics)))
	envelope, _ = envelope.WithContext(map[string]interface{}{
		"accounts": diagnostics,
	})
	return envelope
}

// NewIneligibleEmails reports requested sender addresses missing from
// the live eligible set, together with the full roster of alternatives.
func NewIneligibleEmails(ineligible []string, eligible []core.Account) *errors.ErrorEnvelope {
	envelope := errors.NewErrorEnvelope(CodeIneligibleEmails,
		fmt.Sprintf("These addresses are not eligible to send: %s.\nEligible accounts:\n%s",
			strings.Join(ineligible, ", "), rosterText(eligible)))
	envelope, _ = envelope.WithContext(map[string]interface{}{
		"ineligible": ineligible,
		"eligible":   rosterEmails(eligible),
	})
	return envelope
}

// NewAutoDiscoveryFailed reports that automatic sender selection found
// no usable account.
func NewAutoDiscoveryFailed(total int) *errors.ErrorEnvelope {
	envelope := errors.NewErrorEnvelope(CodeAutoDiscoveryFailed,
		fmt.Sprintf("Automatic sender selection failed: none of the %d accounts qualify. Supply email_list explicitly or fix account warmup/setup state.", total))
	envelope, _ = envelope.WithContext(map[string]interface{}{
		"accounts_checked": total,
	})
	return envelope
}

// NewValidation reports a caller-input format defect, naming the
// offending field and value.
func NewValidation(field string, value interface{}, reason string) *errors.ErrorEnvelope {
	envelope := errors.NewErrorEnvelope(CodeValidation,
		fmt.Sprintf("Invalid %s (%v): %s", field, value, reason))
	envelope, _ = envelope.WithContext(map[string]interface{}{
		"field": field,
		"value": fmt.Sprintf("%v", value),
	})
	return envelope
}

// NewMissingField reports required fields still absent after message
// resolution and sender auto-discovery.
func NewMissingField(fields ...string) *errors.ErrorEnvelope {
	envelope := errors.NewErrorEnvelope(CodeMissingField,
		fmt.Sprintf("Missing required field(s): %s", strings.Join(fields, ", ")))
	envelope, _ = envelope.WithContext(map[string]interface{}{
		"fields": fields,
	})
	return envelope
}

// NewInternal wraps unexpected failures.
func NewInternal(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeInternal, message)
}

// NewNotFound reports an unknown HTTP resource.
func NewNotFound(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeNotFound, message)
}

// NewMethodNotAllowed reports an unsupported HTTP method.
func NewMethodNotAllowed(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeMethodNotAllowed, message)
}

// NewConfigInvalid reports unusable configuration.
func NewConfigInvalid(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeConfigInvalid, message)
}

// CodeOf extracts the taxonomy code from an error, or CodeInternal for
// foreign errors.
func CodeOf(err error) string {
	if envelope, ok := err.(*errors.ErrorEnvelope); ok && envelope != nil {
		return envelope.Code
	}
	return CodeInternal
}

// EnsureEnvelope normalizes any error into an ErrorEnvelope.
func EnsureEnvelope(err error) *errors.ErrorEnvelope {
	if err == nil {
		return errors.NewErrorEnvelope(CodeInternal, "unexpected nil error")
	}
	if envelope, ok := err.(*errors.ErrorEnvelope); ok && envelope != nil {
		return envelope
	}
	envelope := errors.NewErrorEnvelope(CodeInternal, err.Error())
	return envelope
}

// HTTPStatusFromCode resolves the HTTP status corresponding to a
// taxonomy code.
func HTTPStatusFromCode(code string) int {
	switch code {
	case CodeValidation, CodeMissingField:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeNoAccounts, CodeNoEligibleAccounts, CodeIneligibleEmails, CodeAutoDiscoveryFailed:
		return http.StatusUnprocessableEntity
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeRemoteAPI, CodePaginationShape:
		return http.StatusBadGateway
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorDetail captures the error body returned to HTTP callers.
type HTTPErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// HTTPErrorResponse wraps HTTPErrorDetail in the standard envelope
// structure.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// RespondWithError normalizes the supplied error and writes a JSON
// response.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	if w == nil {
		return
	}

	envelope := EnsureEnvelope(err)
	var ctx context.Context
	if r != nil {
		ctx = r.Context()
	}
	envelope = ensureCorrelationID(envelope, ctx)

	statusCode := HTTPStatusFromCode(envelope.Code)

	response := HTTPErrorResponse{
		Error: HTTPErrorDetail{
			Code:      envelope.Code,
			Message:   envelope.Message,
			Details:   responseDetails(envelope),
			RequestID: envelope.CorrelationID,
		},
	}

	logHTTPError(envelope, statusCode)
	metrics.RecordError(envelope.Code, statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func ensureCorrelationID(envelope *errors.ErrorEnvelope, ctx context.Context) *errors.ErrorEnvelope {
	if envelope == nil {
		return nil
	}
	if envelope.CorrelationID != "" {
		return envelope
	}

	var correlationID string
	if ctx != nil {
		correlationID = middleware.GetRequestID(ctx)
	}
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	return envelope.WithCorrelationID(correlationID)
}

func responseDetails(envelope *errors.ErrorEnvelope) map[string]interface{} {
	if envelope == nil {
		return nil
	}

	details := make(map[string]interface{})
	for key, value := range envelope.Details {
		details[key] = value
	}
	for key, value := range envelope.Context {
		if _, exists := details[key]; !exists {
			details[key] = value
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func logHTTPError(envelope *errors.ErrorEnvelope, statusCode int) {
	if observability.ServerLogger == nil || envelope == nil {
		return
	}

	fields := []zap.Field{
		zap.String("error_code", envelope.Code),
		zap.Int("http_status", statusCode),
	}
	if envelope.CorrelationID != "" {
		fields = append(fields, zap.String("request_id", envelope.CorrelationID))
	}

	if statusCode >= http.StatusInternalServerError {
		observability.ServerLogger.Error(envelope.Message, fields...)
		return
	}
	observability.ServerLogger.Warn(envelope.Message, fields...)
}

func diagnosticsText(diagnostics []core.AccountDiagnostic) string {
	lines := make([]string, 0, len(diagnostics))
	for _, d := range diagnostics {
		score := "n/a"
		if d.WarmupScore != nil {
			score = fmt.Sprintf("%.0f", *d.WarmupScore)
		}
		lines = append(lines, fmt.Sprintf("  - %s: status=%d setup_pending=%t warmup_status=%d warmup_score=%s",
			d.Email, d.Status, d.SetupPending, d.WarmupStatus, score))
	}
	return strings.Join(lines, "\n")
}

func rosterText(eligible []core.Account) string {
	lines := make([]string, 0, len(eligible))
	for _, account := range eligible {
		lines = append(lines, fmt.Sprintf("  - %s (warmup score %.0f)", account.Email, account.Score()))
	}
	return strings.Join(lines, "\n")
}

func rosterEmails(eligible []core.Account) []string {
	emails := make([]string, 0, len(eligible))
	for _, account := range eligible {
		emails = append(emails, account.Email)
	}
	return emails
}
