// Package metrics emits application counters through the gofulmen
// telemetry system when one is initialized. All recording is
// best-effort; a nil telemetry system turns every call into a no-op.
package metrics

import (
	"strconv"

	"github.com/sendlens/sendlens/internal/observability"
)

// Metric names following Prometheus conventions.
const (
	ToolInvocationsTotal = "tool_invocations_total"
	RemoteCallsTotal     = "remote_calls_total"
	ErrorsTotal          = "errors_total"
	PanicsTotal          = "panics_total"
)

// RecordToolInvocation records one MCP tool call with its outcome.
func RecordToolInvocation(tool string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			ToolInvocationsTotal,
			1,
			map[string]string{
				"tool":   tool,
				"status": status,
			},
		)
	}
}

// RecordRemoteCall records one outbound request to the platform.
func RecordRemoteCall(method string, httpStatus int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			RemoteCallsTotal,
			1,
			map[string]string{
				"method":      method,
				"http_status": strconv.Itoa(httpStatus),
			},
		)
	}
}

// RecordError records an error with its taxonomy code and HTTP status.
func RecordError(errorCode string, httpStatus int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			ErrorsTotal,
			1,
			map[string]string{
				"error_code":  errorCode,
				"http_status": strconv.Itoa(httpStatus),
			},
		)
	}
}

// RecordPanic records a panic recovery.
func RecordPanic() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			PanicsTotal,
			1,
			nil,
		)
	}
}
