package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordParse records one notation parse. success is false when the pattern was rejected.
func (m *SentryMetrics) RecordParse(ctx context.Context, mode string, patternLength, eventCount int, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	// Tag the enclosing transaction so slow requests can be filtered by mode
	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("notation.mode", mode)
		transaction.SetData("notation.event_count", eventCount)
	}

	span := sentry.StartSpan(ctx, "notation.parse")
	defer span.Finish()

	span.SetTag("mode", mode)
	span.SetTag("success", fmt.Sprintf("%t", success))

	span.SetData("pattern_length", patternLength)
	span.SetData("event_count", eventCount)
	span.SetData("duration_ms", duration.Milliseconds())

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInvalidArgument
	}

	span.Description = fmt.Sprintf("Parse: %s", mode)
}
