package handlers

import (
	"context"
	"time"

	"github.com/rpmessner/uzu-parser/internal/metrics"
)

// parseRecorder sends one parse outcome to every metrics sink
type parseRecorder struct {
	cloudwatch *metrics.Client
	sentry     *metrics.SentryMetrics
	stats      *metrics.ParseStats
}

func newParseRecorder(cloudwatch *metrics.Client, stats *metrics.ParseStats) parseRecorder {
	return parseRecorder{
		cloudwatch: cloudwatch,
		sentry:     metrics.NewSentryMetrics(),
		stats:      stats,
	}
}

func (r parseRecorder) record(ctx context.Context, mode string, patternLength, eventCount int, duration time.Duration, success bool) {
	r.sentry.RecordParse(ctx, mode, patternLength, eventCount, duration, success)
	r.cloudwatch.RecordParse(mode, eventCount, duration, success)
	r.stats.Record(mode, eventCount, duration, success)
}
