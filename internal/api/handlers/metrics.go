package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpmessner/uzu-parser/internal/config"
	"github.com/rpmessner/uzu-parser/internal/metrics"
	"github.com/rpmessner/uzu-parser/internal/notation/euclid"
)

type MetricsHandler struct {
	startTime time.Time
	version   string
	cfg       *config.Config
	stats     *metrics.ParseStats
}

func NewMetricsHandler(cfg *config.Config, stats *metrics.ParseStats, version string) *MetricsHandler {
	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
		cfg:       cfg,
		stats:     stats,
	}
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
)

// formatUptime formats the uptime duration with seconds rounded to 2 decimal places
func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % secondsPerMinute
	seconds := d.Seconds() - float64(hours*secondsPerHour) - float64(minutes*secondsPerMinute)

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%.2fs", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%.2fs", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", seconds)
}

type MetricsResponse struct {
	Status    string                `json:"status"`
	Uptime    string                `json:"uptime"`
	Version   string                `json:"version"`
	GoVersion string                `json:"go_version"`
	Parsing   metrics.ParseSnapshot `json:"parsing"`
	Limits    LimitsResponse        `json:"limits"`
}

// LimitsResponse lists the bounds a pattern is checked against
type LimitsResponse struct {
	MaxDepth        int `json:"max_depth"`
	MaxEvents       int `json:"max_events"`
	MaxPatternBytes int `json:"max_pattern_bytes"`
	MaxEuclidSteps  int `json:"max_euclid_steps"`
}

// GetMetrics reports parse volume since startup and the active limits
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, MetricsResponse{
		Status:    "healthy",
		Uptime:    formatUptime(time.Since(h.startTime)),
		Version:   h.version,
		GoVersion: runtime.Version(),
		Parsing:   h.stats.Snapshot(),
		Limits: LimitsResponse{
			MaxDepth:        h.cfg.MaxDepth,
			MaxEvents:       h.cfg.MaxEvents,
			MaxPatternBytes: maxPatternBytes,
			MaxEuclidSteps:  euclid.MaxSteps,
		},
	})
}
