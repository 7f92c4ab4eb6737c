package metrics

import (
	"sync"
	"time"
)

// ParseStats keeps in-process parse counters for the metrics endpoint.
// It is safe for concurrent use.
type ParseStats struct {
	mu       sync.Mutex
	parses   int64
	failures int64
	limited  int64
	events   int64
	maxEvent int
	duration time.Duration
	byMode   map[string]int64
}

// ParseSnapshot is a point-in-time copy of ParseStats
type ParseSnapshot struct {
	Parses           int64            `json:"parses"`
	Failures         int64            `json:"failures"`
	LimitExceeded    int64            `json:"limit_exceeded"`
	Events           int64            `json:"events"`
	LargestEventList int              `json:"largest_event_list"`
	AvgDurationMS    float64          `json:"avg_duration_ms"`
	ByMode           map[string]int64 `json:"by_mode"`
}

func NewParseStats() *ParseStats {
	return &ParseStats{byMode: make(map[string]int64)}
}

// Record counts one parse. Failed parses count toward the mode total too.
func (s *ParseStats) Record(mode string, eventCount int, duration time.Duration, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.parses++
	s.byMode[mode]++
	s.duration += duration
	if !success {
		s.failures++
		return
	}
	s.events += int64(eventCount)
	if eventCount > s.maxEvent {
		s.maxEvent = eventCount
	}
}

// RecordLimit counts a pattern rejected for expanding past the event budget
func (s *ParseStats) RecordLimit() {
	s.mu.Lock()
	s.limited++
	s.mu.Unlock()
}

func (s *ParseStats) Snapshot() ParseSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := ParseSnapshot{
		Parses:           s.parses,
		Failures:         s.failures,
		LimitExceeded:    s.limited,
		Events:           s.events,
		LargestEventList: s.maxEvent,
		ByMode:           make(map[string]int64, len(s.byMode)),
	}
	if s.parses > 0 {
		snap.AvgDurationMS = float64(s.duration.Microseconds()) / float64(s.parses) / 1000
	}
	for mode, n := range s.byMode {
		snap.ByMode[mode] = n
	}
	return snap
}
