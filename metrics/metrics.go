package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the bridge sessions.
type Metrics struct {
	// StatusCounts maps status name to the number of sessions in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// Throughput represents webhook deliveries per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// Sessions lists the sessions seen by the collector
	Sessions []SessionInfo `json:"sessions"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// ThroughputMetrics represents webhooks delivered over different time windows.
type ThroughputMetrics struct {
	LastMinute         int64 `json:"last_minute"`
	LastFiveMinutes    int64 `json:"last_five_minutes"`
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// SessionInfo represents one running bridge process.
type SessionInfo struct {
	SessionID     int       `json:"session_id"`
	Status        string    `json:"status"`
	Host          string    `json:"host"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// Collector defines the interface for collecting session metrics.
type Collector interface {
	// Collect gathers current metrics
	Collect(ctx context.Context) (Metrics, error)

	// GetStatusCounts returns the count of sessions by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)

	// GetSessions returns the sessions currently known
	GetSessions(ctx context.Context) ([]SessionInfo, error)
}

func countStatuses(sessions []SessionInfo) map[string]int64 {
	counts := make(map[string]int64)
	for _, s := range sessions {
		counts[s.Status]++
	}
	return counts
}
