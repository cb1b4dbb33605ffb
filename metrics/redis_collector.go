package metrics

import (
	"context"
	"fmt"
	"time"

	sessionredis "github.com/marcelsud/session-bridge/session/redis"
)

// RecordLister lists the heartbeat records of every live session
type RecordLister interface {
	List(ctx context.Context) ([]sessionredis.Record, error)
}

// RedisCollector implements the Collector interface over the session status mirror
type RedisCollector struct {
	mirror RecordLister
}

// NewRedisCollector creates a new Redis metrics collector
func NewRedisCollector(mirror RecordLister) *RedisCollector {
	return &RedisCollector{mirror: mirror}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	sessions, err := c.GetSessions(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting sessions: %w", err)
	}

	return Metrics{
		StatusCounts: countStatuses(sessions),
		Sessions:     sessions,
		Timestamp:    time.Now(),
	}, nil
}

// GetStatusCounts returns the count of live sessions by status
func (c *RedisCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	sessions, err := c.GetSessions(ctx)
	if err != nil {
		return nil, err
	}
	return countStatuses(sessions), nil
}

// GetSessions returns the sessions whose heartbeat has not expired
func (c *RedisCollector) GetSessions(ctx context.Context) ([]SessionInfo, error) {
	records, err := c.mirror.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing session records: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(records))
	for _, r := range records {
		sessions = append(sessions, SessionInfo{
			SessionID:     r.SessionID,
			Status:        r.Status.String(),
			Host:          r.Host,
			LastHeartbeat: r.LastHeartbeat,
		})
	}
	return sessions, nil
}
