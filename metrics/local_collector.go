package metrics

import (
	"context"
	"os"
	"time"

	"github.com/marcelsud/session-bridge/session"
)

// LocalCollector reports the session served by this process
type LocalCollector struct {
	current    func() session.Session
	throughput *Throughput
	host       string
}

func NewLocalCollector(current func() session.Session, throughput *Throughput) *LocalCollector {
	host, _ := os.Hostname()
	return &LocalCollector{current: current, throughput: throughput, host: host}
}

func (c *LocalCollector) Collect(ctx context.Context) (Metrics, error) {
	sessions, _ := c.GetSessions(ctx)
	m := Metrics{
		StatusCounts: countStatuses(sessions),
		Sessions:     sessions,
		Timestamp:    time.Now(),
	}
	if c.throughput != nil {
		m.Throughput = c.throughput.Snapshot()
	}
	return m, nil
}

func (c *LocalCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	sessions, _ := c.GetSessions(ctx)
	return countStatuses(sessions), nil
}

func (c *LocalCollector) GetSessions(_ context.Context) ([]SessionInfo, error) {
	s := c.current()
	return []SessionInfo{{
		SessionID:     s.ID,
		Status:        s.Status.String(),
		Host:          c.host,
		LastHeartbeat: s.UpdatedAt,
	}}, nil
}
