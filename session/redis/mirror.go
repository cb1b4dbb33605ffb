package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/marcelsud/session-bridge/session"
	"github.com/redis/go-redis/v9"
)

/* Mirror keeps a short-lived copy of each bridge process' session state in Redis
 * Keys expire unless refreshed, so a crashed process disappears on its own
 */

const keyPrefix = "session:status" // session:status:{session_id}

// Record is the value stored per session
type Record struct {
	SessionID     int            `json:"session_id"`
	Status        session.Status `json:"status"`
	HasQR         bool           `json:"has_qr"`
	Host          string         `json:"host"`
	PID           int            `json:"pid"`
	LastHeartbeat time.Time      `json:"last_heartbeat"`
}

type Mirror struct {
	client *redis.Client
	ttl    time.Duration
	host   string
}

// NewMirror connects to Redis and verifies the connection
func NewMirror(addr, password string, db int, ttl time.Duration) (*Mirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	host, _ := os.Hostname()
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Mirror{client: client, ttl: ttl, host: host}, nil
}

// UpdateStatus stores the session state with the mirror TTL
func (m *Mirror) UpdateStatus(ctx context.Context, s session.Session) error {
	record := Record{
		SessionID:     s.ID,
		Status:        s.Status,
		HasQR:         s.QRPayload != "",
		Host:          m.host,
		PID:           os.Getpid(),
		LastHeartbeat: time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling session record: %w", err)
	}

	if err := m.client.Set(ctx, key(s.ID), data, m.ttl).Err(); err != nil {
		return fmt.Errorf("setting session record: %w", err)
	}
	return nil
}

// Heartbeat refreshes the record every ttl/2 until ctx is done
func (m *Mirror) Heartbeat(ctx context.Context, current func() session.Session) error {
	interval := m.ttl / 2
	if interval <= 0 {
		interval = m.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.UpdateStatus(ctx, current()); err != nil && ctx.Err() == nil {
				return fmt.Errorf("refreshing heartbeat: %w", err)
			}
		}
	}
}

// Get returns the record of one session
func (m *Mirror) Get(ctx context.Context, sessionID int) (Record, error) {
	data, err := m.client.Get(ctx, key(sessionID)).Result()
	if err == redis.Nil {
		return Record{}, fmt.Errorf("session %d not found", sessionID)
	}
	if err != nil {
		return Record{}, fmt.Errorf("getting session record: %w", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return Record{}, fmt.Errorf("unmarshaling session record: %w", err)
	}
	return record, nil
}

// List returns the records of every live session
func (m *Mirror) List(ctx context.Context) ([]Record, error) {
	var records []Record

	var cursor uint64
	for {
		keys, nextCursor, err := m.client.Scan(ctx, cursor, keyPrefix+":*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning session keys: %w", err)
		}

		for _, k := range keys {
			data, err := m.client.Get(ctx, k).Result()
			if err == redis.Nil {
				// Key expired between scan and get
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("getting session record: %w", err)
			}

			var record Record
			if err := json.Unmarshal([]byte(data), &record); err != nil {
				continue
			}
			records = append(records, record)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return records, nil
}

// Remove deletes the record, used on graceful shutdown
func (m *Mirror) Remove(ctx context.Context, sessionID int) error {
	if err := m.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("deleting session record: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (m *Mirror) Close() error {
	return m.client.Close()
}

func key(sessionID int) string {
	return fmt.Sprintf("%s:%d", keyPrefix, sessionID)
}
