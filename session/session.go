package session

import (
	"context"
	"errors"
	"time"
)

// ErrRegistryUnreachable wraps failures to push status to a writer
var ErrRegistryUnreachable = errors.New("session registry unreachable")

// Session is one tenant's connection as seen by the registry
type Session struct {
	ID          int       `json:"id"`
	Status      Status    `json:"status"`
	QRPayload   string    `json:"qr_code,omitempty"`
	SessionData string    `json:"session_data,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Port returns the command API port for the session
func (s Session) Port(base int) int {
	return base + s.ID
}

// Writer pushes a session's current state somewhere visible to other processes
type Writer interface {
	UpdateStatus(ctx context.Context, s Session) error
}
