package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Update describes one lifecycle transition
type Update struct {
	Status      Status
	QRPayload   string
	SessionData string
}

// UseCase defines the status reporting operations
type UseCase interface {
	Transition(ctx context.Context, u Update) (Session, error)
	Current() Session
}

/* Service is the only place a Session is mutated
 * Every transition is written to all writers in order; a failing writer does not stop the others
 */
type Service struct {
	writers []Writer

	mu      sync.RWMutex
	current Session
}

// NewService creates a reporter for session id
func NewService(id int, writers ...Writer) *Service {
	now := time.Now().UTC()
	return &Service{
		writers: writers,
		current: Session{ID: id, CreatedAt: now, UpdatedAt: now},
	}
}

// Transition applies u and pushes the result to the writers.
// The local state is updated even when writers fail; their errors are returned wrapped in ErrRegistryUnreachable.
func (s *Service) Transition(ctx context.Context, u Update) (Session, error) {
	if err := u.Status.Validate(); err != nil {
		return s.Current(), fmt.Errorf("validating status: %w", err)
	}

	s.mu.Lock()
	s.current.Status = u.Status
	s.current.SessionData = u.SessionData
	s.current.QRPayload = ""
	if u.Status == QRCodeReady {
		s.current.QRPayload = u.QRPayload
	}
	s.current.UpdatedAt = time.Now().UTC()
	snapshot := s.current
	s.mu.Unlock()

	var errs []error
	for _, w := range s.writers {
		if err := w.UpdateStatus(ctx, snapshot); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return snapshot, fmt.Errorf("%w: %w", ErrRegistryUnreachable, errors.Join(errs...))
	}
	return snapshot, nil
}

// Current returns a copy of the latest state
func (s *Service) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
