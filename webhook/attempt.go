package webhook

import (
	"time"

	"github.com/marcelsud/session-bridge/event"
)

/* Status is the outcome of a single delivery attempt
 * Attempts are never retried, so there are only two final states
 */
type Status int

const (
	Delivered Status = iota + 1
	Failed
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Attempt records one POST of one event to one subscription
type Attempt struct {
	SubscriptionID int
	EventID        string
	EventType      event.Type
	URL            string
	Status         Status
	StatusCode     int
	Err            error
	Duration       time.Duration
}

// Delivered reports whether the target answered with a 2xx
func (a Attempt) Delivered() bool {
	return a.Status == Delivered
}
