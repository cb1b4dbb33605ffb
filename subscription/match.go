package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelsud/session-bridge/event"
)

// ErrRegistryUnreachable wraps failures to fetch the subscription list
var ErrRegistryUnreachable = errors.New("subscription registry unreachable")

// Source returns the current full subscription list
type Source interface {
	List(ctx context.Context) ([]Subscription, error)
}

// Match keeps the subscriptions that are active, belong to sessionID and subscribe to t.
// The input order is preserved but is not part of the contract.
func Match(subs []Subscription, sessionID int, t event.Type) []Subscription {
	var matched []Subscription
	for _, s := range subs {
		if s.Active && s.SessionID == sessionID && s.Subscribes(t) {
			matched = append(matched, s)
		}
	}
	return matched
}

/* Matcher resolves targets for an event
 * The source is queried on every call so registry edits apply to the next event
 */
type Matcher struct {
	source Source
}

// NewMatcher creates a matcher over source
func NewMatcher(source Source) *Matcher {
	return &Matcher{source: source}
}

// Resolve returns the subscriptions that must receive evt
func (m *Matcher) Resolve(ctx context.Context, evt event.Event) ([]Subscription, error) {
	subs, err := m.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryUnreachable, err)
	}
	return Match(subs, evt.SessionID, evt.Type), nil
}
