package subscription

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/marcelsud/session-bridge/event"
)

// DeliveryOptions are per-subscription switches that are not event types
type DeliveryOptions struct {
	// IncludeRequestHeaders adds the command API caller's headers to command-originated events
	IncludeRequestHeaders bool `json:"include_request_headers" yaml:"include_request_headers"`
}

/* Subscription is a registered webhook target
 * Uses value semantics as it represents data, not behavior
 */
type Subscription struct {
	ID         int
	Name       string
	SessionID  int
	URL        string
	EventTypes []event.Type
	Options    DeliveryOptions
	Headers    map[string]string
	Active     bool
}

// Subscribes reports whether t is one of the subscribed event types
func (s Subscription) Subscribes(t event.Type) bool {
	return slices.Contains(s.EventTypes, t)
}

// Validate checks the fields the dispatcher depends on
func (s Subscription) Validate() error {
	if s.SessionID <= 0 {
		return fmt.Errorf("subscription %d: session_id must be positive", s.ID)
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("subscription %d: invalid url: %w", s.ID, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("subscription %d: url must be absolute http(s): %s", s.ID, s.URL)
	}
	for _, t := range s.EventTypes {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("subscription %d: %w", s.ID, err)
		}
	}
	return nil
}

// optionTokens are tokens the registry stores in the events list that are really delivery options
var optionTokens = map[string]func(*DeliveryOptions){
	"include_headers":         func(o *DeliveryOptions) { o.IncludeRequestHeaders = true },
	"include_request_headers": func(o *DeliveryOptions) { o.IncludeRequestHeaders = true },
}

/* ParseTokens splits a registry events list into event types and delivery options
 * A nil list means the subscription was created without choosing events and gets the defaults
 */
func ParseTokens(tokens []string) ([]event.Type, DeliveryOptions) {
	var opts DeliveryOptions
	if tokens == nil {
		return slices.Clone(event.DefaultSubscribed), opts
	}

	types := make([]event.Type, 0, len(tokens))
	for _, tok := range tokens {
		if apply, ok := optionTokens[tok]; ok {
			apply(&opts)
			continue
		}
		t := event.Type(tok)
		if !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	return types, opts
}
