package webhook

import (
	"github.com/stretchr/testify/mock"

	"github.com/marcelsud/session-bridge/event"
)

// MatchEvent creates a custom matcher for event arguments in mocks
func MatchEvent(matcher func(event.Event) bool) interface{} {
	return mock.MatchedBy(matcher)
}

// MatchEventType matches events of type t
func MatchEventType(t event.Type) interface{} {
	return mock.MatchedBy(func(evt event.Event) bool { return evt.Type == t })
}
