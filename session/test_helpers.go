package session

import "github.com/stretchr/testify/mock"

// MatchSession creates a custom matcher for session arguments in mocks
func MatchSession(matcher func(Session) bool) interface{} {
	return mock.MatchedBy(matcher)
}
