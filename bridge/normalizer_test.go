package bridge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelsud/session-bridge/driver"
	"github.com/marcelsud/session-bridge/event"
)

var ts = time.Unix(1700000000, 0)

func TestNormalizeMessage(t *testing.T) {
	incoming := driver.Message{ID: "m1", Body: "hi", From: "1@c.us", To: "2@c.us", Timestamp: ts, HasMedia: true}

	t.Run("incoming message", func(t *testing.T) {
		evt, ok := Normalize(5, incoming)
		require.True(t, ok)
		assert.Equal(t, event.Message, evt.Type)
		assert.Equal(t, 5, evt.SessionID)
		assert.Equal(t, "m1", evt.MessageID)
		assert.True(t, evt.HasMedia)

		p := evt.Payload.(event.MessagePayload)
		assert.Equal(t, "hi", p.Body)
		assert.Equal(t, int64(1700000000), p.Timestamp)
	})

	t.Run("created copy of someone else's message is dropped", func(t *testing.T) {
		created := incoming
		created.Created = true
		_, ok := Normalize(5, created)
		assert.False(t, ok)
	})

	t.Run("own created message", func(t *testing.T) {
		own := incoming
		own.Created, own.FromMe = true, true
		evt, ok := Normalize(5, own)
		require.True(t, ok)
		assert.Equal(t, event.MessageCreate, evt.Type)
		assert.True(t, evt.Payload.(event.MessagePayload).FromMe)
	})
}

func TestNormalizeMessageCreateOnlyFromMe(t *testing.T) {
	for _, fromMe := range []bool{true, false} {
		evt, ok := Normalize(1, driver.Message{ID: "x", FromMe: fromMe, Created: true, Timestamp: ts})
		if fromMe {
			require.True(t, ok)
			assert.Equal(t, event.MessageCreate, evt.Type)
		} else {
			assert.False(t, ok)
		}
	}
}

func TestNormalizeAck(t *testing.T) {
	for ack, name := range map[int]string{-1: "UNKNOWN", 0: "ERROR", 1: "PENDING", 2: "RECEIVED", 3: "READ", 4: "PLAYED", 9: "UNKNOWN"} {
		evt, ok := Normalize(1, driver.Ack{MessageID: "m", Ack: ack, Body: "b", Timestamp: ts})
		require.True(t, ok)
		p := evt.Payload.(event.AckPayload)
		assert.Equal(t, name, p.AckName)
		assert.Equal(t, ack, p.Ack)
	}
}

func TestNormalizeFilters(t *testing.T) {
	cases := []struct {
		name string
		raw  driver.Event
		want event.Type
		ok   bool
	}{
		{"typing started", driver.Typing{ChatID: "1@c.us", IsTyping: true, Timestamp: ts}, event.Typing, true},
		{"typing stopped", driver.Typing{ChatID: "1@c.us", Timestamp: ts}, "", false},
		{"chat read", driver.ChatRead{ChatID: "1@c.us", HasLastMessage: true, Timestamp: ts}, event.Seen, true},
		{"chat still unread", driver.ChatRead{ChatID: "1@c.us", UnreadCount: 2, HasLastMessage: true}, "", false},
		{"empty chat", driver.ChatRead{ChatID: "1@c.us"}, "", false},
		{"group join", driver.GroupJoin{GroupID: "g@g.us", UserIDs: []string{"1@c.us"}, AuthorID: "2@c.us", Timestamp: ts}, event.GroupJoin, true},
		{"group leave", driver.GroupLeave{GroupID: "g@g.us", Timestamp: ts}, event.GroupLeave, true},
		{"revoke", driver.Revoke{ID: "m", RevokedBody: "oops", Timestamp: ts}, event.Revoke, true},
		{"qr", driver.QR{Code: "ABC"}, event.QR, true},
		{"ready", driver.Ready{}, "", false},
		{"authenticated", driver.Authenticated{}, "", false},
		{"fault", driver.Fault{Err: errors.New("x")}, "", false},
		{"disconnected", driver.Disconnected{Reason: "x"}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			evt, ok := Normalize(1, tc.raw)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, evt.Type)
				assert.NotEmpty(t, evt.ID)
			}
		})
	}
}

func TestNormalizePayloads(t *testing.T) {
	evt, _ := Normalize(1, driver.GroupLeave{GroupID: "g@g.us", Timestamp: ts})
	assert.Equal(t, []string{}, evt.Payload.(event.GroupPayload).AffectedUserIDs)

	evt, _ = Normalize(1, driver.Revoke{ID: "m", From: "1@c.us", RevokedBody: "oops", Timestamp: ts})
	assert.Equal(t, "oops", evt.Payload.(event.RevokePayload).RevokedMessageBody)

	evt, _ = Normalize(1, driver.QR{Code: "ABC"})
	assert.Equal(t, "ABC", evt.Payload.(event.QRPayload).QR)
}
