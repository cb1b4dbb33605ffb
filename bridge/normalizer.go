package bridge

import (
	"github.com/marcelsud/session-bridge/driver"
	"github.com/marcelsud/session-bridge/event"
)

// Normalize maps a raw driver event to the canonical event routed to subscribers.
// ok is false for events that are never published (lifecycle signals other than QR, and filtered ones).
func Normalize(sessionID int, raw driver.Event) (evt event.Event, ok bool) {
	switch e := raw.(type) {
	case driver.QR:
		return event.New(event.QR, sessionID, event.QRPayload{QR: e.Code}), true

	case driver.Message:
		t := event.Message
		if e.Created {
			// own messages only, the incoming copy already goes out as message
			if !e.FromMe {
				return event.Event{}, false
			}
			t = event.MessageCreate
		}
		p := event.MessagePayload{
			ID:           e.ID,
			Body:         e.Body,
			From:         e.From,
			To:           e.To,
			FromMe:       e.FromMe,
			HasMedia:     e.HasMedia,
			Timestamp:    e.Timestamp.Unix(),
			MentionedIDs: e.MentionedIDs,
		}
		return event.New(t, sessionID, p).WithSourceMessage(e.ID, e.HasMedia), true

	case driver.Ack:
		return event.New(event.MessageAck, sessionID, event.AckPayload{
			ID:        e.MessageID,
			Ack:       e.Ack,
			AckName:   event.AckName(e.Ack),
			Body:      e.Body,
			Timestamp: e.Timestamp.Unix(),
		}), true

	case driver.GroupJoin:
		return event.New(event.GroupJoin, sessionID, groupPayload(e.GroupID, e.UserIDs, e.AuthorID, e.Timestamp.Unix())), true

	case driver.GroupLeave:
		return event.New(event.GroupLeave, sessionID, groupPayload(e.GroupID, e.UserIDs, e.AuthorID, e.Timestamp.Unix())), true

	case driver.Typing:
		if !e.IsTyping {
			return event.Event{}, false
		}
		return event.New(event.Typing, sessionID, event.TypingPayload{
			ChatID:    e.ChatID,
			IsTyping:  true,
			Timestamp: e.Timestamp.Unix(),
		}), true

	case driver.ChatRead:
		if e.UnreadCount != 0 || !e.HasLastMessage {
			return event.Event{}, false
		}
		return event.New(event.Seen, sessionID, event.SeenPayload{
			ChatID:    e.ChatID,
			Timestamp: e.Timestamp.Unix(),
		}), true

	case driver.Revoke:
		return event.New(event.Revoke, sessionID, event.RevokePayload{
			ID:                 e.ID,
			From:               e.From,
			To:                 e.To,
			Body:               e.Body,
			RevokedMessageBody: e.RevokedBody,
			Timestamp:          e.Timestamp.Unix(),
		}), true
	}

	return event.Event{}, false
}

func groupPayload(groupID string, users []string, author string, ts int64) event.GroupPayload {
	if users == nil {
		users = []string{}
	}
	return event.GroupPayload{
		GroupID:         groupID,
		AffectedUserIDs: users,
		AuthorID:        author,
		Timestamp:       ts,
	}
}
