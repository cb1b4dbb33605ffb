package whatsmeow

import (
	"fmt"
	"time"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/marcelsud/session-bridge/driver"
	"github.com/marcelsud/session-bridge/event"
)

/* translator maps whatsmeow events to driver events
 * It holds no connection so it can be exercised without a client
 */
type translator struct {
	cache *MessageCache
	me    func() types.JID

	// authenticated is set once the current connection attempt has reported Authenticated
	authenticated bool
}

func (t *translator) reset() {
	t.authenticated = false
}

func (t *translator) translate(evt any) []driver.Event {
	switch e := evt.(type) {
	case *events.PairSuccess:
		t.authenticated = true
		return []driver.Event{driver.Authenticated{}}

	case *events.Connected:
		out := []driver.Event{}
		if !t.authenticated {
			t.authenticated = true
			out = append(out, driver.Authenticated{})
		}
		return append(out, driver.Ready{})

	case *events.LoggedOut:
		return []driver.Event{driver.AuthFailure{Reason: e.Reason.String()}}

	case *events.TemporaryBan:
		return []driver.Event{driver.AuthFailure{Reason: e.String()}}

	case *events.ConnectFailure:
		if e.Reason.IsLoggedOut() {
			return []driver.Event{driver.AuthFailure{Reason: e.Reason.String()}}
		}
		return []driver.Event{driver.Disconnected{Reason: fmt.Sprintf("connect failure: %s %s", e.Reason, e.Message)}}

	case *events.StreamReplaced:
		return []driver.Event{driver.Disconnected{Reason: "stream replaced"}}

	case *events.Disconnected:
		return []driver.Event{driver.Disconnected{Reason: "connection lost"}}

	case *events.Message:
		return t.message(e)

	case *events.Receipt:
		return t.receipt(e)

	case *events.ChatPresence:
		return []driver.Event{driver.Typing{
			ChatID:    ChatID(e.Chat),
			IsTyping:  e.State == types.ChatPresenceComposing,
			Timestamp: time.Now(),
		}}

	case *events.MarkChatAsRead:
		if !e.Action.GetRead() {
			return nil
		}
		return []driver.Event{driver.ChatRead{
			ChatID:         ChatID(e.JID),
			UnreadCount:    0,
			HasLastMessage: true,
			Timestamp:      e.Timestamp,
		}}

	case *events.GroupInfo:
		return t.group(e)
	}

	return nil
}

func (t *translator) message(e *events.Message) []driver.Event {
	info := e.Info
	chat := ChatID(info.Chat)
	own := ChatID(t.me())

	from, to := chat, own
	if info.IsFromMe {
		from, to = own, chat
	}

	if pm := e.Message.GetProtocolMessage(); pm != nil {
		if pm.GetType() != waE2E.ProtocolMessage_REVOKE {
			return nil
		}
		revoked := driver.Revoke{
			ID:        pm.GetKey().GetID(),
			From:      from,
			To:        to,
			Timestamp: info.Timestamp,
		}
		if cached, ok := t.cache.Get(pm.GetKey().GetID()); ok {
			revoked.RevokedBody = cached.Body
		}
		return []driver.Event{revoked}
	}

	body := messageBody(e.Message)
	t.cache.Set(&CachedMessage{
		ID:      info.ID,
		Chat:    info.Chat,
		Sender:  info.Sender,
		FromMe:  info.IsFromMe,
		Body:    body,
		Message: e.Message,
	})

	msg := driver.Message{
		ID:           info.ID,
		Body:         body,
		From:         from,
		To:           to,
		FromMe:       info.IsFromMe,
		HasMedia:     hasMedia(e.Message),
		Timestamp:    info.Timestamp,
		MentionedIDs: mentions(e.Message),
		Created:      true,
	}

	out := []driver.Event{msg}
	if !info.IsFromMe {
		msg.Created = false
		out = append(out, msg)
	}
	return out
}

func (t *translator) receipt(e *events.Receipt) []driver.Event {
	ack, ok := ackCode(e.Type)
	if !ok {
		return nil
	}

	out := make([]driver.Event, 0, len(e.MessageIDs))
	for _, id := range e.MessageIDs {
		a := driver.Ack{MessageID: id, Ack: ack, Timestamp: e.Timestamp}
		if cached, ok := t.cache.Get(id); ok {
			a.Body = cached.Body
		}
		out = append(out, a)
	}
	return out
}

func (t *translator) group(e *events.GroupInfo) []driver.Event {
	author := ""
	if e.Sender != nil {
		author = ChatID(*e.Sender)
	}

	var out []driver.Event
	if len(e.Join) > 0 {
		out = append(out, driver.GroupJoin{GroupID: ChatID(e.JID), UserIDs: chatIDs(e.Join), AuthorID: author, Timestamp: e.Timestamp})
	}
	if len(e.Leave) > 0 {
		out = append(out, driver.GroupLeave{GroupID: ChatID(e.JID), UserIDs: chatIDs(e.Leave), AuthorID: author, Timestamp: e.Timestamp})
	}
	return out
}

// ackCode maps receipt types to acknowledgement levels
func ackCode(t types.ReceiptType) (int, bool) {
	switch t {
	case types.ReceiptTypeDelivered:
		return event.AckReceived, true
	case types.ReceiptTypeRead, types.ReceiptTypeReadSelf:
		return event.AckRead, true
	case types.ReceiptTypePlayed, types.ReceiptTypePlayedSelf:
		return event.AckPlayed, true
	case types.ReceiptTypeServerError:
		return event.AckError, true
	default:
		return 0, false
	}
}

func messageBody(m *waE2E.Message) string {
	switch {
	case m.GetConversation() != "":
		return m.GetConversation()
	case m.GetExtendedTextMessage() != nil:
		return m.GetExtendedTextMessage().GetText()
	case m.GetImageMessage() != nil:
		return m.GetImageMessage().GetCaption()
	case m.GetVideoMessage() != nil:
		return m.GetVideoMessage().GetCaption()
	case m.GetDocumentMessage() != nil:
		return m.GetDocumentMessage().GetCaption()
	}
	return ""
}

func hasMedia(m *waE2E.Message) bool {
	return m.GetImageMessage() != nil ||
		m.GetVideoMessage() != nil ||
		m.GetAudioMessage() != nil ||
		m.GetDocumentMessage() != nil ||
		m.GetStickerMessage() != nil
}

func mediaMimeType(m *waE2E.Message) string {
	switch {
	case m.GetImageMessage() != nil:
		return m.GetImageMessage().GetMimetype()
	case m.GetVideoMessage() != nil:
		return m.GetVideoMessage().GetMimetype()
	case m.GetAudioMessage() != nil:
		return m.GetAudioMessage().GetMimetype()
	case m.GetDocumentMessage() != nil:
		return m.GetDocumentMessage().GetMimetype()
	case m.GetStickerMessage() != nil:
		return m.GetStickerMessage().GetMimetype()
	}
	return ""
}

func mentions(m *waE2E.Message) []string {
	jids := m.GetExtendedTextMessage().GetContextInfo().GetMentionedJID()
	if len(jids) == 0 {
		return nil
	}
	out := make([]string, 0, len(jids))
	for _, raw := range jids {
		if jid, err := types.ParseJID(raw); err == nil {
			out = append(out, ChatID(jid))
		}
	}
	return out
}
