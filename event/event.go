package event

import (
	"fmt"
	"maps"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// typePattern validates event type tokens: lower snake case, e.g. "message_ack"
var typePattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

/* Type is the token subscribers use to select events
 * Tokens are compared verbatim, there is no wildcard matching
 */
type Type string

const (
	QR            Type = "qr"
	Message       Type = "message"
	MessageCreate Type = "message_create"
	MessageAck    Type = "message_ack"
	GroupJoin     Type = "group_join"
	GroupLeave    Type = "group_leave"
	Typing        Type = "typing"
	Seen          Type = "seen"
	Revoke        Type = "revoke"
	SendText      Type = "send_text"
	SendImage     Type = "send_image"
)

// Known lists every type the bridge can emit
var Known = []Type{QR, Message, MessageCreate, MessageAck, GroupJoin, GroupLeave, Typing, Seen, Revoke, SendText, SendImage}

// DefaultSubscribed is applied to subscriptions registered without an events list
var DefaultSubscribed = []Type{Message, MessageCreate, MessageAck, GroupJoin, GroupLeave}

// String returns the token
func (t Type) String() string {
	return string(t)
}

// Validate checks the token format
func (t Type) Validate() error {
	if t == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if !typePattern.MatchString(string(t)) {
		return fmt.Errorf("event type must be lower snake case: %s", t)
	}
	return nil
}

// IsKnown reports whether the bridge ever emits t
func (t Type) IsKnown() bool {
	for _, k := range Known {
		if k == t {
			return true
		}
	}
	return false
}

// MediaReference points to a downloaded attachment
type MediaReference struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
}

/* Event is the canonical record routed to subscribers
 * Uses value semantics: it is never mutated after New, the With* helpers return copies
 */
type Event struct {
	ID        string
	Type      Type
	SessionID int
	Timestamp time.Time
	Payload   Payload

	// MessageID is the driver message the media (if any) belongs to
	MessageID string
	HasMedia  bool
	Media     *MediaReference

	// RequestHeaders is set on events synthesized from a command API call
	RequestHeaders map[string]string
}

// New creates an event with a fresh identifier and the current time
func New(t Type, sessionID int, payload Payload) Event {
	return Event{
		ID:        NewID(),
		Type:      t,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// NewID returns an identifier in the evt_<hex> form
func NewID() string {
	return "evt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithMedia returns a copy of e carrying ref
func (e Event) WithMedia(ref MediaReference) Event {
	e.Media = &ref
	return e
}

// WithRequestHeaders returns a copy of e carrying a copy of headers
func (e Event) WithRequestHeaders(headers map[string]string) Event {
	e.RequestHeaders = maps.Clone(headers)
	return e
}

// WithSourceMessage marks e as originating from a driver message
func (e Event) WithSourceMessage(messageID string, hasMedia bool) Event {
	e.MessageID = messageID
	e.HasMedia = hasMedia
	return e
}
