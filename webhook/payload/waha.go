package payload

import (
	"encoding/json"
	"fmt"

	"github.com/marcelsud/session-bridge/event"
)

const wahaEngine = "WEBJS"

// Environment identifies the emitting engine in WAHA envelopes
type Environment struct {
	Version string `json:"version"`
	Engine  string `json:"engine"`
	Tier    string `json:"tier"`
	Browser string `json:"browser"`
}

// DefaultEnvironment is reported by every WAHA envelope
var DefaultEnvironment = Environment{
	Version: "2025.2.1",
	Engine:  wahaEngine,
	Tier:    "CORE",
	Browser: "/usr/bin/chromium",
}

type WAHAEnvelope struct {
	ID          string          `json:"id"`
	Event       string          `json:"event"`
	Session     string          `json:"session"`
	Metadata    map[string]any  `json:"metadata"`
	Me          Account         `json:"me"`
	Payload     json.RawMessage `json:"payload"`
	Engine      string          `json:"engine"`
	Environment Environment     `json:"environment"`
}

// NewWAHA creates the WAHA envelope of evt.
// Message payloads gain the ack, ackName, vCards and media fields WAHA consumers read.
func NewWAHA(evt event.Event, opts Options) (WAHAEnvelope, error) {
	data, err := json.Marshal(evt.Payload)
	if err != nil {
		return WAHAEnvelope{}, fmt.Errorf("marshaling payload: %w", err)
	}

	if evt.Type == event.Message || evt.Type == event.MessageCreate {
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			return WAHAEnvelope{}, fmt.Errorf("decoding message payload: %w", err)
		}
		fields["ack"] = event.AckPending
		fields["ackName"] = "SERVER"
		fields["vCards"] = []string{}
		if evt.Media != nil {
			fields["media"] = evt.Media
			fields["mediaUrl"] = evt.Media.URL
		}
		if data, err = json.Marshal(fields); err != nil {
			return WAHAEnvelope{}, fmt.Errorf("marshaling message payload: %w", err)
		}
	}

	metadata := map[string]any{}
	if opts.IncludeRequestHeaders && len(evt.RequestHeaders) > 0 {
		metadata["requestHeaders"] = evt.RequestHeaders
	}

	me := opts.Me
	if me.ID == "" {
		me.ID = "unknown"
	}

	return WAHAEnvelope{
		ID:          evt.ID,
		Event:       evt.Type.String(),
		Session:     fmt.Sprintf("session_%d", evt.SessionID),
		Metadata:    metadata,
		Me:          me,
		Payload:     data,
		Engine:      wahaEngine,
		Environment: DefaultEnvironment,
	}, nil
}
