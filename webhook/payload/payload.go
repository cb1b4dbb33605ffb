package payload

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/session-bridge/event"
)

// Account is the logged-in account reported in WAHA envelopes
type Account struct {
	ID       string `json:"id"`
	PushName string `json:"pushName"`
}

// Options are the per-target inputs of an envelope
type Options struct {
	Me                    Account
	IncludeRequestHeaders bool
}

// Build renders evt in format f
func Build(f Format, evt event.Event, opts Options) ([]byte, error) {
	switch f {
	case Plain:
		p, err := NewPlain(evt, opts)
		if err != nil {
			return nil, err
		}
		return p.Bytes()
	case WAHA:
		w, err := NewWAHA(evt, opts)
		if err != nil {
			return nil, err
		}
		return json.Marshal(w)
	default:
		return nil, fmt.Errorf("building envelope: %w", f.Validate())
	}
}

// PlainEnvelope is the Standard Webhooks shape {type, timestamp, data} plus the bridge fields
type PlainEnvelope struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Session   int       `json:"session"`
	Timestamp time.Time `json:"timestamp"`

	// Data is the canonical payload of the event
	Data json.RawMessage `json:"data"`

	Media          *event.MediaReference `json:"media,omitempty"`
	RequestHeaders map[string]string     `json:"request_headers,omitempty"`
}

// NewPlain creates the plain envelope of evt
func NewPlain(evt event.Event, opts Options) (PlainEnvelope, error) {
	data, err := json.Marshal(evt.Payload)
	if err != nil {
		return PlainEnvelope{}, fmt.Errorf("marshaling data: %w", err)
	}

	p := PlainEnvelope{
		ID:        evt.ID,
		Type:      evt.Type.String(),
		Session:   evt.SessionID,
		Timestamp: evt.Timestamp,
		Data:      data,
		Media:     evt.Media,
	}
	if opts.IncludeRequestHeaders {
		p.RequestHeaders = evt.RequestHeaders
	}

	if err := p.Validate(); err != nil {
		return PlainEnvelope{}, fmt.Errorf("validating envelope: %w", err)
	}
	return p, nil
}

// Validate validates the envelope structure
func (p PlainEnvelope) Validate() error {
	if err := event.Type(p.Type).Validate(); err != nil {
		return err
	}
	if p.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if len(p.Data) == 0 || !json.Valid(p.Data) {
		return fmt.Errorf("data must be valid JSON")
	}
	return nil
}

// MarshalJSON formats the timestamp as RFC 3339 with nanoseconds
func (p PlainEnvelope) MarshalJSON() ([]byte, error) {
	type Alias PlainEnvelope
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: p.Timestamp.Format(time.RFC3339Nano),
		Alias:     (*Alias)(&p),
	})
}

// UnmarshalJSON parses the JSON-encoded data and stores the result
func (p *PlainEnvelope) UnmarshalJSON(data []byte) error {
	type Alias PlainEnvelope
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Alias: (*Alias)(p),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("unmarshaling envelope: %w", err)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
	if err != nil {
		return fmt.Errorf("parsing timestamp: %w", err)
	}
	p.Timestamp = timestamp

	return nil
}

// ParsePlain parses and validates a plain envelope
func ParsePlain(data []byte) (PlainEnvelope, error) {
	var p PlainEnvelope
	if err := json.Unmarshal(data, &p); err != nil {
		return PlainEnvelope{}, err
	}
	if err := p.Validate(); err != nil {
		return PlainEnvelope{}, fmt.Errorf("validating envelope: %w", err)
	}
	return p, nil
}

// Bytes returns the minified JSON encoding
func (p PlainEnvelope) Bytes() ([]byte, error) {
	return json.Marshal(p)
}
