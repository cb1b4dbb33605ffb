package command

import (
	"context"
	"fmt"
	"time"
)

// RelayData carries the fields of a relayed command
type RelayData struct {
	ChatID   string `json:"chatId"`
	Message  string `json:"message"`
	Duration int64  `json:"duration"`
}

// RelayInput is a WAHA style {event, data} command
type RelayInput struct {
	Event string     `json:"event"`
	Data  *RelayData `json:"data"`
}

// RelayResult is the outcome of a relayed command
type RelayResult struct {
	MessageID string
	Message   string
}

// Relay dispatches a send_text, seen or typing command by name
func (s *Service) Relay(ctx context.Context, in RelayInput) (RelayResult, error) {
	if in.Event == "" {
		return RelayResult{}, badRequest("Invalid event format")
	}

	d := in.Data
	if d == nil {
		d = &RelayData{}
	}

	switch in.Event {
	case "send_text":
		if d.ChatID == "" || d.Message == "" {
			break
		}
		res, err := s.SendText(ctx, SendTextInput{ChatID: d.ChatID, Message: d.Message})
		if err != nil {
			return RelayResult{}, err
		}
		return RelayResult{MessageID: res.MessageID, Message: "Message sent successfully"}, nil

	case "seen":
		if d.ChatID == "" {
			break
		}
		if err := s.Seen(ctx, d.ChatID); err != nil {
			return RelayResult{}, err
		}
		return RelayResult{Message: "Chat marked as seen"}, nil

	case "typing":
		if d.ChatID == "" {
			break
		}
		duration := time.Duration(d.Duration) * time.Millisecond
		if duration <= 0 {
			duration = DefaultTypingDuration
		}
		if err := s.Typing(ctx, d.ChatID, duration); err != nil {
			return RelayResult{}, err
		}
		return RelayResult{Message: fmt.Sprintf("Started typing for %dms", duration.Milliseconds())}, nil

	default:
		return RelayResult{}, badRequest("Unsupported event type")
	}

	return RelayResult{}, badRequest("Missing required data")
}
