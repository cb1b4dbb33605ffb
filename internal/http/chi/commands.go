package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/marcelsud/session-bridge/command"
	"github.com/marcelsud/session-bridge/session"
)

/* HTTP layer DTOs for the command API
 * Separate from the command inputs to keep the wire names in one place
 */

type chatRequest struct {
	ChatID string `json:"chatId"`
}

type typingRequest struct {
	ChatID   string `json:"chatId"`
	Duration int64  `json:"duration"`
}

type commandResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Message   string `json:"message,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type healthResponse struct {
	Status        string `json:"status"`
	Session       int    `json:"session"`
	SessionStatus string `json:"session_status"`
	Ready         bool   `json:"ready"`

	// NeedsAttention is set while the session sits in a state it cannot leave by itself
	NeedsAttention bool `json:"needs_attention"`
}

// postSendText handles POST /api/send-text
func postSendText(commands command.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in command.SendTextInput
		if !decode(w, r, &in) {
			return
		}

		res, err := commands.SendText(withHeaders(r), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, commandResponse{Success: true, MessageID: res.MessageID, Message: "Message sent successfully"})
	})
}

// postSeen handles POST /api/seen
func postSeen(commands command.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in chatRequest
		if !decode(w, r, &in) {
			return
		}

		if err := commands.Seen(withHeaders(r), in.ChatID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, commandResponse{Success: true, Message: "Chat marked as seen"})
	})
}

// postTyping handles POST /api/typing
func postTyping(commands command.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in typingRequest
		if !decode(w, r, &in) {
			return
		}

		duration := time.Duration(in.Duration) * time.Millisecond
		if duration <= 0 {
			duration = command.DefaultTypingDuration
		}
		if err := commands.Typing(withHeaders(r), in.ChatID, duration); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, commandResponse{Success: true, Message: fmt.Sprintf("Started typing for %dms", duration.Milliseconds())})
	})
}

// postSendImage handles POST /api/send-image
func postSendImage(commands command.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in command.SendImageInput
		if !decode(w, r, &in) {
			return
		}

		res, err := commands.SendImage(withHeaders(r), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, commandResponse{Success: true, MessageID: res.MessageID, Message: "Image sent successfully"})
	})
}

// postRelay handles POST /api/waha-webhook
func postRelay(commands command.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in command.RelayInput
		if !decode(w, r, &in) {
			return
		}

		res, err := commands.Relay(withHeaders(r), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, commandResponse{Success: true, MessageID: res.MessageID, Message: res.Message})
	})
}

// getHealth handles GET /health
func getHealth(status session.UseCase, ready Readiness) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := status.Current()
		writeJSON(w, http.StatusOK, healthResponse{
			Status:        "healthy",
			Session:       s.ID,
			SessionStatus: s.Status.String(),
			Ready:         ready.IsReady(),

			NeedsAttention: s.Status.IsTerminal(),
		})
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// withHeaders attaches the first value of every request header to the request context
func withHeaders(r *http.Request) context.Context {
	headers := make(map[string]string, len(r.Header))
	for key, values := range r.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}
	return command.WithRequestHeaders(r.Context(), headers)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, command.ErrBadRequest) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
