package session

import "fmt"

/* Status is the connection lifecycle state of a session
 * connecting -> qr_code_ready -> authenticated -> connected
 * auth_failed, disconnected and error are the alternate terminal states
 */
type Status int

const (
	Connecting Status = iota + 1
	QRCodeReady
	Authenticated
	Connected
	AuthFailed
	Disconnected
	Error
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case QRCodeReady:
		return "qr_code_ready"
	case Authenticated:
		return "authenticated"
	case Connected:
		return "connected"
	case AuthFailed:
		return "auth_failed"
	case Disconnected:
		return "disconnected"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from a string, unknown strings map to Disconnected
func NewStatus(str string) Status {
	switch str {
	case "connecting":
		return Connecting
	case "qr_code_ready":
		return QRCodeReady
	case "authenticated":
		return Authenticated
	case "connected":
		return Connected
	case "auth_failed":
		return AuthFailed
	case "error":
		return Error
	default:
		return Disconnected
	}
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s < Connecting || s > Error {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// IsTerminal returns true for the states the handshake does not leave by itself
func (s Status) IsTerminal() bool {
	return s == AuthFailed || s == Disconnected || s == Error
}

// MarshalText encodes the status by name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name
func (s *Status) UnmarshalText(text []byte) error {
	*s = NewStatus(string(text))
	return nil
}
