package payload

import "fmt"

/* Format is the outbound envelope shape
 * It is chosen once per deployment and applied to every event
 * Plain is the bridge's own Standard Webhooks style envelope
 * WAHA mirrors the WAHA webhook format for downstream tools that expect it
 */
type Format int

const (
	Plain Format = iota + 1
	WAHA
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case Plain:
		return "plain"
	case WAHA:
		return "waha"
	default:
		return "unknown"
	}
}

// NewFormat creates a Format from a string
func NewFormat(s string) Format {
	switch s {
	case "waha":
		return WAHA
	default:
		return Plain
	}
}

// Validate checks if the format is valid
func (f Format) Validate() error {
	if f != Plain && f != WAHA {
		return fmt.Errorf("invalid envelope format: %d", f)
	}
	return nil
}
