package event

// AckUnknown is reported for acknowledgement codes outside the fixed table
const AckUnknown = "UNKNOWN"

var ackNames = [...]string{"ERROR", "PENDING", "RECEIVED", "READ", "PLAYED"}

const (
	AckError = iota
	AckPending
	AckReceived
	AckRead
	AckPlayed
)

// AckName maps an acknowledgement code to its name
func AckName(ack int) string {
	if ack < 0 || ack >= len(ackNames) {
		return AckUnknown
	}
	return ackNames[ack]
}
