package driver

import "time"

// Event is one raw notification from the connection
type Event interface {
	driverEvent()
}

// QR carries a pairing challenge
type QR struct {
	Code string
}

// Authenticated means the credentials were accepted
type Authenticated struct{}

// AuthFailure means the credentials were rejected
type AuthFailure struct {
	Reason string
}

// Ready means the handshake is complete
type Ready struct{}

type Disconnected struct {
	Reason string
}

// Fault reports an unrecoverable internal error
type Fault struct {
	Err error
}

/* Message is emitted for every message observed on the account.
 * Created is true for the copy emitted for any newly created message (own or not);
 * messages from other users are additionally emitted with Created false.
 */
type Message struct {
	ID           string
	Body         string
	From         string
	To           string
	FromMe       bool
	HasMedia     bool
	Timestamp    time.Time
	MentionedIDs []string
	Created      bool
}

type Ack struct {
	MessageID string
	Ack       int
	Body      string
	Timestamp time.Time
}

type GroupJoin struct {
	GroupID   string
	UserIDs   []string
	AuthorID  string
	Timestamp time.Time
}

type GroupLeave struct {
	GroupID   string
	UserIDs   []string
	AuthorID  string
	Timestamp time.Time
}

type Typing struct {
	ChatID    string
	IsTyping  bool
	Timestamp time.Time
}

// ChatRead reports a change of a chat's unread state
type ChatRead struct {
	ChatID         string
	UnreadCount    int
	HasLastMessage bool
	Timestamp      time.Time
}

// Revoke reports a message deleted for everyone
type Revoke struct {
	ID          string
	From        string
	To          string
	Body        string
	RevokedBody string
	Timestamp   time.Time
}

func (QR) driverEvent()            {}
func (Authenticated) driverEvent() {}
func (AuthFailure) driverEvent()   {}
func (Ready) driverEvent()         {}
func (Disconnected) driverEvent()  {}
func (Fault) driverEvent()         {}
func (Message) driverEvent()       {}
func (Ack) driverEvent()           {}
func (GroupJoin) driverEvent()     {}
func (GroupLeave) driverEvent()    {}
func (Typing) driverEvent()        {}
func (ChatRead) driverEvent()      {}
func (Revoke) driverEvent()        {}
