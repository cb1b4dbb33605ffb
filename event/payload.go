package event

// Payload is implemented by the typed payloads of this package only
type Payload interface {
	payload()
}

// MessagePayload is used by message and message_create
type MessagePayload struct {
	ID           string   `json:"id"`
	Body         string   `json:"body"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	FromMe       bool     `json:"fromMe"`
	HasMedia     bool     `json:"hasMedia"`
	Timestamp    int64    `json:"timestamp"`
	MentionedIDs []string `json:"mentionedIds,omitempty"`
}

type AckPayload struct {
	ID        string `json:"id"`
	Ack       int    `json:"ack"`
	AckName   string `json:"ackName"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
}

// GroupPayload is used by group_join and group_leave
type GroupPayload struct {
	GroupID         string   `json:"groupId"`
	AffectedUserIDs []string `json:"affectedUserIds"`
	AuthorID        string   `json:"authorId"`
	Timestamp       int64    `json:"timestamp"`
}

// TypingPayload always carries duration, the indicator length in ms of a typing command and 0 for a contact typing
type TypingPayload struct {
	ChatID    string `json:"chatId"`
	IsTyping  bool   `json:"isTyping"`
	Duration  int64  `json:"duration"`
	Timestamp int64  `json:"timestamp"`
}

type SeenPayload struct {
	ChatID    string `json:"chatId"`
	Timestamp int64  `json:"timestamp"`
}

type RevokePayload struct {
	ID                 string `json:"id"`
	From               string `json:"from"`
	To                 string `json:"to"`
	Body               string `json:"body"`
	RevokedMessageBody string `json:"revokedMessageBody,omitempty"`
	Timestamp          int64  `json:"timestamp"`
}

type QRPayload struct {
	QR string `json:"qr"`
}

type SendTextPayload struct {
	ChatID    string `json:"chatId"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
	Timestamp int64  `json:"timestamp"`
}

type SendImagePayload struct {
	ChatID    string `json:"chatId"`
	Caption   string `json:"caption,omitempty"`
	MimeType  string `json:"mimetype"`
	MessageID string `json:"messageId"`
	Timestamp int64  `json:"timestamp"`
}

func (MessagePayload) payload()   {}
func (AckPayload) payload()       {}
func (GroupPayload) payload()     {}
func (TypingPayload) payload()    {}
func (SeenPayload) payload()      {}
func (RevokePayload) payload()    {}
func (QRPayload) payload()        {}
func (SendTextPayload) payload()  {}
func (SendImagePayload) payload() {}
