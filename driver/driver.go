package driver

import (
	"context"
	"errors"
)

var (
	// ErrUnrecoverable marks a fault the connection cannot recover from by itself
	ErrUnrecoverable = errors.New("unrecoverable driver fault")

	// ErrMediaNotFound is returned when a message's media is no longer downloadable
	ErrMediaNotFound = errors.New("media not found")
)

// Media is an attachment going to or coming from the messaging network
type Media struct {
	MimeType string
	Filename string
	Data     []byte
}

// Account identifies the logged-in user
type Account struct {
	ID       string
	PushName string
}

/* Driver owns the single connection of a session process
 * Lifecycle and inbound traffic are delivered on Events, commands are plain method calls.
 * Command methods are not safe for concurrent use on the same connection, callers serialize them.
 */
type Driver interface {
	// Start begins the connection handshake. It may be called again after a Fault
	Start(ctx context.Context) error
	Events() <-chan Event
	// IsReady reports whether the connection is up and logged in
	IsReady() bool
	Me() Account

	SendText(ctx context.Context, chatID, text string) (string, error)
	SendImage(ctx context.Context, chatID string, image Media, caption string) (string, error)
	MarkSeen(ctx context.Context, chatID string) error
	SetTyping(ctx context.Context, chatID string, typing bool) error
	DownloadMedia(ctx context.Context, messageID string) (Media, error)

	Close() error
}
