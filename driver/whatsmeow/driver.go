package whatsmeow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	wm "go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"github.com/marcelsud/session-bridge/driver"
)

// qrTimeoutReason is reported when a pairing window closes without a scan
const qrTimeoutReason = "qr timeout"

const (
	DefaultEventBuffer = 256
	DefaultCacheTTL    = 24 * time.Hour
)

// Config holds the adapter settings
type Config struct {
	SessionID int

	// StoreDir holds one SQLite device store per session
	StoreDir string

	// LogLevel filters whatsmeow's own logs
	LogLevel    string
	EventBuffer int
	CacheTTL    time.Duration
}

/* Driver connects one session through whatsmeow
 * Events are pushed on a buffered channel, when it is full they are logged and dropped
 */
type Driver struct {
	cfg       Config
	container *sqlstore.Container
	client    *wm.Client
	events    chan driver.Event
	cache     *MessageCache
	logger    zerolog.Logger

	// mu guards translator state, whatsmeow dispatches events from its own goroutines
	mu         sync.Mutex
	translator *translator

	// startCtx is the context of the latest Start, reused when pairing restarts
	startCtx context.Context
}

// New opens the device store and prepares an unconnected client
func New(ctx context.Context, cfg Config) (*Driver, error) {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultEventBuffer
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	logger := log.With().Str("component", "whatsmeow").Int("session_id", cfg.SessionID).Logger()
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("parsing driver log level: %w", err)
	}

	if err := os.MkdirAll(cfg.StoreDir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(cfg.StoreDir, fmt.Sprintf("session_%d.db", cfg.SessionID)))

	container, err := sqlstore.New(ctx, "sqlite3", dsn, waLog.Zerolog(logger.With().Str("module", "database").Logger().Level(level)))
	if err != nil {
		return nil, fmt.Errorf("opening device store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("loading device: %w", err)
	}

	d := &Driver{
		cfg:       cfg,
		container: container,
		client:    wm.NewClient(device, waLog.Zerolog(logger.With().Str("module", "client").Logger().Level(level))),
		events:    make(chan driver.Event, cfg.EventBuffer),
		cache:     NewMessageCache(cfg.CacheTTL),
		logger:    logger,
	}
	d.translator = &translator{cache: d.cache, me: d.ownJID}
	d.client.AddEventHandler(d.handle)

	return d, nil
}

/* Start connects the client
 * An unpaired device first opens the QR channel; its codes are emitted as driver.QR
 * Calling Start again drops the current connection and starts over
 */
func (d *Driver) Start(ctx context.Context) error {
	if d.client.IsConnected() {
		d.client.Disconnect()
	}

	d.mu.Lock()
	d.translator.reset()
	d.startCtx = ctx
	d.mu.Unlock()

	if d.client.Store.ID == nil {
		qr, err := d.client.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("opening QR channel: %w", err)
		}
		go d.watchQR(qr)
	}

	if err := d.client.Connect(); err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	return nil
}

func (d *Driver) watchQR(ch <-chan wm.QRChannelItem) {
	for item := range ch {
		switch item.Event {
		case wm.QRChannelEventCode:
			d.emit(driver.QR{Code: item.Code})
		case wm.QRChannelSuccess.Event:
			// PairSuccess reports authentication
		case wm.QRChannelTimeout.Event:
			// an unscanned code restarts pairing instead of counting as a fault
			d.emit(driver.Disconnected{Reason: qrTimeoutReason})
			d.restartPairing()
		default:
			err := item.Error
			if err == nil {
				err = fmt.Errorf("pairing failed: %s", item.Event)
			}
			d.emit(driver.Fault{Err: err})
		}
	}
}

// restartPairing starts over with a new QR channel unless the session is shutting down
func (d *Driver) restartPairing() {
	d.mu.Lock()
	ctx := d.startCtx
	d.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	d.logger.Info().Msg("QR code expired, requesting new codes")
	if err := d.Start(ctx); err != nil {
		d.emit(driver.Fault{Err: err})
	}
}

func (d *Driver) handle(evt any) {
	d.mu.Lock()
	out := d.translator.translate(evt)
	d.mu.Unlock()

	for _, e := range out {
		d.emit(e)
	}
}

func (d *Driver) emit(e driver.Event) {
	select {
	case d.events <- e:
	default:
		d.logger.Warn().Str("event", fmt.Sprintf("%T", e)).Msg("event buffer full, dropping event")
	}
}

// Events returns the stream shared by every Start; it is never closed
func (d *Driver) Events() <-chan driver.Event {
	return d.events
}

func (d *Driver) IsReady() bool {
	return d.client.IsConnected() && d.client.IsLoggedIn()
}

func (d *Driver) Me() driver.Account {
	jid := d.ownJID()
	if jid.IsEmpty() {
		return driver.Account{}
	}
	return driver.Account{ID: ChatID(jid), PushName: d.client.Store.PushName}
}

func (d *Driver) ownJID() types.JID {
	if d.client.Store.ID == nil {
		return types.JID{}
	}
	return d.client.Store.ID.ToNonAD()
}

func (d *Driver) SendText(ctx context.Context, chatID, text string) (string, error) {
	jid, err := ParseChatID(chatID)
	if err != nil {
		return "", err
	}

	msg := &waE2E.Message{Conversation: proto.String(text)}
	resp, err := d.client.SendMessage(ctx, jid, msg)
	if err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}

	d.sent(jid, resp.ID, text, msg, resp.Timestamp)
	return resp.ID, nil
}

func (d *Driver) SendImage(ctx context.Context, chatID string, img driver.Media, caption string) (string, error) {
	jid, err := ParseChatID(chatID)
	if err != nil {
		return "", err
	}

	uploaded, err := d.client.Upload(ctx, img.Data, wm.MediaImage)
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}

	msg := &waE2E.Message{ImageMessage: &waE2E.ImageMessage{
		URL:           proto.String(uploaded.URL),
		DirectPath:    proto.String(uploaded.DirectPath),
		Mimetype:      proto.String(img.MimeType),
		FileLength:    proto.Uint64(uploaded.FileLength),
		FileSHA256:    uploaded.FileSHA256,
		FileEncSHA256: uploaded.FileEncSHA256,
		MediaKey:      uploaded.MediaKey,
	}}
	if caption != "" {
		msg.ImageMessage.Caption = proto.String(caption)
	}

	resp, err := d.client.SendMessage(ctx, jid, msg)
	if err != nil {
		return "", fmt.Errorf("sending image: %w", err)
	}

	d.sent(jid, resp.ID, caption, msg, resp.Timestamp)
	return resp.ID, nil
}

// sent caches an outgoing message and emits it as a created own message
func (d *Driver) sent(chat types.JID, id types.MessageID, body string, msg *waE2E.Message, ts time.Time) {
	d.cache.Set(&CachedMessage{ID: id, Chat: chat, Sender: d.ownJID(), FromMe: true, Body: body, Message: msg})
	d.emit(driver.Message{
		ID:        id,
		Body:      body,
		From:      ChatID(d.ownJID()),
		To:        ChatID(chat),
		FromMe:    true,
		HasMedia:  hasMedia(msg),
		Timestamp: ts,
		Created:   true,
	})
}

// MarkSeen sends read receipts for every cached unread message of the chat
func (d *Driver) MarkSeen(ctx context.Context, chatID string) error {
	jid, err := ParseChatID(chatID)
	if err != nil {
		return err
	}

	bySender := map[types.JID][]types.MessageID{}
	for _, m := range d.cache.TakeUnread(jid) {
		bySender[m.Sender] = append(bySender[m.Sender], m.ID)
	}

	for sender, ids := range bySender {
		if err := d.client.MarkRead(ctx, ids, time.Now(), jid, sender); err != nil {
			return fmt.Errorf("marking read: %w", err)
		}
	}
	return nil
}

func (d *Driver) SetTyping(ctx context.Context, chatID string, typing bool) error {
	jid, err := ParseChatID(chatID)
	if err != nil {
		return err
	}

	state := types.ChatPresencePaused
	if typing {
		state = types.ChatPresenceComposing
	}
	if err := d.client.SendChatPresence(ctx, jid, state, types.ChatPresenceMediaText); err != nil {
		return fmt.Errorf("sending chat presence: %w", err)
	}
	return nil
}

func (d *Driver) DownloadMedia(ctx context.Context, messageID string) (driver.Media, error) {
	cached, ok := d.cache.Get(messageID)
	if !ok || !hasMedia(cached.Message) {
		return driver.Media{}, fmt.Errorf("%w: %s", driver.ErrMediaNotFound, messageID)
	}

	data, err := d.client.DownloadAny(ctx, cached.Message)
	if err != nil {
		return driver.Media{}, fmt.Errorf("downloading media: %w", err)
	}

	return driver.Media{
		MimeType: mediaMimeType(cached.Message),
		Filename: cached.Message.GetDocumentMessage().GetFileName(),
		Data:     data,
	}, nil
}

func (d *Driver) Close() error {
	d.client.Disconnect()
	if err := d.container.Close(); err != nil {
		return fmt.Errorf("closing device store: %w", err)
	}
	return nil
}
