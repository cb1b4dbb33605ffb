package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/marcelsud/session-bridge/driver"
	"github.com/marcelsud/session-bridge/event"
	"github.com/marcelsud/session-bridge/webhook"
)

// DefaultTypingDuration is used when a typing command gives no duration
const DefaultTypingDuration = 3000 * time.Millisecond

// SendTextInput is the body of a send-text command
type SendTextInput struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// SendImageInput is the body of a send-image command
type SendImageInput struct {
	ChatID      string `json:"chatId"`
	ImageURL    string `json:"imageUrl"`
	ImageBase64 string `json:"imageBase64"`
	Caption     string `json:"caption"`
}

// SendResult identifies the message created by a send command
type SendResult struct {
	MessageID string
}

// ImageLoader resolves send-image inputs into driver media
type ImageLoader interface {
	Load(ctx context.Context, imageURL, imageBase64 string) (driver.Media, error)
}

/* Service represents the command layer of one session
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the commands accepted by a session
type UseCase interface {
	SendText(ctx context.Context, in SendTextInput) (SendResult, error)
	Seen(ctx context.Context, chatID string) error
	Typing(ctx context.Context, chatID string, duration time.Duration) error
	SendImage(ctx context.Context, in SendImageInput) (SendResult, error)
	Relay(ctx context.Context, in RelayInput) (RelayResult, error)
}

type Service struct {
	sessionID int
	driver    driver.Driver
	publisher webhook.UseCase
	images    ImageLoader

	// mu serializes every driver call issued by commands
	mu sync.Mutex

	// pending tracks detached publications and typing clears
	pending sync.WaitGroup
	logger  zerolog.Logger
}

// NewService creates a new command service with dependency injection
func NewService(sessionID int, drv driver.Driver, publisher webhook.UseCase, images ImageLoader) *Service {
	return &Service{
		sessionID: sessionID,
		driver:    drv,
		publisher: publisher,
		images:    images,
		logger:    log.With().Str("component", "command").Int("session_id", sessionID).Logger(),
	}
}

// SendText sends a text message and publishes a send_text event
func (s *Service) SendText(ctx context.Context, in SendTextInput) (SendResult, error) {
	if in.ChatID == "" || in.Message == "" {
		return SendResult{}, badRequest("chatId and message are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.driver.IsReady() {
		return SendResult{}, ErrNotReady
	}

	id, err := s.driver.SendText(ctx, in.ChatID, in.Message)
	if err != nil {
		return SendResult{}, fmt.Errorf("%w: sending text: %w", ErrDriverFailure, err)
	}

	s.publish(ctx, event.SendText, event.SendTextPayload{
		ChatID:    in.ChatID,
		Message:   in.Message,
		MessageID: id,
		Timestamp: time.Now().Unix(),
	})
	return SendResult{MessageID: id}, nil
}

// Seen marks a chat as read and publishes a seen event
func (s *Service) Seen(ctx context.Context, chatID string) error {
	if chatID == "" {
		return badRequest("chatId is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.driver.IsReady() {
		return ErrNotReady
	}

	if err := s.driver.MarkSeen(ctx, chatID); err != nil {
		return fmt.Errorf("%w: marking seen: %w", ErrDriverFailure, err)
	}

	s.publish(ctx, event.Seen, event.SeenPayload{ChatID: chatID, Timestamp: time.Now().Unix()})
	return nil
}

/* Typing shows the typing indicator and schedules its clear after duration
 * The clear is detached from the request and cannot be cancelled,
 * two calls for the same chat schedule two clears
 */
func (s *Service) Typing(ctx context.Context, chatID string, duration time.Duration) error {
	if chatID == "" {
		return badRequest("chatId is required")
	}
	if duration <= 0 {
		duration = DefaultTypingDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.driver.IsReady() {
		return ErrNotReady
	}

	if err := s.driver.SetTyping(ctx, chatID, true); err != nil {
		return fmt.Errorf("%w: starting typing: %w", ErrDriverFailure, err)
	}

	s.pending.Add(1)
	time.AfterFunc(duration, func() {
		defer s.pending.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.driver.SetTyping(context.Background(), chatID, false); err != nil {
			s.logger.Warn().Err(err).Str("chat_id", chatID).Msg("clearing typing state")
		}
	})

	s.publish(ctx, event.Typing, event.TypingPayload{
		ChatID:    chatID,
		IsTyping:  true,
		Duration:  duration.Milliseconds(),
		Timestamp: time.Now().Unix(),
	})
	return nil
}

// SendImage sends an image from a URL or base64 data and publishes a send_image event
func (s *Service) SendImage(ctx context.Context, in SendImageInput) (SendResult, error) {
	if in.ChatID == "" {
		return SendResult{}, badRequest("chatId is required")
	}
	if in.ImageURL == "" && in.ImageBase64 == "" {
		return SendResult{}, badRequest("imageUrl or imageBase64 is required")
	}

	// the download happens outside the lock, only driver calls are serialized
	img, err := s.images.Load(ctx, in.ImageURL, in.ImageBase64)
	if err != nil {
		return SendResult{}, fmt.Errorf("%w: %w", ErrMedia, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.driver.IsReady() {
		return SendResult{}, ErrNotReady
	}

	id, err := s.driver.SendImage(ctx, in.ChatID, img, in.Caption)
	if err != nil {
		return SendResult{}, fmt.Errorf("%w: sending image: %w", ErrDriverFailure, err)
	}

	s.publish(ctx, event.SendImage, event.SendImagePayload{
		ChatID:    in.ChatID,
		Caption:   in.Caption,
		MimeType:  img.MimeType,
		MessageID: id,
		Timestamp: time.Now().Unix(),
	})
	return SendResult{MessageID: id}, nil
}

// Wait blocks until detached publications and typing clears have finished
func (s *Service) Wait() {
	s.pending.Wait()
}

// publish hands a synthesized event to the dispatcher without blocking the caller
func (s *Service) publish(ctx context.Context, t event.Type, p event.Payload) {
	evt := event.New(t, s.sessionID, p).WithRequestHeaders(RequestHeaders(ctx))
	ctx = context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if _, err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn().Err(err).Str("event_type", t.String()).Msg("publishing command event")
		}
	}()
}
