package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/marcelsud/session-bridge/event"
	"github.com/marcelsud/session-bridge/subscription"
	"github.com/marcelsud/session-bridge/webhook/payload"
	"github.com/marcelsud/session-bridge/webhook/signature"
)

// DefaultTimeout bounds a single delivery attempt
const DefaultTimeout = 10 * time.Second

/* Service represents the delivery layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase publishes canonical events to the matching subscriptions
type UseCase interface {
	Publish(ctx context.Context, evt event.Event) ([]Attempt, error)
}

// Resolver returns the subscriptions that must receive an event
type Resolver interface {
	Resolve(ctx context.Context, evt event.Event) ([]subscription.Subscription, error)
}

// MediaFetcher downloads and stores the attachment of an event
type MediaFetcher interface {
	Fetch(ctx context.Context, evt event.Event) (event.MediaReference, error)
}

// Recorder counts events and delivery outcomes
type Recorder interface {
	RecordEvent(ctx context.Context, eventType string, targets int)
	RecordDelivery(ctx context.Context, eventType string, delivered bool, d time.Duration)
}

// Config holds the deployment-wide delivery settings
type Config struct {
	Format  payload.Format
	Timeout time.Duration

	// Secret enables Standard Webhooks signature headers when set
	Secret signature.Secret
}

type Service struct {
	resolver Resolver
	media    MediaFetcher
	recorder Recorder
	me       func() payload.Account
	client   *http.Client
	cfg      Config
	logger   zerolog.Logger
}

// NewService creates a new delivery service with dependency injection
func NewService(resolver Resolver, cfg Config) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Format == 0 {
		cfg.Format = payload.Plain
	}
	return &Service{
		resolver: resolver,
		client:   &http.Client{},
		cfg:      cfg,
		me:       func() payload.Account { return payload.Account{} },
		logger:   log.With().Str("component", "webhook").Logger(),
	}
}

// WithMedia sets the store used to attach media to events
func (s *Service) WithMedia(m MediaFetcher) *Service {
	s.media = m
	return s
}

// WithRecorder sets the metrics recorder
func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

// WithAccount sets the source of the account reported in WAHA envelopes
func (s *Service) WithAccount(me func() payload.Account) *Service {
	s.me = me
	return s
}

// WithHTTPClient replaces the client used for deliveries
func (s *Service) WithHTTPClient(c *http.Client) *Service {
	s.client = c
	return s
}

/* Publish delivers evt to every matching subscription
 * Each target gets its own goroutine, one failing target never affects another
 * Nothing is deduplicated: publishing the same event twice delivers it twice
 */
func (s *Service) Publish(ctx context.Context, evt event.Event) ([]Attempt, error) {
	logger := s.logger.With().Int("session_id", evt.SessionID).Str("event_type", evt.Type.String()).Str("event_id", evt.ID).Logger()

	targets, err := s.resolver.Resolve(ctx, evt)
	if err != nil {
		logger.Error().Err(err).Msg("resolving subscriptions, event dropped")
		return nil, fmt.Errorf("resolving subscriptions: %w", err)
	}
	if s.recorder != nil {
		s.recorder.RecordEvent(ctx, evt.Type.String(), len(targets))
	}
	if len(targets) == 0 {
		logger.Debug().Msg("no subscriptions matched")
		return nil, nil
	}

	if evt.HasMedia && evt.Media == nil && s.media != nil {
		ref, err := s.media.Fetch(ctx, evt)
		if err != nil {
			logger.Warn().Err(err).Str("message_id", evt.MessageID).Msg("fetching media, sending without it")
		} else {
			evt = evt.WithMedia(ref)
		}
	}

	attempts := make([]Attempt, len(targets))
	var wg conc.WaitGroup
	for i, sub := range targets {
		attempts[i] = Attempt{
			SubscriptionID: sub.ID,
			EventID:        evt.ID,
			EventType:      evt.Type,
			URL:            sub.URL,
			Status:         Failed,
		}
		wg.Go(func() {
			attempts[i] = s.deliver(ctx, evt, sub)
		})
	}
	if r := wg.WaitAndRecover(); r != nil {
		logger.Error().Str("panic", r.String()).Msg("delivery panicked")
	}

	return attempts, nil
}

// deliver performs one attempt against one subscription
func (s *Service) deliver(ctx context.Context, evt event.Event, sub subscription.Subscription) Attempt {
	start := time.Now()
	a := Attempt{
		SubscriptionID: sub.ID,
		EventID:        evt.ID,
		EventType:      evt.Type,
		URL:            sub.URL,
		Status:         Failed,
	}

	a.StatusCode, a.Err = s.post(ctx, evt, sub)
	a.Duration = time.Since(start)
	if a.Err == nil && a.StatusCode >= 200 && a.StatusCode < 300 {
		a.Status = Delivered
	}

	entry := s.logger.Info()
	if !a.Delivered() {
		entry = s.logger.Warn()
	}
	entry = entry.Int("session_id", evt.SessionID).
		Int("subscription_id", sub.ID).
		Str("event_type", evt.Type.String()).
		Str("event_id", evt.ID).
		Dur("duration", a.Duration)
	if a.Err != nil {
		entry = entry.Err(a.Err)
	} else {
		entry = entry.Int("status_code", a.StatusCode)
	}
	entry.Msg("webhook " + a.Status.String())

	if s.recorder != nil {
		s.recorder.RecordDelivery(ctx, evt.Type.String(), a.Delivered(), a.Duration)
	}
	return a
}

func (s *Service) post(ctx context.Context, evt event.Event, sub subscription.Subscription) (int, error) {
	body, err := payload.Build(s.cfg.Format, evt, payload.Options{
		Me:                    s.me(),
		IncludeRequestHeaders: sub.Options.IncludeRequestHeaders,
	})
	if err != nil {
		return 0, fmt.Errorf("building envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range sub.Headers {
		// verbatim, a subscription may override Content-Type
		req.Header.Del(k)
		req.Header[k] = []string{v}
	}
	if !s.cfg.Secret.IsZero() {
		signature.Apply(req.Header, s.cfg.Secret, evt.ID, time.Now(), body)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return resp.StatusCode, nil
}
