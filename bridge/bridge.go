package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/marcelsud/session-bridge/driver"
	"github.com/marcelsud/session-bridge/event"
	"github.com/marcelsud/session-bridge/session"
	"github.com/marcelsud/session-bridge/webhook"
)

const (
	DefaultReinitBackoff = 10 * time.Second
	DefaultStatusTimeout = 10 * time.Second

	// connectedSessionData is reported alongside the connected status
	connectedSessionData = "connected"
)

// ErrEventsClosed is returned when the driver stops emitting events before shutdown
var ErrEventsClosed = errors.New("driver event stream closed")

type Config struct {
	ReinitBackoff time.Duration
	StatusTimeout time.Duration

	// QRTerminal, when set, receives a printable rendering of each pairing code
	QRTerminal io.Writer
}

/* Bridge supervises one session
 * A single goroutine reads the driver events: lifecycle transitions are reported inline,
 * canonical events are published in their own goroutines
 */
type Bridge struct {
	sessionID int
	driver    driver.Driver
	status    session.UseCase
	publisher webhook.UseCase
	cfg       Config
	logger    zerolog.Logger

	pending sync.WaitGroup
}

// New creates a supervisor for sessionID
func New(sessionID int, drv driver.Driver, status session.UseCase, publisher webhook.UseCase, cfg Config) *Bridge {
	if cfg.ReinitBackoff <= 0 {
		cfg.ReinitBackoff = DefaultReinitBackoff
	}
	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = DefaultStatusTimeout
	}
	return &Bridge{
		sessionID: sessionID,
		driver:    drv,
		status:    status,
		publisher: publisher,
		cfg:       cfg,
		logger:    log.With().Str("component", "bridge").Int("session_id", sessionID).Logger(),
	}
}

/* Run starts the driver and processes its events until ctx is cancelled
 * A fault triggers one reinitialization after the backoff; a second fault before the
 * session is connected again returns driver.ErrUnrecoverable
 * Cancelling ctx returns nil
 */
func (b *Bridge) Run(ctx context.Context) error {
	b.report(ctx, session.Update{Status: session.Connecting})

	faults := 0
	if err := b.driver.Start(ctx); err != nil {
		if err := b.fault(ctx, &faults, err); err != nil {
			return err
		}
	}

	events := b.driver.Events()
	for {
		var raw driver.Event
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case raw, ok = <-events:
		}
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			return ErrEventsClosed
		}

		switch e := raw.(type) {
		case driver.QR:
			b.onQR(ctx, e.Code)
		case driver.Authenticated:
			b.report(ctx, session.Update{Status: session.Authenticated})
		case driver.Ready:
			faults = 0
			b.report(ctx, session.Update{Status: session.Connected, SessionData: connectedSessionData})
			b.logger.Info().Msg("session connected")
		case driver.AuthFailure:
			b.logger.Warn().Str("reason", e.Reason).Msg("authentication failed")
			b.report(ctx, session.Update{Status: session.AuthFailed})
		case driver.Disconnected:
			b.logger.Warn().Str("reason", e.Reason).Msg("session disconnected")
			b.report(ctx, session.Update{Status: session.Disconnected})
		case driver.Fault:
			if err := b.fault(ctx, &faults, e.Err); err != nil {
				return err
			}
		}

		if evt, ok := Normalize(b.sessionID, raw); ok {
			b.publish(ctx, evt)
		}
	}
}

// Wait blocks until in-flight publications have finished
func (b *Bridge) Wait() {
	b.pending.Wait()
}

// fault reports the error status and reinitializes the driver once per connected period
func (b *Bridge) fault(ctx context.Context, faults *int, cause error) error {
	*faults++
	b.logger.Error().Err(cause).Int("faults", *faults).Msg("driver fault")
	b.report(ctx, session.Update{Status: session.Error})

	if *faults > 1 {
		return fmt.Errorf("%w: %w", driver.ErrUnrecoverable, cause)
	}

	b.logger.Info().Dur("backoff", b.cfg.ReinitBackoff).Msg("reinitializing driver")
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(b.cfg.ReinitBackoff):
	}

	if err := b.driver.Start(ctx); err != nil {
		return b.fault(ctx, faults, err)
	}
	return nil
}

func (b *Bridge) onQR(ctx context.Context, code string) {
	png, err := session.EncodeQR(code)
	if err != nil {
		b.logger.Warn().Err(err).Msg("encoding QR image, reporting the raw code")
		png = code
	}
	b.report(ctx, session.Update{Status: session.QRCodeReady, QRPayload: png})

	if b.cfg.QRTerminal != nil {
		qrterminal.GenerateHalfBlock(code, qrterminal.L, b.cfg.QRTerminal)
	}
	b.logger.Info().Msg("QR code ready for pairing")
}

func (b *Bridge) report(ctx context.Context, u session.Update) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.StatusTimeout)
	defer cancel()

	if _, err := b.status.Transition(ctx, u); err != nil {
		b.logger.Error().Err(err).Str("status", u.Status.String()).Msg("reporting session status")
	}
}

func (b *Bridge) publish(ctx context.Context, evt event.Event) {
	ctx = context.WithoutCancel(ctx)
	b.pending.Add(1)
	go func() {
		defer b.pending.Done()
		// errors are logged by the dispatcher
		_, _ = b.publisher.Publish(ctx, evt)
	}()
}
