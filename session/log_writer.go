package session

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogWriter records transitions in the process log, used when no registry accepts status updates
type LogWriter struct {
	logger zerolog.Logger
}

func NewLogWriter() *LogWriter {
	return &LogWriter{logger: log.With().Str("component", "session").Logger()}
}

// NewLogWriterWith logs through the given logger
func NewLogWriterWith(logger zerolog.Logger) *LogWriter {
	return &LogWriter{logger: logger}
}

func (w *LogWriter) UpdateStatus(_ context.Context, s Session) error {
	evt := w.logger.Info().
		Int("session_id", s.ID).
		Str("status", s.Status.String())
	if s.Status == QRCodeReady {
		evt = evt.Bool("has_qr", s.QRPayload != "")
	}
	if s.SessionData != "" {
		evt = evt.Str("session_data", s.SessionData)
	}
	evt.Msg("session status changed")
	return nil
}
