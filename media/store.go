package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/marcelsud/session-bridge/driver"
	"github.com/marcelsud/session-bridge/event"
)

// Downloader fetches the attachment of a driver message
type Downloader interface {
	DownloadMedia(ctx context.Context, messageID string) (driver.Media, error)
}

/* Store persists message attachments on the local disk
 * Files live under <dir>/session_<id>/<messageId>.<ext>
 * Serving them is left to the web tier in front of the bridge
 */
type Store struct {
	downloader Downloader
	dir        string
	baseURL    string
	logger     zerolog.Logger
}

// NewStore creates a store writing below dir and linking below baseURL
func NewStore(downloader Downloader, dir, baseURL string) *Store {
	return &Store{
		downloader: downloader,
		dir:        dir,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log.With().Str("component", "media").Logger(),
	}
}

// Fetch downloads the attachment of evt and returns where it can be retrieved
func (s *Store) Fetch(ctx context.Context, evt event.Event) (event.MediaReference, error) {
	if evt.MessageID == "" {
		return event.MediaReference{}, fmt.Errorf("event %s has no source message", evt.ID)
	}

	m, err := s.downloader.DownloadMedia(ctx, evt.MessageID)
	if err != nil {
		return event.MediaReference{}, fmt.Errorf("downloading media: %w", err)
	}

	folder := SessionFolder(evt.SessionID)
	if err := os.MkdirAll(filepath.Join(s.dir, folder), 0755); err != nil {
		return event.MediaReference{}, fmt.Errorf("creating media directory: %w", err)
	}

	filename := FileName(evt.MessageID, m.MimeType)
	if err := os.WriteFile(filepath.Join(s.dir, folder, filename), m.Data, 0644); err != nil {
		return event.MediaReference{}, fmt.Errorf("saving media: %w", err)
	}

	s.logger.Debug().Int("session_id", evt.SessionID).Str("file", filename).Int("bytes", len(m.Data)).Msg("media saved")

	return event.MediaReference{
		URL:      fmt.Sprintf("%s/api/files/%s/%s", s.baseURL, folder, filename),
		Filename: filename,
		MimeType: m.MimeType,
	}, nil
}

// SessionFolder is the per-session directory name
func SessionFolder(sessionID int) string {
	return fmt.Sprintf("session_%d", sessionID)
}

// FileName names an attachment after its message and the MIME subtype, "dat" when unknown
func FileName(messageID, mimeType string) string {
	ext := "dat"
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	if _, sub, ok := strings.Cut(base, "/"); ok && sub != "" {
		ext = sub
	}
	return filepath.Base(messageID) + "." + ext
}
