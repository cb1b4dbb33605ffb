package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/marcelsud/session-bridge/driver"
)

// DefaultMimeType is assumed for bare base64 images
const DefaultMimeType = "image/jpeg"

// maxImageBytes caps remote downloads
const maxImageBytes = 16 << 20

var dataURL = regexp.MustCompile(`^data:([A-Za-z-+/]+);base64,(.+)$`)

// ErrTooLarge is returned when a remote image exceeds maxImageBytes
var ErrTooLarge = fmt.Errorf("image exceeds %d MiB", maxImageBytes>>20)

// ErrNoImage is returned when neither a URL nor base64 data is given
var ErrNoImage = errors.New("imageUrl or imageBase64 is required")

// Loader turns send-image inputs into driver media
type Loader struct {
	client *http.Client
}

// NewLoader creates a loader whose remote fetches time out after timeout
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// Load prefers imageURL and falls back to imageBase64
func (l *Loader) Load(ctx context.Context, imageURL, imageBase64 string) (driver.Media, error) {
	switch {
	case imageURL != "":
		return l.FromURL(ctx, imageURL)
	case imageBase64 != "":
		return FromBase64(imageBase64)
	default:
		return driver.Media{}, ErrNoImage
	}
}

// FromURL downloads an image
func (l *Loader) FromURL(ctx context.Context, rawURL string) (driver.Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return driver.Media{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return driver.Media{}, fmt.Errorf("downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return driver.Media{}, fmt.Errorf("downloading image: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return driver.Media{}, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > maxImageBytes {
		return driver.Media{}, ErrTooLarge
	}

	mimeType := strings.TrimSpace(strings.SplitN(resp.Header.Get("Content-Type"), ";", 2)[0])
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	return driver.Media{MimeType: mimeType, Filename: fileNameFromURL(rawURL), Data: data}, nil
}

// FromBase64 decodes a data URL or a bare base64 string
func FromBase64(s string) (driver.Media, error) {
	mimeType, b64 := DefaultMimeType, s
	if m := dataURL.FindStringSubmatch(s); m != nil {
		mimeType, b64 = m[1], m[2]
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return driver.Media{}, fmt.Errorf("decoding base64 image: %w", err)
	}
	return driver.Media{MimeType: mimeType, Data: data}, nil
}

func fileNameFromURL(rawURL string) string {
	rawURL = strings.SplitN(rawURL, "?", 2)[0]
	if i := strings.LastIndex(rawURL, "/"); i >= 0 {
		return rawURL[i+1:]
	}
	return ""
}
