package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marcelsud/session-bridge/session"
	"github.com/marcelsud/session-bridge/subscription"
)

/* Client talks to the session registry over HTTP
 * It is both the status writer and the subscription source of a bridge process
 */
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the registry API rooted at baseURL, e.g. http://localhost:5000/api
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// statusRequest is the body of POST /sessions/{id}/status.
// qr_code is always sent so the registry clears it outside qr_code_ready
type statusRequest struct {
	Status      string  `json:"status"`
	QRCode      *string `json:"qr_code"`
	SessionData string  `json:"session_data,omitempty"`
}

// webhookRecord is one element of GET /webhooks
type webhookRecord struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	URL       string            `json:"url"`
	SessionID int               `json:"session_id"`
	Events    []string          `json:"events"`
	Headers   map[string]string `json:"headers"`
	IsActive  bool              `json:"is_active"`
}

// UpdateStatus pushes the session state
func (c *Client) UpdateStatus(ctx context.Context, s session.Session) error {
	body := statusRequest{
		Status:      s.Status.String(),
		SessionData: s.SessionData,
	}
	if s.QRPayload != "" {
		body.QRCode = &s.QRPayload
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}

	url := fmt.Sprintf("%s/sessions/%d/status", c.baseURL, s.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting status: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("posting status: registry returned %d", resp.StatusCode)
	}
	return nil
}

// List fetches every registered webhook
func (c *Client) List(ctx context.Context) ([]subscription.Subscription, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/webhooks", nil)
	if err != nil {
		return nil, fmt.Errorf("creating webhooks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching webhooks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching webhooks: registry returned %d", resp.StatusCode)
	}

	var records []webhookRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding webhooks: %w", err)
	}

	subs := make([]subscription.Subscription, 0, len(records))
	for _, r := range records {
		types, opts := subscription.ParseTokens(r.Events)
		subs = append(subs, subscription.Subscription{
			ID:         r.ID,
			Name:       r.Name,
			SessionID:  r.SessionID,
			URL:        r.URL,
			EventTypes: types,
			Options:    opts,
			Headers:    r.Headers,
			Active:     r.IsActive,
		})
	}
	return subs, nil
}
