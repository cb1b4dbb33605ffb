package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/session-bridge/session"
	"github.com/marcelsud/session-bridge/subscription"
	_ "github.com/mattn/go-sqlite3"
)

/* Store reads and writes the dashboard's own SQLite database
 * Used when the bridge runs next to the dashboard without its HTTP API
 * Table names follow the dashboard schema: whats_app_session and webhook
 */
type Store struct {
	db *sql.DB
}

// Open opens the database file at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening registry database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return NewStore(db), nil
}

// NewStore wraps an open database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpdateStatus writes status, qr_code and session_data of the session row
func (s *Store) UpdateStatus(ctx context.Context, sess session.Session) error {
	var qr, data sql.NullString
	if sess.QRPayload != "" {
		qr = sql.NullString{String: sess.QRPayload, Valid: true}
	}
	if sess.SessionData != "" {
		data = sql.NullString{String: sess.SessionData, Valid: true}
	}

	query := `UPDATE whats_app_session SET status = ?, qr_code = ?, session_data = COALESCE(?, session_data), updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, sess.Status.String(), qr, data, time.Now().UTC(), sess.ID)
	if err != nil {
		return fmt.Errorf("updating session status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating session status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %d not found", sess.ID)
	}
	return nil
}

// List returns every webhook row
func (s *Store) List(ctx context.Context) ([]subscription.Subscription, error) {
	query := `SELECT id, name, url, session_id, events, headers, is_active FROM webhook ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying webhooks: %w", err)
	}
	defer rows.Close()

	var subs []subscription.Subscription
	for rows.Next() {
		var (
			sub             subscription.Subscription
			events, headers sql.NullString
		)
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.URL, &sub.SessionID, &events, &headers, &sub.Active); err != nil {
			return nil, fmt.Errorf("scanning webhook: %w", err)
		}

		// The dashboard stores empty columns as NULL and treats them as empty collections
		tokens := []string{}
		if events.Valid && events.String != "" {
			if err := json.Unmarshal([]byte(events.String), &tokens); err != nil {
				return nil, fmt.Errorf("webhook %d: decoding events: %w", sub.ID, err)
			}
		}
		sub.EventTypes, sub.Options = subscription.ParseTokens(tokens)

		if headers.Valid && headers.String != "" {
			if err := json.Unmarshal([]byte(headers.String), &sub.Headers); err != nil {
				return nil, fmt.Errorf("webhook %d: decoding headers: %w", sub.ID, err)
			}
		}

		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating webhooks: %w", err)
	}
	return subs, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
