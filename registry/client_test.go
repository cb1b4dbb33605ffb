package registry_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marcelsud/session-bridge/event"
	"github.com/marcelsud/session-bridge/registry"
	"github.com/marcelsud/session-bridge/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("qr_code is sent while qr_code_ready", func(t *testing.T) {
		var body map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/sessions/3/status", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := registry.NewClient(srv.URL+"/api/", time.Second)
		err := client.UpdateStatus(ctx, session.Session{ID: 3, Status: session.QRCodeReady, QRPayload: "data:image/png;base64,AAA"})

		require.NoError(t, err)
		assert.Equal(t, "qr_code_ready", body["status"])
		assert.Equal(t, "data:image/png;base64,AAA", body["qr_code"])
		_, hasData := body["session_data"]
		assert.False(t, hasData)
	})

	t.Run("qr_code is null otherwise", func(t *testing.T) {
		var body map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		}))
		defer srv.Close()

		client := registry.NewClient(srv.URL, time.Second)
		err := client.UpdateStatus(ctx, session.Session{ID: 3, Status: session.Connected, SessionData: "connected"})

		require.NoError(t, err)
		qr, present := body["qr_code"]
		assert.True(t, present)
		assert.Nil(t, qr)
		assert.Equal(t, "connected", body["session_data"])
	})

	t.Run("registry error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := registry.NewClient(srv.URL, time.Second)
		err := client.UpdateStatus(ctx, session.Session{ID: 3, Status: session.Connected})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("registry down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		client := registry.NewClient(srv.URL, time.Second)
		err := client.UpdateStatus(ctx, session.Session{ID: 3, Status: session.Connected})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "posting status")
	})
}

func TestClient_List(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes registry records", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/webhooks", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id": 1, "name": "n8n", "url": "https://n8n.example.com/hook", "session_id": 2,
				 "events": ["message", "include_headers"], "headers": {"X-Key": "k"}, "is_active": true,
				 "created_at": "2025-01-01T00:00:00", "updated_at": "2025-01-01T00:00:00"},
				{"id": 2, "name": "off", "url": "https://off.example.com", "session_id": 2,
				 "events": [], "headers": {}, "is_active": false}
			]`))
		}))
		defer srv.Close()

		client := registry.NewClient(srv.URL+"/api", time.Second)
		subs, err := client.List(ctx)

		require.NoError(t, err)
		require.Len(t, subs, 2)
		assert.Equal(t, 1, subs[0].ID)
		assert.Equal(t, 2, subs[0].SessionID)
		assert.Equal(t, []event.Type{event.Message}, subs[0].EventTypes)
		assert.True(t, subs[0].Options.IncludeRequestHeaders)
		assert.Equal(t, "k", subs[0].Headers["X-Key"])
		assert.True(t, subs[0].Active)
		assert.False(t, subs[1].Active)
		assert.Empty(t, subs[1].EventTypes)
	})

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := registry.NewClient(srv.URL, time.Second).List(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("bad body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not": "a list"}`))
		}))
		defer srv.Close()

		_, err := registry.NewClient(srv.URL, time.Second).List(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding webhooks")
	})
}
