//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/marcelsud/session-bridge/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirror_Integration(t *testing.T) {
	ctx := context.Background()

	redisContainer, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	t.Run("update and get", func(t *testing.T) {
		mirror := CreateTestMirror(t, redisContainer.Addr, time.Minute)
		defer mirror.Close()

		err := mirror.UpdateStatus(ctx, session.Session{ID: 4, Status: session.QRCodeReady, QRPayload: "data:..."})
		require.NoError(t, err)

		record, err := mirror.Get(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, record.SessionID)
		assert.Equal(t, session.QRCodeReady, record.Status)
		assert.True(t, record.HasQR)

		ttl := GetKeyTTL(t, redisContainer.Addr, "session:status:4")
		assert.True(t, ttl > 0 && ttl <= time.Minute)
	})

	t.Run("list returns every live session", func(t *testing.T) {
		mirror := CreateTestMirror(t, redisContainer.Addr, time.Minute)
		defer mirror.Close()

		require.NoError(t, mirror.UpdateStatus(ctx, session.Session{ID: 10, Status: session.Connected}))
		require.NoError(t, mirror.UpdateStatus(ctx, session.Session{ID: 11, Status: session.Disconnected}))

		records, err := mirror.List(ctx)
		require.NoError(t, err)

		byID := make(map[int]session.Status)
		for _, r := range records {
			byID[r.SessionID] = r.Status
		}
		assert.Equal(t, session.Connected, byID[10])
		assert.Equal(t, session.Disconnected, byID[11])
	})

	t.Run("remove", func(t *testing.T) {
		mirror := CreateTestMirror(t, redisContainer.Addr, time.Minute)
		defer mirror.Close()

		require.NoError(t, mirror.UpdateStatus(ctx, session.Session{ID: 20, Status: session.Connected}))
		require.NoError(t, mirror.Remove(ctx, 20))

		_, err := mirror.Get(ctx, 20)
		require.Error(t, err)
	})

	t.Run("records expire", func(t *testing.T) {
		mirror := CreateTestMirror(t, redisContainer.Addr, time.Second)
		defer mirror.Close()

		require.NoError(t, mirror.UpdateStatus(ctx, session.Session{ID: 30, Status: session.Connected}))
		time.Sleep(1500 * time.Millisecond)

		_, err := mirror.Get(ctx, 30)
		require.Error(t, err)
	})
}
