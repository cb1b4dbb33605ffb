package signature

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	t.Run("success - round trips through ParseSecret", func(t *testing.T) {
		secret, err := GenerateSecret(32)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(secret.String(), SecretPrefix))

		parsed, err := ParseSecret(secret.String())
		require.NoError(t, err)
		assert.Equal(t, secret.raw, parsed.raw)
	})

	t.Run("error - size out of range", func(t *testing.T) {
		_, err := GenerateSecret(8)
		require.Error(t, err)
		_, err = GenerateSecret(128)
		require.Error(t, err)
	})
}

func TestParseSecret(t *testing.T) {
	t.Run("error - missing prefix", func(t *testing.T) {
		_, err := ParseSecret("abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prefix")
	})

	t.Run("error - invalid base64", func(t *testing.T) {
		_, err := ParseSecret(SecretPrefix + "!!!")
		require.Error(t, err)
	})

	t.Run("error - too short", func(t *testing.T) {
		_, err := ParseSecret(SecretPrefix + "c2hvcnQ=")
		require.Error(t, err)
	})
}

func TestSignVerify(t *testing.T) {
	secret, err := GenerateSecret(24)
	require.NoError(t, err)
	now := time.Now()
	body := []byte(`{"type":"message"}`)

	sig := Sign(secret, "evt_1", now, body)
	assert.True(t, strings.HasPrefix(sig, "v1,"))

	t.Run("success - matching signature", func(t *testing.T) {
		require.NoError(t, Verify(secret, "evt_1", now, body, sig, 5*time.Minute))
	})

	t.Run("success - one of several signatures", func(t *testing.T) {
		require.NoError(t, Verify(secret, "evt_1", now, body, "v1,Zm9v "+sig, 5*time.Minute))
	})

	t.Run("error - tampered payload", func(t *testing.T) {
		require.Error(t, Verify(secret, "evt_1", now, []byte(`{}`), sig, 5*time.Minute))
	})

	t.Run("error - stale timestamp", func(t *testing.T) {
		old := now.Add(-time.Hour)
		require.Error(t, Verify(secret, "evt_1", old, body, Sign(secret, "evt_1", old, body), 5*time.Minute))
	})
}

func TestApply(t *testing.T) {
	secret, err := GenerateSecret(24)
	require.NoError(t, err)
	now := time.Unix(1700000000, 0)
	h := http.Header{}

	Apply(h, secret, "evt_2", now, []byte("x"))

	assert.Equal(t, "evt_2", h.Get(HeaderID))
	assert.Equal(t, "1700000000", h.Get(HeaderTimestamp))
	ts, err := ParseTimestamp(h.Get(HeaderTimestamp))
	require.NoError(t, err)
	require.NoError(t, Verify(secret, "evt_2", ts, []byte("x"), h.Get(HeaderSignature), 0))
}
