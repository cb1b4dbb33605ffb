package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// SecretPrefix is the prefix for Standard Webhooks symmetric secrets
	SecretPrefix = "whsec_"

	// Version is the identifier of symmetric signatures
	Version = "v1"

	MinSecretBytes = 24
	MaxSecretBytes = 64

	HeaderID        = "webhook-id"
	HeaderTimestamp = "webhook-timestamp"
	HeaderSignature = "webhook-signature"
)

// Secret is a Standard Webhooks signing secret
type Secret struct {
	raw     []byte
	encoded string
}

// GenerateSecret creates a random secret of size bytes
func GenerateSecret(size int) (Secret, error) {
	if size < MinSecretBytes || size > MaxSecretBytes {
		return Secret{}, fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}

	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return Secret{}, fmt.Errorf("generating random bytes: %w", err)
	}

	return Secret{raw: raw, encoded: SecretPrefix + base64.StdEncoding.EncodeToString(raw)}, nil
}

// ParseSecret parses a whsec_ prefixed base64 secret
func ParseSecret(encoded string) (Secret, error) {
	b64, ok := strings.CutPrefix(encoded, SecretPrefix)
	if !ok {
		return Secret{}, fmt.Errorf("secret must start with %s prefix", SecretPrefix)
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Secret{}, fmt.Errorf("decoding base64 secret: %w", err)
	}
	if len(raw) < MinSecretBytes || len(raw) > MaxSecretBytes {
		return Secret{}, fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}

	return Secret{raw: raw, encoded: encoded}, nil
}

// String returns the prefixed encoding of the secret
func (s Secret) String() string {
	return s.encoded
}

// IsZero reports whether no secret is configured
func (s Secret) IsZero() bool {
	return len(s.raw) == 0
}

// Sign computes the v1 signature of msgID.timestamp.payload
func Sign(secret Secret, msgID string, timestamp time.Time, payload []byte) string {
	mac := hmac.New(sha256.New, secret.raw)
	fmt.Fprintf(mac, "%s.%d.", msgID, timestamp.Unix())
	mac.Write(payload)
	return Version + "," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

/* Verify checks a webhook-signature header value
 * The header may hold several space separated signatures, any v1 match is accepted
 * Timestamps further than tolerance from now are rejected
 */
func Verify(secret Secret, msgID string, timestamp time.Time, payload []byte, header string, tolerance time.Duration) error {
	if tolerance > 0 {
		if d := time.Since(timestamp); d > tolerance || d < -tolerance {
			return fmt.Errorf("timestamp outside tolerance: %s", timestamp.Format(time.RFC3339))
		}
	}

	expected := Sign(secret, msgID, timestamp, payload)
	for _, sig := range strings.Fields(header) {
		if !strings.HasPrefix(sig, Version+",") {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1 {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}

// Apply sets the Standard Webhooks headers of a signed request
func Apply(h http.Header, secret Secret, msgID string, timestamp time.Time, payload []byte) {
	h.Set(HeaderID, msgID)
	h.Set(HeaderTimestamp, strconv.FormatInt(timestamp.Unix(), 10))
	h.Set(HeaderSignature, Sign(secret, msgID, timestamp, payload))
}

// ParseTimestamp reads a webhook-timestamp header value
func ParseTimestamp(v string) (time.Time, error) {
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return time.Unix(sec, 0), nil
}
