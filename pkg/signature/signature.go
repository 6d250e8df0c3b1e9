// Package signature computes and checks the HMAC-SHA256 digests that the
// scheduling application attaches to outgoing webhooks.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Header carries the hex encoded HMAC-SHA256 of the raw request body.
const Header = "X-Cal-Signature-256"

const prefix = "sha256="

// Compute returns the lowercase hex HMAC-SHA256 of body keyed with secret.
func Compute(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether received is a valid digest of body. The digest may
// carry a "sha256=" prefix and either hex case. The bytes must be exactly
// what was received on the wire.
func Verify(secret string, body []byte, received string) bool {
	if secret == "" {
		return false
	}

	received = strings.TrimSpace(received)
	received = strings.TrimPrefix(received, prefix)
	if received == "" {
		return false
	}

	decoded, err := hex.DecodeString(received)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}
