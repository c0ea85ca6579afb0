package types

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const signaturePrefix = "sha256="

// ErrInvalidSignatureInput is returned when a signature has odd length or contains non-ASCII bytes.
var ErrInvalidSignatureInput = errors.New("signature must be an even-length ASCII hex string")

// NonHexCharacterError is returned when a pair of characters in a signature is not valid hex.
type NonHexCharacterError struct {
	Pair string
}

func (e *NonHexCharacterError) Error() string {
	return fmt.Sprintf("non-hex character pair %q in signature", e.Pair)
}

// WebhookSignature is the raw HMAC-SHA256 digest sent in the X-Hub-Signature-256 header.
type WebhookSignature []byte

// ParseWebhookSignature decodes a header value of the form "sha256=<hex>" or "<hex>".
func ParseWebhookSignature(header string) (WebhookSignature, error) {
	hexString := strings.TrimPrefix(header, signaturePrefix)

	if len(hexString)%2 != 0 {
		return nil, ErrInvalidSignatureInput
	}

	// Non-ASCII input is rejected as a whole before any pair is decoded
	for i := 0; i < len(hexString); i++ {
		if hexString[i] >= 0x80 {
			return nil, ErrInvalidSignatureInput
		}
	}

	sig := make(WebhookSignature, 0, len(hexString)/2)
	for i := 0; i < len(hexString); i += 2 {
		pair := hexString[i : i+2]
		b, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return nil, &NonHexCharacterError{Pair: pair}
		}
		sig = append(sig, byte(b))
	}

	return sig, nil
}

// WebhookSecret is the shared secret configured for the GitHub App webhook.
// The type is redacted when logged.
type WebhookSecret string

// NewWebhookSecret creates a WebhookSecret
func NewWebhookSecret(secret string) WebhookSecret {
	return WebhookSecret(secret)
}

// Verify reports whether sig is the HMAC-SHA256 of payload keyed by the secret.
// Comparison is constant time.
func (s WebhookSecret) Verify(payload []byte, sig WebhookSignature) bool {
	mac := hmac.New(sha256.New, []byte(s))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), sig)
}
