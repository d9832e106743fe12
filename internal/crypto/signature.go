package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// SignatureHeader is the header LINE puts the body signature in.
const SignatureHeader = "X-Line-Signature"

// Sign returns the base64-encoded HMAC-SHA256 of body keyed by the channel
// secret, the value LINE sends in SignatureHeader. Verification is done by
// the LINE SDK (webhook.ValidateSignature).
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// NewChannelSecret generates a random 32 hex character secret, the shape of
// a real channel secret, for local testing.
func NewChannelSecret() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
