package crypto

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewEventID returns a time-ordered webhook event id as uppercase hex.
func NewEventID() string {
	id := uuid.Must(uuid.NewV7())
	return strings.ToUpper(hex.EncodeToString(id[:]))
}

// NewReplyToken returns a random opaque reply token.
func NewReplyToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
