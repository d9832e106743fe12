package store

import (
	"context"
	"errors"
	"time"

	"github.com/eldtechnologies/keywordbot/internal/models"
)

// ErrEmptyKeyword is returned by Insert when the keyword is blank.
var ErrEmptyKeyword = errors.New("keyword must not be empty")

// KeywordStore defines the interface for persistent keyword responses.
// SQLiteStore, PostgresStore and CachedStore implement this interface.
//
// Insert overwrites the response of an existing keyword. It runs in a single
// transaction and leaves the table untouched when it fails.
type KeywordStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Keyword operations
	Lookup(ctx context.Context, keyword string) (string, bool, error)
	Insert(ctx context.Context, keyword, response string) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit, offset int) ([]models.KeywordResponse, int, error)
}

// DeliveryLedger records which webhook events have been answered, so a
// platform redelivery does not use a reply token twice.
// RedisStore, SQLiteStore and PostgresStore implement this interface.
type DeliveryLedger interface {
	// ClaimDelivery returns false if eventID was already claimed within ttl.
	ClaimDelivery(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	// ReleaseDelivery drops a claim so a later redelivery is handled again.
	ReleaseDelivery(ctx context.Context, eventID string) error
}
