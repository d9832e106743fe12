package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DeliveryTTL covers the platform's redelivery window.
	DeliveryTTL = 24 * time.Hour
	responseTTL = 10 * time.Minute
)

// RedisStore handles Redis operations for delivery tracking and caching.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// deliveryKey returns the key marking a webhook event as handled.
func deliveryKey(eventID string) string {
	return fmt.Sprintf("delivery:%s", eventID)
}

// responseKey returns the key caching a keyword's response.
func responseKey(keyword string) string {
	return fmt.Sprintf("keyword:%s", keyword)
}

// ClaimDelivery marks a webhook event as being handled. It returns false if
// the event was already claimed within ttl.
func (s *RedisStore) ClaimDelivery(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, deliveryKey(eventID), "1", ttl).Result()
}

// ReleaseDelivery drops a claim so a later redelivery is handled again.
func (s *RedisStore) ReleaseDelivery(ctx context.Context, eventID string) error {
	return s.client.Del(ctx, deliveryKey(eventID)).Err()
}

// CachedResponse returns a cached keyword response.
func (s *RedisStore) CachedResponse(ctx context.Context, keyword string) (string, bool, error) {
	val, err := s.client.Get(ctx, responseKey(keyword)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// CacheResponse caches a keyword response read from the database. It never
// replaces an entry, so a value written by SetResponse wins over a slower
// concurrent read.
func (s *RedisStore) CacheResponse(ctx context.Context, keyword, response string, ttl time.Duration) error {
	return s.client.SetNX(ctx, responseKey(keyword), response, ttl).Err()
}

// SetResponse replaces the cached response after a committed write.
func (s *RedisStore) SetResponse(ctx context.Context, keyword, response string, ttl time.Duration) error {
	return s.client.Set(ctx, responseKey(keyword), response, ttl).Err()
}
