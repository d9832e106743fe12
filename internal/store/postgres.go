package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eldtechnologies/keywordbot/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS keyword_responses (
	keyword TEXT NOT NULL UNIQUE,
	response TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS handled_events (
	event_id TEXT PRIMARY KEY,
	expires_at TIMESTAMPTZ NOT NULL
);
`

// RunMigrations creates the keyword and delivery tables if they do not exist.
func RunMigrations(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Lookup returns the response stored for keyword.
func (s *PostgresStore) Lookup(ctx context.Context, keyword string) (string, bool, error) {
	defer observe("postgres", "lookup", time.Now())

	var response string
	err := s.pool.QueryRow(ctx, `
		SELECT response FROM keyword_responses WHERE keyword = $1
	`, keyword).Scan(&response)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return response, true, nil
}

// Insert stores response under keyword, replacing any previous response.
func (s *PostgresStore) Insert(ctx context.Context, keyword, response string) error {
	if strings.TrimSpace(keyword) == "" {
		return ErrEmptyKeyword
	}
	defer observe("postgres", "insert", time.Now())

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO keyword_responses (keyword, response)
		VALUES ($1, $2)
		ON CONFLICT (keyword) DO UPDATE SET
			response = EXCLUDED.response,
			updated_at = now()
	`, keyword, response)
	if err != nil {
		return fmt.Errorf("upsert keyword: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit keyword: %w", err)
	}
	return nil
}

// Count returns the number of stored keywords.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM keyword_responses`).Scan(&count)
	return count, err
}

// List retrieves keywords in alphabetical order with pagination.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]models.KeywordResponse, int, error) {
	var total int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM keyword_responses`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT keyword, response, created_at, updated_at
		FROM keyword_responses
		ORDER BY keyword
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var keywords []models.KeywordResponse
	for rows.Next() {
		var kr models.KeywordResponse
		if err := rows.Scan(&kr.Keyword, &kr.Response, &kr.CreatedAt, &kr.UpdatedAt); err != nil {
			return nil, 0, err
		}
		keywords = append(keywords, kr)
	}

	return keywords, total, rows.Err()
}

// ClaimDelivery marks a webhook event as being handled. It returns false if
// the event was already claimed and the claim has not expired.
func (s *PostgresStore) ClaimDelivery(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	if _, err := s.pool.Exec(ctx, `DELETE FROM handled_events WHERE expires_at <= now()`); err != nil {
		return false, fmt.Errorf("prune deliveries: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO handled_events (event_id, expires_at)
		VALUES ($1, now() + $2::interval)
		ON CONFLICT (event_id) DO UPDATE SET
			expires_at = EXCLUDED.expires_at
		WHERE handled_events.expires_at <= now()
	`, eventID, ttl)
	if err != nil {
		return false, fmt.Errorf("claim delivery: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseDelivery drops a claim so a later redelivery is handled again.
func (s *PostgresStore) ReleaseDelivery(ctx context.Context, eventID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM handled_events WHERE event_id = $1`, eventID)
	return err
}
