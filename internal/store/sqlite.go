package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eldtechnologies/keywordbot/internal/metrics"
	"github.com/eldtechnologies/keywordbot/internal/models"
)

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/bot.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/bot.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS keyword_responses (
		keyword TEXT NOT NULL UNIQUE,
		response TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS handled_events (
		event_id TEXT PRIMARY KEY,
		expires_at INTEGER NOT NULL
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Lookup returns the response stored for keyword.
func (s *SQLiteStore) Lookup(ctx context.Context, keyword string) (string, bool, error) {
	defer observe("sqlite", "lookup", time.Now())

	var response string
	err := s.db.QueryRowContext(ctx, `
		SELECT response FROM keyword_responses WHERE keyword = ?
	`, keyword).Scan(&response)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return response, true, nil
}

// Insert stores response under keyword, replacing any previous response.
func (s *SQLiteStore) Insert(ctx context.Context, keyword, response string) error {
	if strings.TrimSpace(keyword) == "" {
		return ErrEmptyKeyword
	}
	defer observe("sqlite", "insert", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO keyword_responses (keyword, response, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(keyword) DO UPDATE SET
			response = excluded.response,
			updated_at = excluded.updated_at
	`, keyword, response, now, now)
	if err != nil {
		return fmt.Errorf("upsert keyword: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit keyword: %w", err)
	}
	return nil
}

// Count returns the number of stored keywords.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM keyword_responses`).Scan(&count)
	return count, err
}

// List retrieves keywords in alphabetical order with pagination.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]models.KeywordResponse, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM keyword_responses`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword, response, created_at, updated_at
		FROM keyword_responses
		ORDER BY keyword
		LIMIT ? OFFSET ?
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
func (s *SQLiteStore) ClaimDelivery(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	now := time.Now()

	// Expired claims are only housekeeping; the upsert below ignores them.
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM handled_events WHERE expires_at <= ?
	`, now.UnixMilli()); err != nil {
		return false, fmt.Errorf("prune deliveries: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO handled_events (event_id, expires_at)
		VALUES (?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			expires_at = excluded.expires_at
		WHERE handled_events.expires_at <= ?
	`, eventID, now.Add(ttl).UnixMilli(), now.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("claim delivery: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReleaseDelivery drops a claim so a later redelivery is handled again.
func (s *SQLiteStore) ReleaseDelivery(ctx context.Context, eventID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM handled_events WHERE event_id = ?`, eventID)
	return err
}

func observe(backend, op string, start time.Time) {
	metrics.StoreLatency.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}
