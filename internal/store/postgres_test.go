package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	require.NoError(t, RunMigrations(ctx, url))
	s, err := NewPostgresStore(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.pool.Exec(ctx, `DELETE FROM keyword_responses WHERE keyword LIKE 'pgtest-%'`)
	require.NoError(t, err)

	require.NoError(t, s.Insert(ctx, "pgtest-foo", "bar"))
	require.NoError(t, s.Insert(ctx, "pgtest-foo", "baz"))
	assert.ErrorIs(t, s.Insert(ctx, "", "x"), ErrEmptyKeyword)

	resp, ok, err := s.Lookup(ctx, "pgtest-foo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "baz", resp)

	_, ok, err = s.Lookup(ctx, "pgtest-missing")
	require.NoError(t, err)
	assert.False(t, ok)

	list, total, err := s.List(ctx, 100, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 1)
	assert.NotEmpty(t, list)

	require.NoError(t, s.ReleaseDelivery(ctx, "pgtest-evt"))
	claimed, err := s.ClaimDelivery(ctx, "pgtest-evt", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = s.ClaimDelivery(ctx, "pgtest-evt", time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)
	require.NoError(t, s.ReleaseDelivery(ctx, "pgtest-evt"))
}
