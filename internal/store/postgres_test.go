package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/agentoven/concierge/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set CONCIERGE_TEST_POSTGRES_URL to run against a real database.
func newPostgresKV(t *testing.T) *store.PostgresKV {
	t.Helper()
	url := os.Getenv("CONCIERGE_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("CONCIERGE_TEST_POSTGRES_URL not set")
	}
	kv, err := store.NewPostgresKV(context.Background(), url)
	require.NoError(t, err)
	return kv
}

func TestPostgresKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newPostgresKV(t)
	defer kv.Close()

	key := "test/" + t.Name()
	require.NoError(t, kv.Set(ctx, key, []byte(`{"a":1}`)))
	require.NoError(t, kv.Set(ctx, key, []byte(`{"a":2,"b":[true]}`)))

	got, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":2,"b":[true]}`, string(got))

	_, ok, err = kv.Get(ctx, "test/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresKV_RepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository(newPostgresKV(t))
	defer repo.Close()

	require.NoError(t, repo.SaveTraining(ctx, nil))
	items, ok, err := repo.LoadTraining(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, items)
}

func TestNewPostgresKV_Unreachable(t *testing.T) {
	_, err := store.NewPostgresKV(context.Background(), "postgres://concierge@127.0.0.1:1/concierge?connect_timeout=1")
	assert.Error(t, err)
}
