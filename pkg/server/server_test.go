package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentoven/concierge/internal/config"
	"github.com/agentoven/concierge/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:                8080,
		Version:             "test",
		PromptTrainingLimit: 5,
		Store: config.StoreConfig{
			Backend:      config.BackendMemory,
			DataDir:      t.TempDir(),
			SaveDebounce: 10 * time.Millisecond,
		},
	}
}

func TestNewWithConfig(t *testing.T) {
	ctx := context.Background()
	srv, err := server.NewWithConfig(ctx, testConfig(t))
	require.NoError(t, err)
	defer srv.Close(ctx)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 8080, srv.Port)
}

func TestOpenHub_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Store.Backend = config.BackendSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "concierge.db")

	h, err := server.OpenHub(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, h.Ping(ctx))
	assert.NotEmpty(t, h.Agents())
	require.NoError(t, h.Close())
}

func TestOpenHub_SeedFile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte("master:\n  id: master\n  name: From File\n"), 0644))

	h, err := server.OpenHub(ctx, cfg)
	require.NoError(t, err)
	defer h.Close()
	assert.Equal(t, "From File", h.Master().Name)

	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = server.OpenHub(ctx, cfg)
	assert.Error(t, err)
}

func TestOpenKV_UnknownBackend(t *testing.T) {
	_, err := server.OpenKV(context.Background(), config.StoreConfig{Backend: "redis"})
	assert.Error(t, err)
}

func TestOpenKV_PostgresUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := server.OpenKV(ctx, config.StoreConfig{
		Backend:     config.BackendPostgres,
		PostgresURL: "postgres://concierge@127.0.0.1:1/concierge?connect_timeout=1",
	})
	assert.Error(t, err)
}
