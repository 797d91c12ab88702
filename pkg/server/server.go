// Package server provides the public entry point for initializing the
// concierge service.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	defer srv.Close(ctx)
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/agentoven/concierge/internal/api"
	"github.com/agentoven/concierge/internal/api/handlers"
	"github.com/agentoven/concierge/internal/config"
	"github.com/agentoven/concierge/internal/hub"
	"github.com/agentoven/concierge/internal/seed"
	"github.com/agentoven/concierge/internal/store"
	"github.com/agentoven/concierge/internal/telemetry"

	"github.com/rs/zerolog/log"
)

// Server holds the initialized concierge service.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Hub is the facade over agents, training and redaction.
	Hub *hub.Hub

	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc flushes telemetry on graceful shutdown.
	ShutdownFunc func(context.Context) error
}

// New loads configuration from the environment and builds a Server.
func New(ctx context.Context) (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig builds a Server from an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	h, err := OpenHub(ctx, cfg)
	if err != nil {
		shutdown(ctx)
		return nil, err
	}

	router := api.NewRouter(cfg, handlers.New(h, cfg.Version))
	log.Info().
		Bool("auth", len(cfg.Auth.APIKeys) > 0).
		Msg("API router initialized")

	return &Server{
		Handler:      router,
		Hub:          h,
		Config:       cfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}

// Close releases the hub and flushes telemetry.
func (s *Server) Close(ctx context.Context) error {
	return errors.Join(s.Hub.Close(), s.ShutdownFunc(ctx))
}

// OpenHub loads seed data, opens the configured store and builds the hub.
func OpenHub(ctx context.Context, cfg *config.Config) (*hub.Hub, error) {
	defaults, err := loadSeed(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	kv, err := OpenKV(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	return hub.New(ctx, store.NewRepository(kv), defaults,
		hub.WithPromptTrainingLimit(cfg.PromptTrainingLimit),
	), nil
}

// OpenKV opens the key-value backend named by cfg.Backend.
func OpenKV(ctx context.Context, cfg config.StoreConfig) (store.KV, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		kv, err := store.NewPostgresKV(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return kv, nil
	case config.BackendSQLite:
		kv, err := store.NewSQLiteKV(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return kv, nil
	case config.BackendMemory, "":
		return store.NewMemoryKV(cfg.DataDir, cfg.SaveDebounce), nil
	default:
		return nil, fmt.Errorf("open store: unknown backend %q", cfg.Backend)
	}
}

func loadSeed(path string) (seed.Data, error) {
	if path == "" {
		return seed.Load()
	}
	d, err := seed.LoadFile(path)
	if err != nil {
		return seed.Data{}, err
	}
	log.Info().Str("path", path).Msg("Seed data loaded from file")
	return d, nil
}
