// Package store provides the persistence boundary for the concierge hub.
//
// Persistence is a flat key-value store holding two documents: the agent
// collection and the training collection. KV backends are interchangeable
// (in-memory with a JSON snapshot file, or SQLite); Repository layers the
// typed load/save operations and merge-on-load logic on top.
package store

import (
	"context"
	"fmt"

	"github.com/agentoven/concierge/pkg/models"
)

// Fixed keys of the two persisted documents.
const (
	AgentsKey   = "concierge/agents"
	TrainingKey = "concierge/training"
)

// KV is a process-wide key-value store.
type KV interface {
	// Get returns the value for key. A missing key is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the store.
	Close() error
}

// AgentSnapshot is the persisted shape of the agent collection.
type AgentSnapshot struct {
	Master    models.Agent   `json:"master"`
	Delegates []models.Agent `json:"delegates"`
}

// Repository loads and saves the hub's collections.
type Repository interface {
	// LoadAgents reads the agent collection, merging each stored agent onto
	// the default with the same id so fields missing from old data keep
	// their default values. ok is false when nothing was stored.
	LoadAgents(ctx context.Context, defaults AgentSnapshot) (snap AgentSnapshot, ok bool, err error)
	SaveAgents(ctx context.Context, snap AgentSnapshot) error

	// LoadTraining reads the training collection. ok is false when nothing
	// was stored.
	LoadTraining(ctx context.Context) (items []models.TrainingItem, ok bool, err error)
	SaveTraining(ctx context.Context, items []models.TrainingItem) error

	// Ping checks the underlying KV.
	Ping(ctx context.Context) error
	Close() error
}

// ErrCorrupt is returned when a stored document cannot be decoded.
type ErrCorrupt struct {
	Key string
	Err error
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("corrupt document %q: %v", e.Key, e.Err)
}

func (e *ErrCorrupt) Unwrap() error { return e.Err }
