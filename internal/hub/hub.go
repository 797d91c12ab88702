// Package hub is the single entry point to the agent hierarchy, the
// training catalog and profile redaction.
//
// Every mutation runs under one global write lock and is followed by a save
// of the affected collection. Saves are best effort: a failure is logged and
// the in-memory state stays as it is.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/agentoven/concierge/internal/registry"
	"github.com/agentoven/concierge/internal/seed"
	"github.com/agentoven/concierge/internal/store"
	"github.com/agentoven/concierge/internal/training"
	"github.com/agentoven/concierge/pkg/models"
	"github.com/rs/zerolog/log"
)

// DefaultPromptTrainingLimit is the number of training items folded into a
// system prompt when no limit is configured.
const DefaultPromptTrainingLimit = 5

// Hub composes the registry, the catalog and the redactor.
type Hub struct {
	mu       sync.RWMutex
	agents   *registry.Registry
	training *training.Catalog

	repo        store.Repository
	promptLimit int
}

type options struct {
	promptLimit int
	now         func() time.Time
	newID       func() string
}

// Option configures a Hub.
type Option func(*options)

// WithPromptTrainingLimit sets how many effective training items
// SystemPrompt includes. Zero leaves training out.
func WithPromptTrainingLimit(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.promptLimit = n
		}
	}
}

// WithClock overrides the time source for agents and training.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides how agent, item and version ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// New loads stored state from repo, merges it onto defaults and returns a
// ready hub. Load failures fall back to defaults. The hub owns repo and
// closes it on Close.
func New(ctx context.Context, repo store.Repository, defaults seed.Data, opts ...Option) *Hub {
	o := options{promptLimit: DefaultPromptTrainingLimit}
	for _, opt := range opts {
		opt(&o)
	}

	var regOpts []registry.Option
	var catOpts []training.Option
	if o.now != nil {
		regOpts = append(regOpts, registry.WithClock(o.now))
		catOpts = append(catOpts, training.WithClock(o.now))
	}
	if o.newID != nil {
		regOpts = append(regOpts, registry.WithIDGenerator(o.newID))
		catOpts = append(catOpts, training.WithIDGenerator(o.newID))
	}

	h := &Hub{repo: repo, promptLimit: o.promptLimit}

	snap, agentsLoaded := h.loadAgents(ctx, defaults)
	added := 0
	if agentsLoaded {
		snap.Delegates, added = migrateSeedDelegates(snap.Delegates, defaults.Delegates)
	}
	h.agents = registry.New(snap.Master, snap.Delegates, regOpts...)
	if added > 0 {
		h.saveAgents(ctx)
	}

	items, loaded := h.loadTraining(ctx, defaults)
	h.training = training.NewCatalog(items, catOpts...)
	if loaded && h.migrateSeedTraining(defaults.Training) > 0 {
		h.saveTraining(ctx)
	}

	log.Info().
		Int("delegates", len(h.agents.Delegates())).
		Int("training", len(h.training.All())).
		Msg("Hub ready")
	return h
}

// loadAgents returns the stored agents merged onto the seed, or the seed
// when nothing was stored. loaded reports whether the agents came from the
// repository.
func (h *Hub) loadAgents(ctx context.Context, defaults seed.Data) (snap store.AgentSnapshot, loaded bool) {
	def := store.AgentSnapshot{Master: defaults.Master, Delegates: defaults.Delegates}
	snap, ok, err := h.repo.LoadAgents(ctx, def)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load agents, using defaults")
		return def, false
	}
	if !ok {
		log.Info().Msg("No stored agents, starting from defaults")
		return def, false
	}
	log.Info().Int("delegates", len(snap.Delegates)).Msg("Agents loaded")
	return snap, true
}

// migrateSeedDelegates appends seed delegates whose id is missing from the
// stored list, keeping stored order in front.
func migrateSeedDelegates(stored, seedDelegates []models.Agent) ([]models.Agent, int) {
	have := make(map[string]bool, len(stored))
	for _, a := range stored {
		have[a.ID] = true
	}
	n := 0
	for _, a := range seedDelegates {
		if have[a.ID] {
			continue
		}
		stored = append(stored, a.Clone())
		have[a.ID] = true
		n++
	}
	if n > 0 {
		log.Info().Int("delegates", n).Msg("Migrated seed delegates into stored agents")
	}
	return stored, n
}

// loadTraining returns the stored items, or the seed items when nothing was
// stored. loaded reports whether the items came from the repository.
func (h *Hub) loadTraining(ctx context.Context, defaults seed.Data) (items []models.TrainingItem, loaded bool) {
	stored, ok, err := h.repo.LoadTraining(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load training, using defaults")
		return defaults.Training, false
	}
	if !ok {
		log.Info().Msg("No stored training, starting from defaults")
		return defaults.Training, false
	}

	items = make([]models.TrainingItem, 0, len(stored))
	for _, it := range stored {
		if it.Len() == 0 {
			log.Warn().Str("item", it.ID).Msg("Dropping stored training item without versions")
			continue
		}
		if !it.Consistent() {
			log.Warn().
				Str("item", it.ID).
				Str("published", it.PublishedID).
				Msg("Published version missing, publishing latest")
			it.Publish("")
		}
		items = append(items, it)
	}
	log.Info().Int("items", len(items)).Msg("Training loaded")
	return items, true
}

// migrateSeedTraining injects seed items missing from the catalog and
// returns how many were added.
func (h *Hub) migrateSeedTraining(seedItems []models.TrainingItem) int {
	n := 0
	for _, it := range seedItems {
		if h.training.Has(it.ID) {
			continue
		}
		h.training.Insert(it)
		n++
	}
	if n > 0 {
		log.Info().Int("items", n).Msg("Migrated seed training into stored catalog")
	}
	return n
}

// saveAgents persists the agent collection. Must be called with h.mu held.
func (h *Hub) saveAgents(ctx context.Context) {
	snap := store.AgentSnapshot{Master: h.agents.Master(), Delegates: h.agents.Delegates()}
	if err := h.repo.SaveAgents(context.WithoutCancel(ctx), snap); err != nil {
		log.Warn().Err(err).Msg("Failed to persist agents")
	}
}

// saveTraining persists the training collection. Must be called with h.mu
// held.
func (h *Hub) saveTraining(ctx context.Context) {
	if err := h.repo.SaveTraining(context.WithoutCancel(ctx), h.training.All()); err != nil {
		log.Warn().Err(err).Msg("Failed to persist training")
	}
}

// Ping checks the persistence backend.
func (h *Hub) Ping(ctx context.Context) error { return h.repo.Ping(ctx) }

// Close releases the repository.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.repo.Close()
}
