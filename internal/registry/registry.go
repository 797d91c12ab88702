// Package registry owns the agent hierarchy: one master agent and an ordered
// list of delegates that inherit from it.
//
// The master lives in its own slot and always carries the root lineage;
// delegates always carry a delegate lineage pointing at the master. The
// "exactly one root, depth two" rule therefore holds by construction.
//
// Registry is not safe for concurrent use. The hub serializes access.
package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/agentoven/concierge/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidParent is returned when a new delegate names a parent other than
// the master.
var ErrInvalidParent = errors.New("invalid parent agent")

// Registry holds the master agent and its delegates.
type Registry struct {
	master    models.Agent
	delegates []models.Agent // newest first

	now   func() time.Time
	newID func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator overrides how new agent ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) { r.newID = fn }
}

// New builds a registry from a master and its delegates. Lineage on the
// inputs is normalized: the master becomes the root and every delegate is
// re-parented onto it. Delegates reusing the master's id or an earlier
// delegate's id are dropped.
func New(master models.Agent, delegates []models.Agent, opts ...Option) *Registry {
	r := &Registry{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	if master.ID == "" {
		master.ID = models.MasterAgentID
	}
	master = master.Clone()
	master.Lineage = models.RootLineage()
	r.master = master

	seen := map[string]bool{master.ID: true}
	r.delegates = make([]models.Agent, 0, len(delegates))
	for _, d := range delegates {
		if d.ID == "" || seen[d.ID] {
			log.Warn().Str("agent", d.ID).Msg("Dropping delegate with empty or duplicate id")
			continue
		}
		seen[d.ID] = true
		if d.Lineage.IsRoot() || d.Lineage.ParentID != master.ID {
			log.Warn().
				Str("agent", d.ID).
				Str("parent", d.Lineage.ParentID).
				Msg("Re-parenting delegate onto master")
		}
		d = d.Clone()
		d.Lineage = models.DelegateOf(master.ID)
		r.delegates = append(r.delegates, d)
	}
	return r
}

// Get returns a snapshot of the agent with the given id, master included.
func (r *Registry) Get(id string) (models.Agent, bool) {
	if id == r.master.ID {
		return r.master.Clone(), true
	}
	if i := r.indexOf(id); i >= 0 {
		return r.delegates[i].Clone(), true
	}
	return models.Agent{}, false
}

// Master returns a snapshot of the root agent.
func (r *Registry) Master() models.Agent { return r.master.Clone() }

// Delegates returns snapshots of all delegates, newest first.
func (r *Registry) Delegates() []models.Agent {
	out := make([]models.Agent, len(r.delegates))
	for i, d := range r.delegates {
		out[i] = d.Clone()
	}
	return out
}

// All returns the master followed by every delegate.
func (r *Registry) All() []models.Agent {
	return append([]models.Agent{r.Master()}, r.Delegates()...)
}

// Update applies patch to the agent with the given id. Unknown ids are a
// no-op and report false.
func (r *Registry) Update(id string, patch models.AgentPatch) (models.Agent, bool) {
	if id == r.master.ID {
		return r.UpdateMaster(patch), true
	}
	i := r.indexOf(id)
	if i < 0 {
		return models.Agent{}, false
	}
	patch.Apply(&r.delegates[i])
	r.delegates[i].UpdatedAt = r.now()
	return r.delegates[i].Clone(), true
}

// UpdateMaster applies patch to the root agent.
func (r *Registry) UpdateMaster(patch models.AgentPatch) models.Agent {
	patch.Apply(&r.master)
	r.master.UpdatedAt = r.now()
	return r.master.Clone()
}

// Create adds a new delegate at the front of the delegate list. An empty
// parent defaults to the master; any other parent is rejected.
func (r *Registry) Create(n models.NewAgent) (models.Agent, error) {
	parent := n.ParentID
	if parent == "" {
		parent = r.master.ID
	}
	if parent != r.master.ID {
		return models.Agent{}, fmt.Errorf("%w: %q is not the master agent", ErrInvalidParent, parent)
	}

	a := n.Agent()
	a.ID = r.newID()
	a.Lineage = models.DelegateOf(parent)
	a.CreatedAt = r.now()
	a.UpdatedAt = a.CreatedAt

	r.delegates = append([]models.Agent{a}, r.delegates...)
	return a.Clone(), nil
}

func (r *Registry) indexOf(id string) int {
	for i := range r.delegates {
		if r.delegates[i].ID == id {
			return i
		}
	}
	return -1
}
