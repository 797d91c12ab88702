package hub

import (
	"context"

	"github.com/agentoven/concierge/pkg/models"
)

// Agent returns the agent with the given id, master included.
func (h *Hub) Agent(id string) (models.Agent, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.agents.Get(id)
}

// Master returns the root agent.
func (h *Hub) Master() models.Agent {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.agents.Master()
}

// Delegates returns every delegate, newest first.
func (h *Hub) Delegates() []models.Agent {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.agents.Delegates()
}

// Agents returns the master followed by every delegate.
func (h *Hub) Agents() []models.Agent {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.agents.All()
}

// CreateAgent adds a delegate of the master.
func (h *Hub) CreateAgent(ctx context.Context, n models.NewAgent) (models.Agent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	a, err := h.agents.Create(n)
	if err != nil {
		return models.Agent{}, err
	}
	h.saveAgents(ctx)
	return a, nil
}

// UpdateAgent patches an agent. Unknown ids change nothing and report false.
func (h *Hub) UpdateAgent(ctx context.Context, id string, patch models.AgentPatch) (models.Agent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	a, ok := h.agents.Update(id, patch)
	if !ok {
		return models.Agent{}, false
	}
	h.saveAgents(ctx)
	return a, true
}

// UpdateMaster patches the root agent.
func (h *Hub) UpdateMaster(ctx context.Context, patch models.AgentPatch) models.Agent {
	h.mu.Lock()
	defer h.mu.Unlock()
	a := h.agents.UpdateMaster(patch)
	h.saveAgents(ctx)
	return a
}
