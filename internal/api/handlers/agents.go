package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/agentoven/concierge/internal/redact"
	"github.com/agentoven/concierge/internal/registry"
	"github.com/agentoven/concierge/pkg/models"
	"github.com/go-chi/chi/v5"
)

// ListAgents returns the master followed by every delegate.
// GET /api/v1/agents
func (h *Handlers) ListAgents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Hub.Agents())
}

// CreateAgent adds a delegate of the master.
// POST /api/v1/agents
func (h *Handlers) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req models.NewAgent
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	agent, err := h.Hub.CreateAgent(r.Context(), req)
	if errors.Is(err, registry.ErrInvalidParent) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, agent)
}

// GetMaster returns the root agent.
// GET /api/v1/agents/master
func (h *Handlers) GetMaster(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Hub.Master())
}

// UpdateMaster patches the root agent.
// PATCH /api/v1/agents/master
func (h *Handlers) UpdateMaster(w http.ResponseWriter, r *http.Request) {
	var patch models.AgentPatch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.Hub.UpdateMaster(r.Context(), patch))
}

// GetAgent returns one agent.
// GET /api/v1/agents/{agentId}
func (h *Handlers) GetAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	agent, ok := h.Hub.Agent(agentID)
	if !ok {
		respondError(w, http.StatusNotFound, "agent not found: "+agentID)
		return
	}
	respondJSON(w, http.StatusOK, agent)
}

// UpdateAgent patches one agent.
// PATCH /api/v1/agents/{agentId}
func (h *Handlers) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")

	var patch models.AgentPatch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	agent, ok := h.Hub.UpdateAgent(r.Context(), agentID, patch)
	if !ok {
		respondError(w, http.StatusNotFound, "agent not found: "+agentID)
		return
	}
	respondJSON(w, http.StatusOK, agent)
}

// AgentTraining returns the training an agent runs with.
// GET /api/v1/agents/{agentId}/training
func (h *Handlers) AgentTraining(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	items, ok := h.Hub.EffectiveTraining(agentID)
	if !ok {
		respondError(w, http.StatusNotFound, "agent not found: "+agentID)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// SystemPrompt returns the composed instruction text for an agent.
// GET /api/v1/agents/{agentId}/system-prompt
func (h *Handlers) SystemPrompt(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	prompt, ok := h.Hub.SystemPrompt(agentID)
	if !ok {
		respondError(w, http.StatusNotFound, "agent not found: "+agentID)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"agent_id": agentID,
		"prompt":   prompt,
	})
}

// RedactProfile returns the part of a profile the agent may disclose to its
// parent.
// POST /api/v1/agents/{agentId}/redact
func (h *Handlers) RedactProfile(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")

	var profile redact.Record
	if err := decodeJSON(w, r, &profile, false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, ok := h.Hub.RedactedForAgent(r.Context(), agentID, profile)
	if !ok {
		respondError(w, http.StatusNotFound, "agent not found: "+agentID)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
