// Package handlers implements the HTTP handlers of the concierge API on top
// of the hub.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/agentoven/concierge/internal/hub"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps request bodies. Profiles and training content are text.
const maxBodyBytes = 1 << 20

// Handlers holds the dependencies of every route.
type Handlers struct {
	Hub     *hub.Hub
	Version string
}

// New creates the handler set.
func New(h *hub.Hub, version string) *Handlers {
	return &Handlers{Hub: h, Version: version}
}

// Health reports service liveness and storage reachability.
// GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Hub.Ping(r.Context()); err != nil {
		log.Warn().Err(err).Msg("Health check: store unreachable")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "degraded",
			"service": "concierge",
			"error":   err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "concierge",
	})
}

// Info reports the running version.
// GET /version
func (h *Handlers) Info(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"version": h.Version,
		"service": "concierge",
	})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched
// when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
