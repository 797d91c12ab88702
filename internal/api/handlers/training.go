package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/agentoven/concierge/internal/api/middleware"
	"github.com/agentoven/concierge/pkg/models"
	"github.com/go-chi/chi/v5"
)

// ListTraining lists training items. ?scope=master returns the active
// master items, ?owner=<id> the active items visible to that client, and no
// filter returns everything including archived items.
// GET /api/v1/training
func (h *Handlers) ListTraining(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("owner") != "":
		respondJSON(w, http.StatusOK, h.Hub.ClientTraining(q.Get("owner")))
	case q.Get("scope") == string(models.ScopeMaster):
		respondJSON(w, http.StatusOK, h.Hub.MasterTraining())
	case q.Get("scope") != "":
		respondError(w, http.StatusBadRequest, "scope filter supports only \"master\"; use owner for client items")
	default:
		respondJSON(w, http.StatusOK, h.Hub.AllTraining())
	}
}

// CreateTraining adds an item whose first version is published.
// POST /api/v1/training
func (h *Handlers) CreateTraining(w http.ResponseWriter, r *http.Request) {
	var req models.NewTraining
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Scope == "" {
		req.Scope = models.ScopeMaster
	}
	if err := validateTraining(req.Title, req.Kind, req.Scope, req.OwnerID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Author == "" {
		req.Author = middleware.GetAuthor(r.Context())
	}
	respondJSON(w, http.StatusCreated, h.Hub.AddTraining(r.Context(), req))
}

// GetTraining returns one item, archived or not.
// GET /api/v1/training/{itemId}
func (h *Handlers) GetTraining(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	item, ok := h.Hub.Training(itemID)
	if !ok {
		respondError(w, http.StatusNotFound, "training item not found: "+itemID)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// UpdateTraining patches metadata; new_content appends an unpublished
// version.
// PATCH /api/v1/training/{itemId}
func (h *Handlers) UpdateTraining(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var patch models.TrainingPatch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if patch.NewContent != "" && patch.Author == "" {
		patch.Author = middleware.GetAuthor(r.Context())
	}

	item, ok, err := h.Hub.UpdateTrainingIf(r.Context(), itemID, patch, func(next models.TrainingItem) error {
		return validateTraining(next.Title, next.Kind, next.Scope, next.OwnerID)
	})
	if !ok {
		respondError(w, http.StatusNotFound, "training item not found: "+itemID)
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// TrainingVersions lists an item's versions, oldest first.
// GET /api/v1/training/{itemId}/versions
func (h *Handlers) TrainingVersions(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	versions, ok := h.Hub.TrainingVersions(itemID)
	if !ok {
		respondError(w, http.StatusNotFound, "training item not found: "+itemID)
		return
	}
	respondJSON(w, http.StatusOK, versions)
}

type publishRequest struct {
	VersionID string `json:"version_id"`
}

// PublishTraining makes a version live; no version_id publishes the last
// appended one.
// POST /api/v1/training/{itemId}/publish
func (h *Handlers) PublishTraining(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var req publishRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, ok := h.Hub.PublishTraining(r.Context(), itemID, req.VersionID)
	if ok {
		respondJSON(w, http.StatusOK, item)
		return
	}
	if _, exists := h.Hub.Training(itemID); exists {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("version %q not found on item %s", req.VersionID, itemID))
		return
	}
	respondError(w, http.StatusNotFound, "training item not found: "+itemID)
}

type archiveRequest struct {
	Archived *bool `json:"archived"`
}

// ArchiveTraining sets the archived flag; an empty body archives.
// POST /api/v1/training/{itemId}/archive
func (h *Handlers) ArchiveTraining(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var req archiveRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	archived := true
	if req.Archived != nil {
		archived = *req.Archived
	}
	item, ok := h.Hub.ArchiveTraining(r.Context(), itemID, archived)
	if !ok {
		respondError(w, http.StatusNotFound, "training item not found: "+itemID)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// DuplicateTraining copies an item's published content into a new item.
// POST /api/v1/training/{itemId}/duplicate
func (h *Handlers) DuplicateTraining(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var overrides models.TrainingOverrides
	if err := decodeJSON(w, r, &overrides, true); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	src, ok := h.Hub.Training(itemID)
	if !ok {
		respondError(w, http.StatusNotFound, "training item not found: "+itemID)
		return
	}
	if err := validateTraining(overrideOr(overrides.Title, src.Title), overrideOr(overrides.Kind, src.Kind),
		overrideOr(overrides.Scope, src.Scope), overrideOr(overrides.OwnerID, src.OwnerID)); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, ok := h.Hub.DuplicateTraining(r.Context(), itemID, &overrides)
	if !ok {
		respondError(w, http.StatusNotFound, "training item not found: "+itemID)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func overrideOr[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}

func validateTraining(title string, kind models.TrainingKind, scope models.TrainingScope, owner string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if !kind.Valid() {
		return fmt.Errorf("unknown kind %q", kind)
	}
	switch scope {
	case models.ScopeMaster:
	case models.ScopeClient:
		if owner == "" {
			return fmt.Errorf("owner_id is required for client scope")
		}
	default:
		return fmt.Errorf("unknown scope %q", scope)
	}
	return nil
}
