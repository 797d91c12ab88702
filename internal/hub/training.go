package hub

import (
	"context"

	"github.com/agentoven/concierge/pkg/models"
)

// AddTraining creates an item whose first version is published.
func (h *Hub) AddTraining(ctx context.Context, in models.NewTraining) models.TrainingItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	item := h.training.Add(in)
	h.saveTraining(ctx)
	return item
}

// UpdateTraining patches metadata and may append a draft version.
func (h *Hub) UpdateTraining(ctx context.Context, id string, patch models.TrainingPatch) (models.TrainingItem, bool) {
	return h.mutateTraining(ctx, func() (models.TrainingItem, bool) {
		return h.training.Update(id, patch)
	})
}

// UpdateTrainingIf is UpdateTraining guarded by check, which sees the item
// as it would look after the patch. check runs under the write lock, so no
// other mutation can land between the check and the update. A rejected patch
// changes nothing and returns check's error.
func (h *Hub) UpdateTrainingIf(ctx context.Context, id string, patch models.TrainingPatch, check func(models.TrainingItem) error) (models.TrainingItem, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	current, ok := h.training.Get(id)
	if !ok {
		return models.TrainingItem{}, false, nil
	}
	patch.Apply(&current)
	if err := check(current); err != nil {
		return models.TrainingItem{}, true, err
	}
	item, _ := h.training.Update(id, patch)
	h.saveTraining(ctx)
	return item, true, nil
}

// PublishTraining makes versionID live, or the last appended version when
// versionID is empty.
func (h *Hub) PublishTraining(ctx context.Context, id, versionID string) (models.TrainingItem, bool) {
	return h.mutateTraining(ctx, func() (models.TrainingItem, bool) {
		return h.training.Publish(id, versionID)
	})
}

// ArchiveTraining sets the archived flag.
func (h *Hub) ArchiveTraining(ctx context.Context, id string, archived bool) (models.TrainingItem, bool) {
	return h.mutateTraining(ctx, func() (models.TrainingItem, bool) {
		return h.training.Archive(id, archived)
	})
}

// DuplicateTraining copies the published content of id into a new item.
// The second result is false when id is unknown.
func (h *Hub) DuplicateTraining(ctx context.Context, id string, o *models.TrainingOverrides) (models.TrainingItem, bool) {
	return h.mutateTraining(ctx, func() (models.TrainingItem, bool) {
		return h.training.Duplicate(id, o)
	})
}

func (h *Hub) mutateTraining(ctx context.Context, fn func() (models.TrainingItem, bool)) (models.TrainingItem, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	item, ok := fn()
	if !ok {
		return item, false
	}
	h.saveTraining(ctx)
	return item, true
}

// Training returns an item by id, archived or not.
func (h *Hub) Training(id string) (models.TrainingItem, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.training.Get(id)
}

// TrainingVersions returns the version list of an item.
func (h *Hub) TrainingVersions(id string) ([]models.TrainingVersion, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.training.Versions(id)
}

// AllTraining returns every item, archived ones included.
func (h *Hub) AllTraining() []models.TrainingItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.training.All()
}

// MasterTraining returns the active master-scoped items.
func (h *Hub) MasterTraining() []models.TrainingItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.training.ForMaster()
}

// ClientTraining returns the active items visible to ownerID.
func (h *Hub) ClientTraining(ownerID string) []models.TrainingItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.training.ForClient(ownerID)
}

// EffectiveTraining returns the active training an agent runs with: master
// items for the master, master plus own items for a delegate.
func (h *Hub) EffectiveTraining(agentID string) ([]models.TrainingItem, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.effectiveTraining(agentID)
}

func (h *Hub) effectiveTraining(agentID string) ([]models.TrainingItem, bool) {
	a, ok := h.agents.Get(agentID)
	if !ok {
		return nil, false
	}
	if a.Lineage.IsRoot() {
		return h.training.ForMaster(), true
	}
	return h.training.ForClient(a.ID), true
}
