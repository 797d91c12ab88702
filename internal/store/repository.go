package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentoven/concierge/pkg/models"
)

// KVRepository implements Repository on top of a KV.
type KVRepository struct {
	kv KV
}

// NewRepository wraps kv. The repository owns kv and closes it on Close.
func NewRepository(kv KV) *KVRepository {
	return &KVRepository{kv: kv}
}

// storedAgents keeps agents as raw JSON so each one can be merged with its
// default field by field.
type storedAgents struct {
	Master    json.RawMessage   `json:"master"`
	Delegates []json.RawMessage `json:"delegates"`
}

// LoadAgents merges stored agents onto defaults. A top-level field present in
// the stored document wins even when it is null or empty; only fields the
// document lacks (written before the field existed) take the default.
func (r *KVRepository) LoadAgents(ctx context.Context, defaults AgentSnapshot) (AgentSnapshot, bool, error) {
	data, ok, err := r.kv.Get(ctx, AgentsKey)
	if err != nil {
		return defaults, false, fmt.Errorf("load agents: %w", err)
	}
	if !ok {
		return defaults, false, nil
	}

	var raw storedAgents
	if err := json.Unmarshal(data, &raw); err != nil {
		return defaults, false, &ErrCorrupt{Key: AgentsKey, Err: err}
	}

	byID := make(map[string]models.Agent, len(defaults.Delegates))
	for _, d := range defaults.Delegates {
		byID[d.ID] = d
	}

	out := AgentSnapshot{Master: defaults.Master.Clone()}
	if len(raw.Master) > 0 {
		if out.Master, err = overlay(defaults.Master, raw.Master); err != nil {
			return defaults, false, &ErrCorrupt{Key: AgentsKey, Err: err}
		}
	}

	out.Delegates = make([]models.Agent, 0, len(raw.Delegates))
	for _, msg := range raw.Delegates {
		var head struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(msg, &head); err != nil {
			return defaults, false, &ErrCorrupt{Key: AgentsKey, Err: err}
		}
		a, err := overlay(byID[head.ID], msg)
		if err != nil {
			return defaults, false, &ErrCorrupt{Key: AgentsKey, Err: err}
		}
		out.Delegates = append(out.Delegates, a)
	}
	return out, true, nil
}

// overlay decodes stored into a fresh Agent after filling in the top-level
// keys it lacks from def. Nothing is decoded on top of def's maps or slices.
func overlay(def models.Agent, stored json.RawMessage) (models.Agent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(stored, &fields); err != nil {
		return models.Agent{}, err
	}
	base, err := json.Marshal(def)
	if err != nil {
		return models.Agent{}, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return models.Agent{}, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	buf, err := json.Marshal(merged)
	if err != nil {
		return models.Agent{}, err
	}
	var a models.Agent
	if err := json.Unmarshal(buf, &a); err != nil {
		return models.Agent{}, err
	}
	return a, nil
}

func (r *KVRepository) SaveAgents(ctx context.Context, snap AgentSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode agents: %w", err)
	}
	if err := r.kv.Set(ctx, AgentsKey, data); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}
	return nil
}

func (r *KVRepository) LoadTraining(ctx context.Context) ([]models.TrainingItem, bool, error) {
	data, ok, err := r.kv.Get(ctx, TrainingKey)
	if err != nil {
		return nil, false, fmt.Errorf("load training: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	var items []models.TrainingItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, &ErrCorrupt{Key: TrainingKey, Err: err}
	}
	return items, true, nil
}

func (r *KVRepository) SaveTraining(ctx context.Context, items []models.TrainingItem) error {
	if items == nil {
		items = []models.TrainingItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode training: %w", err)
	}
	if err := r.kv.Set(ctx, TrainingKey, data); err != nil {
		return fmt.Errorf("save training: %w", err)
	}
	return nil
}

func (r *KVRepository) Ping(ctx context.Context) error { return r.kv.Ping(ctx) }

func (r *KVRepository) Close() error { return r.kv.Close() }
