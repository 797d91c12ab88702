package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agentoven/concierge/internal/store"
	"github.com/agentoven/concierge/pkg/models"
	"github.com/agentoven/concierge/pkg/versioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultAgents() store.AgentSnapshot {
	return store.AgentSnapshot{
		Master: models.Agent{
			ID:           models.MasterAgentID,
			Name:         "Concierge",
			Instructions: "Be helpful.",
			Languages:    []string{"en"},
			Lineage:      models.RootLineage(),
		},
		Delegates: []models.Agent{{
			ID:        "site",
			Name:      "Website Agent",
			Persona:   "Friendly",
			Languages: []string{"en", "es"},
			Lineage:   models.DelegateOf(models.MasterAgentID),
			Privacy:   &models.PrivacyPolicy{ShareOnlyAllowlist: true, AllowlistKeys: []string{"industry"}},
		}},
	}
}

func TestRepository_LoadAgentsEmpty(t *testing.T) {
	repo := store.NewRepository(store.NewMemoryKV("", 0))
	defer repo.Close()

	defaults := defaultAgents()
	got, ok, err := repo.LoadAgents(context.Background(), defaults)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, defaults.Master.ID, got.Master.ID)
}

func TestRepository_MergeOnLoad(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV("", 0)
	repo := store.NewRepository(kv)
	defer repo.Close()

	// Stored data predates the persona and privacy fields.
	stored := `{
		"master": {"id": "master", "name": "Renamed"},
		"delegates": [
			{"id": "site", "name": "Site v2", "lineage": {"role": "delegate", "parent_id": "master"}},
			{"id": "extra", "name": "Custom", "lineage": {"role": "delegate", "parent_id": "master"}}
		]
	}`
	require.NoError(t, kv.Set(ctx, store.AgentsKey, []byte(stored)))

	got, ok, err := repo.LoadAgents(ctx, defaultAgents())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Renamed", got.Master.Name)
	assert.Equal(t, "Be helpful.", got.Master.Instructions, "missing field keeps default")

	require.Len(t, got.Delegates, 2)
	site := got.Delegates[0]
	assert.Equal(t, "Site v2", site.Name)
	assert.Equal(t, "Friendly", site.Persona)
	require.NotNil(t, site.Privacy)
	assert.True(t, site.Privacy.ShareOnlyAllowlist)

	extra := got.Delegates[1]
	assert.Equal(t, "Custom", extra.Name)
	assert.Nil(t, extra.Privacy)
}

func TestRepository_AgentsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository(store.NewMemoryKV("", 0))
	defer repo.Close()

	snap := defaultAgents()
	require.NoError(t, repo.SaveAgents(ctx, snap))

	got, ok, err := repo.LoadAgents(ctx, store.AgentSnapshot{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.Master.Name, got.Master.Name)
	require.Len(t, got.Delegates, 1)
	assert.Equal(t, "master", got.Delegates[0].ParentID())
	assert.Equal(t, []string{"industry"}, got.Delegates[0].Privacy.AllowlistKeys)
}

func TestRepository_TrainingRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository(store.NewMemoryKV("", 0))
	defer repo.Close()

	_, ok, err := repo.LoadTraining(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SaveTraining(ctx, nil))
	items, ok, err := repo.LoadTraining(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, items)

	item := models.TrainingItem{
		ID:      "t1",
		Title:   "Tone",
		Kind:    models.TrainingPolicy,
		Scope:   models.ScopeMaster,
		History: versioning.New(versioning.Version[string]{ID: "v1", Content: "Be brief."}),
	}
	require.NoError(t, repo.SaveTraining(ctx, []models.TrainingItem{item}))

	items, ok, err = repo.LoadTraining(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "Be brief.", items[0].PublishedContent())
	assert.Equal(t, "v1", items[0].PublishedID)
}

func TestRepository_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV("", 0)
	repo := store.NewRepository(kv)
	defer repo.Close()

	require.NoError(t, kv.Set(ctx, store.TrainingKey, []byte(`{"not":"a list"}`)))
	_, _, err := repo.LoadTraining(ctx)

	var corrupt *store.ErrCorrupt
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, store.TrainingKey, corrupt.Key)
}

func TestRepository_StoredEmptyValuesWin(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV("", 0)
	repo := store.NewRepository(kv)
	defer repo.Close()

	stored := `{
		"master": {"id": "master", "name": "Concierge", "languages": []},
		"delegates": [{
			"id": "site", "name": "Website Agent", "tools": {"faq": true}, "languages": null,
			"lineage": {"role": "delegate", "parent_id": "master"},
			"privacy": {"share_only_allowlist": true, "allowlist_keys": []}
		}]
	}`
	require.NoError(t, kv.Set(ctx, store.AgentsKey, []byte(stored)))

	defaults := defaultAgents()
	defaults.Delegates[0].Tools = map[string]bool{"faq": true, "lead_capture": true}

	got, ok, err := repo.LoadAgents(ctx, defaults)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Empty(t, got.Master.Languages)
	assert.Equal(t, "Be helpful.", got.Master.Instructions)

	site := got.Delegates[0]
	assert.Equal(t, map[string]bool{"faq": true}, site.Tools)
	assert.Nil(t, site.Languages)
	assert.Equal(t, "Friendly", site.Persona)
	require.NotNil(t, site.Privacy)
	assert.Empty(t, site.Privacy.AllowlistKeys)

	// Defaults are left untouched by the merge.
	assert.Len(t, defaults.Delegates[0].Tools, 2)
	assert.Equal(t, []string{"industry"}, defaults.Delegates[0].Privacy.AllowlistKeys)
}
