// Package seed holds the default agents and training items the hub starts
// from. The defaults ship embedded in the binary and can be replaced by a
// YAML file with the same layout.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/agentoven/concierge/pkg/models"
	"github.com/agentoven/concierge/pkg/versioning"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Data is a fully materialized seed.
type Data struct {
	Master    models.Agent
	Delegates []models.Agent
	Training  []models.TrainingItem
}

type seedAgent struct {
	ID              string `yaml:"id"`
	models.NewAgent `yaml:",inline"`
}

type seedTraining struct {
	ID                 string `yaml:"id"`
	models.NewTraining `yaml:",inline"`
}

type seedFile struct {
	Master    seedAgent      `yaml:"master"`
	Delegates []seedAgent    `yaml:"delegates"`
	Training  []seedTraining `yaml:"training"`
}

// epoch timestamps seed records so repeated loads produce identical data.
var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Load returns the embedded defaults.
func Load() (Data, error) {
	return Parse(defaultSeed)
}

// LoadFile reads a seed from path.
func LoadFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML seed document.
func Parse(raw []byte) (Data, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Data{}, fmt.Errorf("parse seed: %w", err)
	}

	masterID := f.Master.ID
	if masterID == "" {
		masterID = models.MasterAgentID
	}

	d := Data{Master: f.Master.agent(masterID, models.RootLineage())}
	for i, sa := range f.Delegates {
		if sa.ID == "" {
			return Data{}, fmt.Errorf("parse seed: delegate %d has no id", i)
		}
		d.Delegates = append(d.Delegates, sa.agent(sa.ID, models.DelegateOf(masterID)))
	}
	for i, st := range f.Training {
		if st.ID == "" {
			return Data{}, fmt.Errorf("parse seed: training item %d has no id", i)
		}
		if !st.Kind.Valid() {
			return Data{}, fmt.Errorf("parse seed: training item %q has unknown kind %q", st.ID, st.Kind)
		}
		d.Training = append(d.Training, st.item())
	}
	return d, nil
}

func (s seedAgent) agent(id string, lineage models.Lineage) models.Agent {
	a := s.NewAgent.Agent()
	a.ID = id
	a.Lineage = lineage
	a.CreatedAt = epoch
	a.UpdatedAt = epoch
	return a
}

func (s seedTraining) item() models.TrainingItem {
	scope := s.Scope
	if scope == "" {
		scope = models.ScopeMaster
	}
	owner := s.OwnerID
	if scope == models.ScopeMaster {
		owner = ""
	}
	return models.TrainingItem{
		ID:          s.ID,
		Title:       s.Title,
		Kind:        s.Kind,
		Description: s.Description,
		Tags:        append([]string(nil), s.Tags...),
		Scope:       scope,
		OwnerID:     owner,
		History: versioning.New(models.TrainingVersion{
			ID:        s.ID + "-v1",
			CreatedAt: epoch,
			Author:    s.Author,
			Notes:     s.Notes,
			Content:   s.Content,
		}),
		CreatedAt: epoch,
		UpdatedAt: epoch,
	}
}
