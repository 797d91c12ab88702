package seed_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentoven/concierge/internal/seed"
	"github.com/agentoven/concierge/pkg/models"
)

func TestLoad_Defaults(t *testing.T) {
	d, err := seed.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if d.Master.ID != models.MasterAgentID {
		t.Errorf("Master.ID = %q, want %q", d.Master.ID, models.MasterAgentID)
	}
	if !d.Master.Lineage.IsRoot() {
		t.Errorf("Master.Lineage = %+v, want root", d.Master.Lineage)
	}
	if len(d.Delegates) == 0 {
		t.Fatal("expected seeded delegates")
	}
	for _, a := range d.Delegates {
		if a.ParentID() != models.MasterAgentID {
			t.Errorf("delegate %q parent = %q, want master", a.ID, a.ParentID())
		}
	}
	if len(d.Training) == 0 {
		t.Fatal("expected seeded training")
	}
	for _, it := range d.Training {
		if it.Len() != 1 || !it.Consistent() {
			t.Errorf("training %q: versions=%d consistent=%v", it.ID, it.Len(), it.Consistent())
		}
		if it.Scope == models.ScopeMaster && it.OwnerID != "" {
			t.Errorf("master item %q has owner %q", it.ID, it.OwnerID)
		}
	}
}

func TestLoad_Deterministic(t *testing.T) {
	a, _ := seed.Load()
	b, _ := seed.Load()
	if a.Training[0].PublishedID != b.Training[0].PublishedID {
		t.Errorf("version ids differ across loads: %q vs %q", a.Training[0].PublishedID, b.Training[0].PublishedID)
	}
	if !a.Master.CreatedAt.Equal(b.Master.CreatedAt) {
		t.Error("seed timestamps differ across loads")
	}
}

func TestParse_WebsiteAssistantPolicy(t *testing.T) {
	d, err := seed.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	var site *models.Agent
	for i := range d.Delegates {
		if d.Delegates[i].ID == "website-assistant" {
			site = &d.Delegates[i]
		}
	}
	if site == nil {
		t.Fatal("website-assistant not seeded")
	}
	if site.Privacy == nil || !site.Privacy.ShareOnlyAllowlist {
		t.Fatalf("Privacy = %+v, want allowlist policy", site.Privacy)
	}
	if site.Privacy.AllowWebsite {
		t.Error("AllowWebsite = true, want false")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "master: [unterminated"},
		{"delegate without id", "delegates:\n  - name: x\n"},
		{"training without id", "training:\n  - title: x\n    kind: faq\n"},
		{"unknown kind", "training:\n  - id: t\n    kind: poem\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := seed.Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}

func TestParse_EmptyMasterIDDefaults(t *testing.T) {
	d, err := seed.Parse([]byte("master:\n  name: Root\ndelegates:\n  - id: d1\n    name: D\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Master.ID != models.MasterAgentID {
		t.Errorf("Master.ID = %q", d.Master.ID)
	}
	if d.Delegates[0].ParentID() != models.MasterAgentID {
		t.Errorf("delegate parent = %q", d.Delegates[0].ParentID())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := "master:\n  id: master\n  name: File Master\ntraining:\n  - id: t1\n    title: T\n    kind: document\n    content: hello\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := seed.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if d.Master.Name != "File Master" {
		t.Errorf("Master.Name = %q", d.Master.Name)
	}
	if got := d.Training[0].PublishedContent(); got != "hello" {
		t.Errorf("PublishedContent() = %q, want hello", got)
	}
	if d.Training[0].Scope != models.ScopeMaster {
		t.Errorf("Scope = %q, want master default", d.Training[0].Scope)
	}

	if _, err := seed.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile(missing) error = nil")
	}
}
