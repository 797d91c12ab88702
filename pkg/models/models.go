package models

import (
	"time"
)

// ── Lineage ──────────────────────────────────────────────────

// Role tags an agent's place in the hierarchy.
type Role string

const (
	// RoleRoot is the single master agent holding platform-wide defaults.
	RoleRoot Role = "root"
	// RoleDelegate is a client-scoped child of the master.
	RoleDelegate Role = "delegate"
)

// MasterAgentID is the id of the seeded root agent.
const MasterAgentID = "master"

// Lineage is a tagged variant: Root, or Delegate{ParentID}. Build values with
// RootLineage and DelegateOf rather than by hand.
type Lineage struct {
	Role     Role   `json:"role"`
	ParentID string `json:"parent_id,omitempty"`
}

// RootLineage returns the lineage of the master agent.
func RootLineage() Lineage { return Lineage{Role: RoleRoot} }

// DelegateOf returns the lineage of a delegate whose parent is parentID.
func DelegateOf(parentID string) Lineage {
	return Lineage{Role: RoleDelegate, ParentID: parentID}
}

// IsRoot reports whether the lineage is the root variant.
func (l Lineage) IsRoot() bool { return l.Role == RoleRoot }

// ── Agent ────────────────────────────────────────────────────

// Channels says which conversation surfaces an agent serves.
type Channels struct {
	Chat  bool `json:"chat"`
	Voice bool `json:"voice"`
}

type KnowledgeKind string

const (
	KnowledgeURL      KnowledgeKind = "url"
	KnowledgeDocument KnowledgeKind = "document"
	KnowledgeFAQ      KnowledgeKind = "faq"
)

// KnowledgeSource references material the agent may consult.
type KnowledgeSource struct {
	ID    string        `json:"id" yaml:"id"`
	Title string        `json:"title" yaml:"title"`
	Kind  KnowledgeKind `json:"kind" yaml:"kind"`
}

type VoiceConfig struct {
	Provider string `json:"provider" yaml:"provider"`
	VoiceID  string `json:"voice_id,omitempty" yaml:"voice_id,omitempty"`
}

type TelephonyConfig struct {
	Provider         string   `json:"provider" yaml:"provider"`
	InboundNumbers   []string `json:"inbound_numbers,omitempty" yaml:"inbound_numbers,omitempty"`
	OutboundCallerID string   `json:"outbound_caller_id,omitempty" yaml:"outbound_caller_id,omitempty"`
	IVR              bool     `json:"ivr" yaml:"ivr"`
	Recording        bool     `json:"recording" yaml:"recording"`
}

// Integrations holds optional identifiers of external systems.
type Integrations struct {
	CRM      string `json:"crm,omitempty" yaml:"crm,omitempty"`
	Helpdesk string `json:"helpdesk,omitempty" yaml:"helpdesk,omitempty"`
	Billing  string `json:"billing,omitempty" yaml:"billing,omitempty"`
	Calendar string `json:"calendar,omitempty" yaml:"calendar,omitempty"`
}

// PrivacyPolicy governs what of a third-party profile a delegate may
// disclose to its parent. The zero value withholds websites and masks nothing.
type PrivacyPolicy struct {
	AllowWebsite       bool     `json:"allow_website" yaml:"allow_website"`
	MaskEmails         bool     `json:"mask_emails" yaml:"mask_emails"`
	MaskPhones         bool     `json:"mask_phones" yaml:"mask_phones"`
	ShareOnlyAllowlist bool     `json:"share_only_allowlist" yaml:"share_only_allowlist"`
	AllowlistKeys      []string `json:"allowlist_keys" yaml:"allowlist_keys,omitempty"`
}

// Clone returns a copy that shares no slices with p.
func (p *PrivacyPolicy) Clone() *PrivacyPolicy {
	if p == nil {
		return nil
	}
	cp := *p
	cp.AllowlistKeys = cloneStrings(p.AllowlistKeys)
	return &cp
}

// Agent is a conversational configuration profile.
type Agent struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Persona      string            `json:"persona"`
	Instructions string            `json:"instructions"`
	Channels     Channels          `json:"channels"`
	Tools        map[string]bool   `json:"tools"`
	Knowledge    []KnowledgeSource `json:"knowledge"`
	Languages    []string          `json:"languages"`
	Voice        *VoiceConfig      `json:"voice,omitempty"`
	Telephony    *TelephonyConfig  `json:"telephony,omitempty"`
	Integrations *Integrations     `json:"integrations,omitempty"`
	Lineage      Lineage           `json:"lineage"`
	Privacy      *PrivacyPolicy    `json:"privacy,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParentID returns the parent's id for delegates and "" for the root.
func (a Agent) ParentID() string {
	if a.Lineage.IsRoot() {
		return ""
	}
	return a.Lineage.ParentID
}

// Clone returns a deep copy of a.
func (a Agent) Clone() Agent {
	cp := a
	if a.Tools != nil {
		cp.Tools = make(map[string]bool, len(a.Tools))
		for k, v := range a.Tools {
			cp.Tools[k] = v
		}
	}
	if a.Knowledge != nil {
		cp.Knowledge = make([]KnowledgeSource, len(a.Knowledge))
		copy(cp.Knowledge, a.Knowledge)
	}
	cp.Languages = cloneStrings(a.Languages)
	if a.Voice != nil {
		v := *a.Voice
		cp.Voice = &v
	}
	if a.Telephony != nil {
		t := *a.Telephony
		t.InboundNumbers = cloneStrings(a.Telephony.InboundNumbers)
		cp.Telephony = &t
	}
	if a.Integrations != nil {
		i := *a.Integrations
		cp.Integrations = &i
	}
	cp.Privacy = a.Privacy.Clone()
	return cp
}

// NewAgent carries the fields of an agent being created. The registry
// assigns the id, lineage and timestamps.
type NewAgent struct {
	Name         string            `json:"name" yaml:"name"`
	Persona      string            `json:"persona" yaml:"persona"`
	Instructions string            `json:"instructions" yaml:"instructions"`
	Channels     Channels          `json:"channels" yaml:"channels"`
	Tools        map[string]bool   `json:"tools,omitempty" yaml:"tools,omitempty"`
	Knowledge    []KnowledgeSource `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
	Languages    []string          `json:"languages,omitempty" yaml:"languages,omitempty"`
	Voice        *VoiceConfig      `json:"voice,omitempty" yaml:"voice,omitempty"`
	Telephony    *TelephonyConfig  `json:"telephony,omitempty" yaml:"telephony,omitempty"`
	Integrations *Integrations     `json:"integrations,omitempty" yaml:"integrations,omitempty"`
	Privacy      *PrivacyPolicy    `json:"privacy,omitempty" yaml:"privacy,omitempty"`

	// ParentID defaults to the master when empty.
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// Agent materializes the fields into an Agent value without id or lineage.
func (n NewAgent) Agent() Agent {
	return Agent{
		Name:         n.Name,
		Persona:      n.Persona,
		Instructions: n.Instructions,
		Channels:     n.Channels,
		Tools:        n.Tools,
		Knowledge:    n.Knowledge,
		Languages:    n.Languages,
		Voice:        n.Voice,
		Telephony:    n.Telephony,
		Integrations: n.Integrations,
		Privacy:      n.Privacy,
	}.Clone()
}

// AgentPatch is a partial update. Nil fields are left untouched; non-nil
// fields replace the stored value wholesale.
type AgentPatch struct {
	Name         *string            `json:"name,omitempty"`
	Persona      *string            `json:"persona,omitempty"`
	Instructions *string            `json:"instructions,omitempty"`
	Channels     *Channels          `json:"channels,omitempty"`
	Tools        map[string]bool    `json:"tools,omitempty"`
	Knowledge    *[]KnowledgeSource `json:"knowledge,omitempty"`
	Languages    *[]string          `json:"languages,omitempty"`
	Voice        *VoiceConfig       `json:"voice,omitempty"`
	Telephony    *TelephonyConfig   `json:"telephony,omitempty"`
	Integrations *Integrations      `json:"integrations,omitempty"`
	Privacy      *PrivacyPolicy     `json:"privacy,omitempty"`
}

// Apply writes the non-nil fields of p onto a. Lineage and id are never
// patchable.
func (p AgentPatch) Apply(a *Agent) {
	src := Agent{
		Tools:        p.Tools,
		Voice:        p.Voice,
		Telephony:    p.Telephony,
		Integrations: p.Integrations,
		Privacy:      p.Privacy,
	}
	if p.Knowledge != nil {
		src.Knowledge = *p.Knowledge
	}
	if p.Languages != nil {
		src.Languages = *p.Languages
	}
	src = src.Clone()

	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Persona != nil {
		a.Persona = *p.Persona
	}
	if p.Instructions != nil {
		a.Instructions = *p.Instructions
	}
	if p.Channels != nil {
		a.Channels = *p.Channels
	}
	if p.Tools != nil {
		a.Tools = src.Tools
	}
	if p.Knowledge != nil {
		a.Knowledge = src.Knowledge
	}
	if p.Languages != nil {
		a.Languages = src.Languages
	}
	if p.Voice != nil {
		a.Voice = src.Voice
	}
	if p.Telephony != nil {
		a.Telephony = src.Telephony
	}
	if p.Integrations != nil {
		a.Integrations = src.Integrations
	}
	if p.Privacy != nil {
		a.Privacy = src.Privacy
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
