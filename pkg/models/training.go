package models

import (
	"time"

	"github.com/agentoven/concierge/pkg/versioning"
)

// ── Training ─────────────────────────────────────────────────

type TrainingKind string

const (
	TrainingDocument TrainingKind = "document"
	TrainingFAQ      TrainingKind = "faq"
	TrainingSOP      TrainingKind = "sop"
	TrainingScript   TrainingKind = "script"
	TrainingCallflow TrainingKind = "callflow"
	TrainingPolicy   TrainingKind = "policy"
	TrainingIntent   TrainingKind = "intent"
)

// Valid reports whether k is one of the known content kinds.
func (k TrainingKind) Valid() bool {
	switch k {
	case TrainingDocument, TrainingFAQ, TrainingSOP, TrainingScript,
		TrainingCallflow, TrainingPolicy, TrainingIntent:
		return true
	}
	return false
}

// TrainingScope says who a training item applies to.
type TrainingScope string

const (
	ScopeMaster TrainingScope = "master"
	ScopeClient TrainingScope = "client"
)

// TrainingVersion is an immutable snapshot of a training item's content.
type TrainingVersion = versioning.Version[string]

// TrainingItem is a titled, typed, versioned piece of instructional content.
// The embedded history serializes inline as "versions" and
// "published_version_id".
type TrainingItem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Kind        TrainingKind  `json:"kind"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Scope       TrainingScope `json:"scope"`
	OwnerID     string        `json:"owner_id,omitempty"` // set when Scope == client
	Archived    bool          `json:"archived"`

	versioning.History[string]

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublishedContent returns the live content, falling back to the latest
// version when the published pointer is unset.
func (t TrainingItem) PublishedContent() string {
	v, _ := t.PublishedOrLatest()
	return v.Content
}

// Clone returns a deep copy of t.
func (t TrainingItem) Clone() TrainingItem {
	cp := t
	cp.Tags = cloneStrings(t.Tags)
	cp.History = t.History.Clone()
	return cp
}

// NewTraining carries the fields of a training item being added.
type NewTraining struct {
	Scope       TrainingScope `json:"scope" yaml:"scope"`
	OwnerID     string        `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`
	Title       string        `json:"title" yaml:"title"`
	Kind        TrainingKind  `json:"kind" yaml:"kind"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Content     string        `json:"content" yaml:"content"`
	Tags        []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Author      string        `json:"author,omitempty" yaml:"author,omitempty"`
	Notes       string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// TrainingPatch updates metadata in place and, when NewContent is non-empty,
// appends a new (unpublished) version.
type TrainingPatch struct {
	Title       *string        `json:"title,omitempty"`
	Kind        *TrainingKind  `json:"kind,omitempty"`
	Description *string        `json:"description,omitempty"`
	Tags        *[]string      `json:"tags,omitempty"`
	Scope       *TrainingScope `json:"scope,omitempty"`
	OwnerID     *string        `json:"owner_id,omitempty"`
	Archived    *bool          `json:"archived,omitempty"`

	NewContent string `json:"new_content,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Author     string `json:"author,omitempty"`
}

// Apply writes the metadata fields of p onto t.
func (p TrainingPatch) Apply(t *TrainingItem) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Tags != nil {
		t.Tags = cloneStrings(*p.Tags)
	}
	if p.Scope != nil {
		t.Scope = *p.Scope
	}
	if p.OwnerID != nil {
		t.OwnerID = *p.OwnerID
	}
	if p.Archived != nil {
		t.Archived = *p.Archived
	}
}

// TrainingOverrides replaces copied fields when duplicating an item.
type TrainingOverrides struct {
	Title       *string        `json:"title,omitempty"`
	Kind        *TrainingKind  `json:"kind,omitempty"`
	Description *string        `json:"description,omitempty"`
	Tags        *[]string      `json:"tags,omitempty"`
	Scope       *TrainingScope `json:"scope,omitempty"`
	OwnerID     *string        `json:"owner_id,omitempty"`
}
