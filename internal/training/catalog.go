// Package training implements the training catalog: scoped, versioned
// instructional content with a publish and archive lifecycle.
//
// Every item is backed by a versioning.History. Adding an item publishes its
// first version; later content edits append drafts that only go live through
// Publish. Archived items drop out of the scope queries but stay reachable
// through Get.
//
// Catalog is not safe for concurrent use. The hub serializes access.
package training

import (
	"time"

	"github.com/agentoven/concierge/pkg/models"
	"github.com/agentoven/concierge/pkg/versioning"
	"github.com/google/uuid"
)

// Catalog is an ordered collection of training items, newest first.
type Catalog struct {
	items []models.TrainingItem

	now   func() time.Time
	newID func() string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock overrides the time source used for version timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithIDGenerator overrides how item and version ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *Catalog) { c.newID = fn }
}

// NewCatalog builds a catalog holding copies of items, in the given order.
func NewCatalog(items []models.TrainingItem, opts ...Option) *Catalog {
	c := &Catalog{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.items = make([]models.TrainingItem, 0, len(items))
	for _, it := range items {
		c.items = append(c.items, it.Clone())
	}
	return c
}

// Add creates an item with a single, published version and puts it at the
// front of the catalog.
func (c *Catalog) Add(in models.NewTraining) models.TrainingItem {
	now := c.now()
	item := models.TrainingItem{
		ID:          c.newID(),
		Title:       in.Title,
		Kind:        in.Kind,
		Description: in.Description,
		Tags:        append([]string(nil), in.Tags...),
		Scope:       in.Scope,
		OwnerID:     ownerFor(in.Scope, in.OwnerID),
		History: versioning.New(models.TrainingVersion{
			ID:        c.newID(),
			CreatedAt: now,
			Author:    in.Author,
			Notes:     in.Notes,
			Content:   in.Content,
		}),
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.items = append([]models.TrainingItem{item}, c.items...)
	return item.Clone()
}

// Update replaces metadata in place and, when patch.NewContent is
// non-empty, appends a new version. The published version never changes
// here. Unknown ids report false.
func (c *Catalog) Update(id string, patch models.TrainingPatch) (models.TrainingItem, bool) {
	item := c.find(id)
	if item == nil {
		return models.TrainingItem{}, false
	}
	now := c.now()
	patch.Apply(item)
	item.OwnerID = ownerFor(item.Scope, item.OwnerID)
	if patch.NewContent != "" {
		item.Append(models.TrainingVersion{
			ID:        c.newID(),
			CreatedAt: now,
			Author:    patch.Author,
			Notes:     patch.Notes,
			Content:   patch.NewContent,
		})
	}
	item.UpdatedAt = now
	return item.Clone(), true
}

// Publish makes versionID the live version of an item, or the last appended
// version when versionID is empty. Unknown items and unknown versions are a
// no-op and report false.
func (c *Catalog) Publish(id, versionID string) (models.TrainingItem, bool) {
	item := c.find(id)
	if item == nil {
		return models.TrainingItem{}, false
	}
	if !item.History.Publish(versionID) {
		return item.Clone(), false
	}
	item.UpdatedAt = c.now()
	return item.Clone(), true
}

// Archive sets the archived flag. No data is removed.
func (c *Catalog) Archive(id string, archived bool) (models.TrainingItem, bool) {
	item := c.find(id)
	if item == nil {
		return models.TrainingItem{}, false
	}
	item.Archived = archived
	item.UpdatedAt = c.now()
	return item.Clone(), true
}

// Duplicate copies an item into a brand-new one whose single, published
// version holds the source's published content. The copy does not follow
// later edits to the source. Unknown ids report false and change nothing.
func (c *Catalog) Duplicate(id string, o *models.TrainingOverrides) (models.TrainingItem, bool) {
	src := c.find(id)
	if src == nil {
		return models.TrainingItem{}, false
	}
	in := models.NewTraining{
		Scope:       src.Scope,
		OwnerID:     src.OwnerID,
		Title:       src.Title,
		Kind:        src.Kind,
		Description: src.Description,
		Tags:        src.Tags,
		Content:     src.PublishedContent(),
	}
	if o != nil {
		if o.Title != nil {
			in.Title = *o.Title
		}
		if o.Kind != nil {
			in.Kind = *o.Kind
		}
		if o.Description != nil {
			in.Description = *o.Description
		}
		if o.Tags != nil {
			in.Tags = *o.Tags
		}
		if o.Scope != nil {
			in.Scope = *o.Scope
		}
		if o.OwnerID != nil {
			in.OwnerID = *o.OwnerID
		}
	}
	return c.Add(in), true
}

// Get looks an item up by id, archived or not.
func (c *Catalog) Get(id string) (models.TrainingItem, bool) {
	item := c.find(id)
	if item == nil {
		return models.TrainingItem{}, false
	}
	return item.Clone(), true
}

// Versions returns an item's versions, oldest first.
func (c *Catalog) Versions(id string) ([]models.TrainingVersion, bool) {
	item := c.find(id)
	if item == nil {
		return nil, false
	}
	return item.History.Clone().Versions, true
}

// All returns every item, archived ones included.
func (c *Catalog) All() []models.TrainingItem {
	return c.filter(func(models.TrainingItem) bool { return true })
}

// ForMaster returns the live master-scoped items.
func (c *Catalog) ForMaster() []models.TrainingItem {
	return c.filter(func(it models.TrainingItem) bool {
		return !it.Archived && it.Scope == models.ScopeMaster
	})
}

// ForClient returns the live items that apply to ownerID: every
// master-scoped item plus the client's own.
func (c *Catalog) ForClient(ownerID string) []models.TrainingItem {
	return c.filter(func(it models.TrainingItem) bool {
		if it.Archived {
			return false
		}
		return it.Scope == models.ScopeMaster ||
			(it.Scope == models.ScopeClient && it.OwnerID == ownerID)
	})
}

// Has reports whether an item with the given id exists.
func (c *Catalog) Has(id string) bool { return c.find(id) != nil }

// Insert appends an already-built item at the back of the catalog. It is
// used to restore seed items that are missing from loaded data.
func (c *Catalog) Insert(item models.TrainingItem) {
	c.items = append(c.items, item.Clone())
}

func (c *Catalog) filter(keep func(models.TrainingItem) bool) []models.TrainingItem {
	out := make([]models.TrainingItem, 0, len(c.items))
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}

func (c *Catalog) find(id string) *models.TrainingItem {
	for i := range c.items {
		if c.items[i].ID == id {
			return &c.items[i]
		}
	}
	return nil
}

func ownerFor(scope models.TrainingScope, owner string) string {
	if scope == models.ScopeMaster {
		return ""
	}
	return owner
}
