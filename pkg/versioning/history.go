// Package versioning provides an append-only version history with a single
// "published" pointer.
//
// A History is the storage primitive behind training items: edits append a
// new Version, and which version is live only changes through Publish. The
// type is not safe for concurrent use; callers serialize access.
package versioning

import "time"

// Version is one immutable entry in a History.
type Version[T any] struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Content   T         `json:"content"`
}

// History is an ordered, append-only list of versions (oldest first) plus
// the id of the published one.
type History[T any] struct {
	Versions    []Version[T] `json:"versions"`
	PublishedID string       `json:"published_version_id"`
}

// New starts a history whose first version is published immediately.
func New[T any](first Version[T]) History[T] {
	return History[T]{
		Versions:    []Version[T]{first},
		PublishedID: first.ID,
	}
}

// Append adds v as the newest version. The published pointer is untouched.
func (h *History[T]) Append(v Version[T]) {
	h.Versions = append(h.Versions, v)
}

// Publish moves the published pointer. An empty id selects the last appended
// version; append order wins over timestamps so equal CreatedAt values cannot
// make the choice ambiguous. Returns false if id is not in the history.
func (h *History[T]) Publish(id string) bool {
	if len(h.Versions) == 0 {
		return false
	}
	if id == "" {
		h.PublishedID = h.Versions[len(h.Versions)-1].ID
		return true
	}
	if _, ok := h.Find(id); !ok {
		return false
	}
	h.PublishedID = id
	return true
}

// Find returns the version with the given id.
func (h *History[T]) Find(id string) (Version[T], bool) {
	for _, v := range h.Versions {
		if v.ID == id {
			return v, true
		}
	}
	var zero Version[T]
	return zero, false
}

// Published returns the version the published pointer references.
func (h *History[T]) Published() (Version[T], bool) {
	if h.PublishedID == "" {
		var zero Version[T]
		return zero, false
	}
	return h.Find(h.PublishedID)
}

// Latest returns the most recently appended version.
func (h *History[T]) Latest() (Version[T], bool) {
	if len(h.Versions) == 0 {
		var zero Version[T]
		return zero, false
	}
	return h.Versions[len(h.Versions)-1], true
}

// PublishedOrLatest returns the published version, falling back to the
// latest one when nothing valid is published.
func (h *History[T]) PublishedOrLatest() (Version[T], bool) {
	if v, ok := h.Published(); ok {
		return v, true
	}
	return h.Latest()
}

// IDs lists version ids in append order.
func (h *History[T]) IDs() []string {
	ids := make([]string, len(h.Versions))
	for i, v := range h.Versions {
		ids[i] = v.ID
	}
	return ids
}

// Len returns the number of versions.
func (h *History[T]) Len() int { return len(h.Versions) }

// Consistent reports whether the history is non-empty and its published
// pointer references one of its versions.
func (h *History[T]) Consistent() bool {
	if len(h.Versions) == 0 {
		return false
	}
	_, ok := h.Published()
	return ok
}

// Clone returns a copy whose version slice does not alias h's. Content values
// are copied shallowly.
func (h History[T]) Clone() History[T] {
	out := History[T]{PublishedID: h.PublishedID}
	if h.Versions != nil {
		out.Versions = make([]Version[T], len(h.Versions))
		copy(out.Versions, h.Versions)
	}
	return out
}
