package versioning_test

import (
	"testing"
	"time"

	"github.com/agentoven/concierge/pkg/versioning"
)

func v(id, content string, at time.Time) versioning.Version[string] {
	return versioning.Version[string]{ID: id, CreatedAt: at, Content: content}
}

func TestNew_PublishesFirstVersion(t *testing.T) {
	h := versioning.New(v("v1", "hello", time.Now()))

	if h.PublishedID != "v1" {
		t.Errorf("PublishedID = %q, want %q", h.PublishedID, "v1")
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
	if !h.Consistent() {
		t.Error("Consistent() = false for fresh history")
	}
}

func TestAppend_DoesNotPublish(t *testing.T) {
	h := versioning.New(v("v1", "one", time.Now()))
	h.Append(v("v2", "two", time.Now()))

	if h.PublishedID != "v1" {
		t.Errorf("PublishedID after Append = %q, want %q", h.PublishedID, "v1")
	}
	pub, ok := h.Published()
	if !ok || pub.Content != "one" {
		t.Errorf("Published() = %+v, %v; want content %q", pub, ok, "one")
	}
	latest, _ := h.Latest()
	if latest.ID != "v2" {
		t.Errorf("Latest().ID = %q, want %q", latest.ID, "v2")
	}
}

func TestPublish_EmptyIDUsesAppendOrder(t *testing.T) {
	same := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := versioning.New(v("v1", "one", same))
	h.Append(v("v2", "two", same))
	h.Append(v("v3", "three", same.Add(-time.Hour))) // clock went backwards

	if !h.Publish("") {
		t.Fatal("Publish(\"\") = false")
	}
	if h.PublishedID != "v3" {
		t.Errorf("PublishedID = %q, want last appended %q", h.PublishedID, "v3")
	}
}

func TestPublish_ExplicitAndUnknown(t *testing.T) {
	h := versioning.New(v("v1", "one", time.Now()))
	h.Append(v("v2", "two", time.Now()))
	h.Publish("")

	if !h.Publish("v1") {
		t.Fatal("Publish(v1) = false")
	}
	if h.PublishedID != "v1" {
		t.Errorf("PublishedID = %q, want v1", h.PublishedID)
	}
	if h.Publish("nope") {
		t.Error("Publish(unknown) = true, want false")
	}
	if h.PublishedID != "v1" {
		t.Errorf("PublishedID after unknown publish = %q, want v1", h.PublishedID)
	}
}

func TestPublishedOrLatest_FallsBack(t *testing.T) {
	h := versioning.History[string]{}
	if _, ok := h.PublishedOrLatest(); ok {
		t.Error("PublishedOrLatest() on empty history returned ok")
	}

	h.Append(v("v1", "one", time.Now()))
	h.Append(v("v2", "two", time.Now()))
	got, ok := h.PublishedOrLatest()
	if !ok || got.ID != "v2" {
		t.Errorf("PublishedOrLatest() = %q, %v; want v2", got.ID, ok)
	}
	if h.Consistent() {
		t.Error("Consistent() = true with no published pointer")
	}
}

func TestClone_DoesNotAlias(t *testing.T) {
	h := versioning.New(v("v1", "one", time.Now()))
	c := h.Clone()
	c.Append(v("v2", "two", time.Now()))
	c.Publish("")

	if h.Len() != 1 || h.PublishedID != "v1" {
		t.Errorf("original mutated through clone: len=%d published=%q", h.Len(), h.PublishedID)
	}
	ids := c.IDs()
	if len(ids) != 2 || ids[0] != "v1" || ids[1] != "v2" {
		t.Errorf("IDs() = %v, want [v1 v2]", ids)
	}
}
