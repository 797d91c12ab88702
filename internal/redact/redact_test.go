package redact_test

import (
	"encoding/json"
	"testing"

	"github.com/agentoven/concierge/internal/redact"
	"github.com/agentoven/concierge/pkg/models"
	"github.com/google/go-cmp/cmp"
)

func sampleProfile() redact.Record {
	return redact.Record{
		"industry": "Retail",
		"email":    "a@b.com",
		"website":  "https://x.com",
	}
}

func TestRedact_AllowlistOnly(t *testing.T) {
	policy := &models.PrivacyPolicy{
		ShareOnlyAllowlist: true,
		AllowlistKeys:      []string{"industry"},
		// Masking flags are irrelevant once the allowlist applies.
		MaskEmails:   true,
		AllowWebsite: true,
	}

	got := redact.Redact(policy, sampleProfile())
	want := redact.Record{"industry": "Retail"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Redact() mismatch (-want +got):\n%s", diff)
	}
}

func TestRedact_MaskEmailsWithoutWebsite(t *testing.T) {
	policy := &models.PrivacyPolicy{MaskEmails: true, AllowWebsite: false}

	got := redact.Redact(policy, sampleProfile())
	want := redact.Record{"industry": "Retail", "email": redact.Marker}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Redact() mismatch (-want +got):\n%s", diff)
	}
}

func TestRedact_NilPolicyWithholdsWebsiteOnly(t *testing.T) {
	got := redact.Redact(nil, sampleProfile())
	want := redact.Record{"industry": "Retail", "email": "a@b.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Redact(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestRedact_AllowWebsite(t *testing.T) {
	got := redact.Redact(&models.PrivacyPolicy{AllowWebsite: true}, sampleProfile())
	if got["website"] != "https://x.com" {
		t.Errorf("website = %v, want preserved", got["website"])
	}
}

func TestRedact_NestedPaths(t *testing.T) {
	profile := redact.Record{
		"industry": "Logistics",
		"companyOverview": map[string]any{
			"summary":   "Freight broker",
			"employees": 120.0,
		},
		"contact": "ops@globex.io",
		"size":    "mid",
	}
	policy := &models.PrivacyPolicy{
		ShareOnlyAllowlist: true,
		AllowlistKeys: []string{
			"companyOverview.summary",
			"industry",
			"companyOverview.missing",
			"industry.deeper", // through a string: absent
			"",
			"nope",
		},
	}

	got := redact.Redact(policy, profile)
	want := redact.Record{
		"industry":        "Logistics",
		"companyOverview": redact.Record{"summary": "Freight broker"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Redact() mismatch (-want +got):\n%s", diff)
	}
}

func TestRedact_AllowlistedSubtreeIsCopied(t *testing.T) {
	inner := map[string]any{"summary": "Freight broker"}
	profile := redact.Record{"companyOverview": inner}
	policy := &models.PrivacyPolicy{ShareOnlyAllowlist: true, AllowlistKeys: []string{"companyOverview"}}

	got := redact.Redact(policy, profile)
	sub, ok := got["companyOverview"].(redact.Record)
	if !ok {
		t.Fatalf("companyOverview = %T, want redact.Record", got["companyOverview"])
	}
	sub["summary"] = "changed"
	if inner["summary"] != "Freight broker" {
		t.Error("output aliases the input subtree")
	}
}

func TestRedact_DeepMasking(t *testing.T) {
	profile := redact.Record{
		"contacts": []any{
			map[string]any{"name": "Ana", "email": "ana@acme.com", "phone": "+1 (555) 123-4567"},
			map[string]any{"name": "Bo", "phone": "555-987-6543", "website": "bo.dev"},
		},
		"notes":   []string{"call 555.222.3333", "ceo@acme.com"},
		"founded": "2004-06-01",
		"social": map[string]any{
			"Website":  "https://acme.com",
			"linkedin": "acme",
		},
	}
	policy := &models.PrivacyPolicy{MaskEmails: true, MaskPhones: true}

	got := redact.Redact(policy, profile)
	want := redact.Record{
		"contacts": []any{
			redact.Record{"name": "Ana", "email": redact.Marker, "phone": redact.Marker},
			redact.Record{"name": "Bo", "phone": redact.Marker},
		},
		// Free text containing a number is not a phone value.
		"notes":   []any{"call 555.222.3333", redact.Marker},
		"founded": "2004-06-01",
		"social":  redact.Record{"linkedin": "acme"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Redact() mismatch (-want +got):\n%s", diff)
	}
}

type contactCard map[string]string

type handle string

func TestRedact_TypedContainers(t *testing.T) {
	inner := map[string]string{"email": "a@b.com", "website": "https://x.com", "name": "Ana"}
	profile := redact.Record{
		"contact": inner,
		"people":  []map[string]string{{"phone": "555-987-6543", "role": "ops"}},
		"card":    contactCard{"Website": "acme.com", "email": "ceo@acme.com"},
		"alias":   handle("bo@acme.com"),
		"tags":    [2]string{"vip", "x@y.io"},
		"opaque":  struct{ Email string }{"z@z.com"},
	}
	policy := &models.PrivacyPolicy{MaskEmails: true, MaskPhones: true}

	got := redact.Redact(policy, profile)
	want := redact.Record{
		"contact": redact.Record{"email": redact.Marker, "name": "Ana"},
		"people":  []any{redact.Record{"phone": redact.Marker, "role": "ops"}},
		"card":    redact.Record{"email": redact.Marker},
		"alias":   redact.Marker,
		"tags":    []any{"vip", redact.Marker},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Redact() mismatch (-want +got):\n%s", diff)
	}

	got["contact"].(redact.Record)["name"] = "changed"
	if inner["name"] != "Ana" || inner["email"] != "a@b.com" {
		t.Errorf("output aliases the input map: %v", inner)
	}
}

func TestRedact_OpaqueValuesPassOnlyWhenNothingIsRemoved(t *testing.T) {
	type note struct{ Text string }
	profile := redact.Record{"note": note{"hi"}}

	if got := redact.Redact(&models.PrivacyPolicy{AllowWebsite: true}, profile); got["note"] != (note{"hi"}) {
		t.Errorf("note = %v, want passed through", got["note"])
	}
	if got := redact.Redact(nil, profile); len(got) != 0 {
		t.Errorf("Redact(nil) = %v, want opaque value dropped", got)
	}
}

func TestLookup_TypedMaps(t *testing.T) {
	r := redact.Record{"companyOverview": map[string]string{"summary": "Freight"}}
	got, ok := r.Lookup("companyOverview.summary")
	if !ok || got != "Freight" {
		t.Errorf("Lookup() = %v, %v; want Freight, true", got, ok)
	}
	if _, ok := r.Lookup("companyOverview.summary.x"); ok {
		t.Error("Lookup() through a string should fail")
	}
}

func TestRedact_DoesNotMutateInputs(t *testing.T) {
	profile := redact.Record{
		"email":   "a@b.com",
		"website": "https://x.com",
		"nested":  map[string]any{"phone": "555-987-6543"},
	}
	policy := &models.PrivacyPolicy{MaskEmails: true, MaskPhones: true, AllowlistKeys: []string{"email"}}

	before, _ := json.Marshal(profile)
	policyBefore := *policy
	_ = redact.Redact(policy, profile)
	after, _ := json.Marshal(profile)

	if string(before) != string(after) {
		t.Errorf("profile mutated:\nbefore %s\nafter  %s", before, after)
	}
	if diff := cmp.Diff(policyBefore, *policy); diff != "" {
		t.Errorf("policy mutated (-before +after):\n%s", diff)
	}
}

func TestRedact_Deterministic(t *testing.T) {
	policy := &models.PrivacyPolicy{MaskEmails: true}
	a := redact.Redact(policy, sampleProfile())
	b := redact.Redact(policy, sampleProfile())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("two runs differ:\n%s", diff)
	}
}

func TestRedact_NilProfile(t *testing.T) {
	got := redact.Redact(&models.PrivacyPolicy{ShareOnlyAllowlist: true, AllowlistKeys: []string{"x"}}, nil)
	if len(got) != 0 {
		t.Errorf("allowlist over nil profile = %v, want empty", got)
	}
	got = redact.Redact(nil, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Redact(nil, nil) = %#v, want empty record", got)
	}
}

func TestLookup(t *testing.T) {
	r := redact.Record{"a": map[string]any{"b": redact.Record{"c": 1}}, "s": "x"}

	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"a.b.c", 1, true},
		{"a.b.x", nil, false},
		{"s.t", nil, false},
		{"", nil, false},
		{"s", "x", true},
	}
	for _, tt := range tests {
		got, ok := r.Lookup(tt.path)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectors(t *testing.T) {
	emails := map[string]bool{
		"a@b.com":            true,
		" sales@acme.co.uk ": true,
		"not an email":       false,
		"https://x.com":      false,
		"a@b":                false,
	}
	for in, want := range emails {
		if got := redact.IsEmail(in); got != want {
			t.Errorf("IsEmail(%q) = %v, want %v", in, got, want)
		}
	}

	phones := map[string]bool{
		"+1 (555) 123-4567":       true,
		"555-123-4567":            true,
		"5551234567":              true,
		"+44 20 7946 0958":        true,
		"2024":                    false,
		"2004-06-01":              false,
		"Retail":                  false,
		"call me at 555-123-4567": false,
	}
	for in, want := range phones {
		if got := redact.IsPhone(in); got != want {
			t.Errorf("IsPhone(%q) = %v, want %v", in, got, want)
		}
	}
}
