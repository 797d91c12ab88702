package hub

import (
	"context"
	"strings"

	"github.com/agentoven/concierge/internal/redact"
	"github.com/agentoven/concierge/internal/telemetry"
	"github.com/agentoven/concierge/pkg/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RedactedForAgent reduces profile under the agent's own privacy policy.
// A parent's policy is never consulted. The second result is false when the
// agent is unknown.
func (h *Hub) RedactedForAgent(ctx context.Context, agentID string, profile redact.Record) (redact.Record, bool) {
	_, span := telemetry.Tracer().Start(ctx, "hub.RedactedForAgent")
	defer span.End()
	span.SetAttributes(attribute.String("agent.id", agentID))

	h.mu.RLock()
	a, ok := h.agents.Get(agentID)
	h.mu.RUnlock()
	if !ok {
		span.SetStatus(codes.Error, "agent not found")
		return nil, false
	}

	out := redact.Redact(a.Privacy, profile)
	span.SetAttributes(
		attribute.Bool("privacy.policy", a.Privacy != nil),
		attribute.Bool("privacy.allowlist", a.Privacy != nil && a.Privacy.ShareOnlyAllowlist),
		attribute.Int("profile.fields_in", len(profile)),
		attribute.Int("profile.fields_out", len(out)),
	)
	return out, true
}

// SystemPrompt composes the instruction text handed to a completion
// service: base instructions, persona, then the first effective training
// items in catalog order.
func (h *Hub) SystemPrompt(agentID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	a, ok := h.agents.Get(agentID)
	if !ok {
		return "", false
	}
	items, _ := h.effectiveTraining(agentID)
	return composePrompt(a, items, h.promptLimit), true
}

func composePrompt(a models.Agent, items []models.TrainingItem, limit int) string {
	var sections []string
	if s := strings.TrimSpace(a.Instructions); s != "" {
		sections = append(sections, s)
	}
	if s := strings.TrimSpace(a.Persona); s != "" {
		sections = append(sections, "Persona: "+s)
	}

	if limit > len(items) {
		limit = len(items)
	}
	if limit > 0 {
		parts := make([]string, 0, limit+1)
		parts = append(parts, "Training:")
		for _, it := range items[:limit] {
			parts = append(parts, "### "+it.Title+"\n"+strings.TrimSpace(it.PublishedContent()))
		}
		sections = append(sections, strings.Join(parts, "\n\n"))
	}
	return strings.Join(sections, "\n\n")
}
