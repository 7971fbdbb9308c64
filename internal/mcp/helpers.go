package mcpserver

import (
	"strings"

	"academy/internal/domain"
)

// blockSummary is the agent-facing view of one block.
type blockSummary struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Preview  string         `json:"preview"` // first 200 chars of content
	Metadata map[string]any `json:"metadata,omitempty"`
}

func summarizeBlock(b domain.Block) blockSummary {
	preview := b.Content
	if r := []rune(preview); len(r) > 200 {
		preview = string(r[:200]) + "..."
	}
	var meta map[string]any
	if b.Payload != nil {
		meta = b.Payload.Metadata()
	}
	return blockSummary{
		ID:       b.ID,
		Type:     string(b.Type),
		Preview:  preview,
		Metadata: meta,
	}
}

func summarize(blocks []domain.Block) []blockSummary {
	out := make([]blockSummary, len(blocks))
	for i, b := range blocks {
		out[i] = summarizeBlock(b)
	}
	return out
}

// topicFromURI extracts the topic id from "academy://topic/{id}/blocks".
func topicFromURI(uri string) string {
	const prefix = "academy://topic/"
	const suffix = "/blocks"
	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
}
