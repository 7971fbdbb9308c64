package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"academy/internal/slash"
)

func (s *Server) registerResources() {
	// ── academy://block-types ──────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"academy://block-types",
		"Block Types",
		mcp.WithMIMEType("application/json"),
	), s.handleBlockTypesResource)

	// ── academy://topic/{topicId}/blocks ───────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"academy://topic/{topicId}/blocks",
			"Blocks of a Topic",
		),
		s.handleTopicBlocksResource,
	)
}

func (s *Server) handleBlockTypesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, _ := json.MarshalIndent(slash.Catalog, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "academy://block-types",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleTopicBlocksResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	topicID := topicFromURI(uri)
	if topicID == "" {
		return nil, fmt.Errorf("could not extract topicId from URI: %s", uri)
	}

	blocks, err := s.topics.ListBlocks(ctx, topicID)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(summarize(blocks), "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
