package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"academy/internal/render"
)

func (s *Server) registerTopicTools() {
	// ── list_blocks ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List the blocks of a topic in document order"),
		mcp.WithString("topicId",
			mcp.Description("ID of the topic"),
			mcp.Required(),
		),
	), s.handleListBlocks)

	// ── render_topic ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("render_topic",
		mcp.WithDescription("Render a topic as read-only HTML, the way learners see it"),
		mcp.WithString("topicId",
			mcp.Description("ID of the topic"),
			mcp.Required(),
		),
		mcp.WithString("lang",
			mcp.Description("Interface language for labels: en (default) or ar"),
			mcp.Enum("en", "ar"),
		),
	), s.handleRenderTopic)
}

func (s *Server) handleListBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, err := requireTopic(req)
	if err != nil {
		return nil, err
	}
	blocks, err := s.topics.ListBlocks(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return jsonResult(summarize(blocks))
}

func (s *Server) handleRenderTopic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, err := requireTopic(req)
	if err != nil {
		return nil, err
	}
	html, err := s.topics.RenderTopic(ctx, topicID, render.ParseLang(req.GetString("lang", "")))
	if err != nil {
		return nil, fmt.Errorf("render topic: %w", err)
	}
	return textResult(html), nil
}
