package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"academy/internal/markdown"
	"academy/internal/slash"
)

func (s *Server) registerMarkdownTools() {
	s.mcp.AddTool(mcp.NewTool("parse_markdown",
		mcp.WithDescription("Preview how markdown would split into blocks, without saving anything"),
		mcp.WithString("markdown", mcp.Description("Markdown text"), mcp.Required()),
	), s.handleParseMarkdown)

	s.mcp.AddTool(mcp.NewTool("import_markdown",
		mcp.WithDescription("Convert markdown into blocks and save them to a topic"),
		mcp.WithString("topicId", mcp.Description("ID of the topic"), mcp.Required()),
		mcp.WithString("markdown", mcp.Description("Markdown text"), mcp.Required()),
		mcp.WithBoolean("replace", mcp.Description("Replace the topic's blocks instead of appending (default false)")),
	), s.handleImportMarkdown)

	s.mcp.AddTool(mcp.NewTool("slash_search",
		mcp.WithDescription("Search the block types an author can insert"),
		mcp.WithString("query", mcp.Description("Text matched against English and Arabic labels and descriptions")),
	), s.handleSlashSearch)
}

type recordSummary struct {
	Type     string         `json:"type"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (s *Server) handleParseMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records := markdown.Parse(req.GetString("markdown", ""))
	out := make([]recordSummary, len(records))
	for i, r := range records {
		out[i] = recordSummary{Type: string(r.Type), Content: r.Content}
		if r.Payload != nil {
			out[i].Metadata = r.Payload.Metadata()
		}
	}
	return jsonResult(out)
}

func (s *Server) handleImportMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, err := requireTopic(req)
	if err != nil {
		return nil, err
	}
	n, err := s.topics.Import(ctx, topicID, req.GetString("markdown", ""), req.GetBool("replace", false))
	if err != nil {
		return nil, fmt.Errorf("import markdown: %w", err)
	}
	s.emitTopicChanged(ctx, topicID)
	return textResult(fmt.Sprintf("Topic %s now has %d blocks", topicID, n)), nil
}

func (s *Server) handleSlashSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := slash.Filter(slash.Catalog, nil, req.GetString("query", ""))
	out := make([]slash.Command, 0, len(items))
	for _, it := range items {
		if !it.IsHeader() {
			out = append(out, *it.Command)
		}
	}
	return jsonResult(out)
}
