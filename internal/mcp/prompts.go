package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("write_lesson",
		mcp.WithPromptDescription("Guide through writing a lesson topic from markdown"),
		mcp.WithArgument("topicId",
			mcp.ArgumentDescription("Topic to write into"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("subject",
			mcp.ArgumentDescription("What the lesson teaches"),
			mcp.RequiredArgument(),
		),
	), s.handleWriteLessonPrompt)
}

func (s *Server) handleWriteLessonPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topicID := req.Params.Arguments["topicId"]
	subject := req.Params.Arguments["subject"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Write a lesson about %s", subject),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Write a lesson about "%s" into topic %s. Follow these steps:

1. Draft the lesson as markdown. Supported lines: # to ###### headings, "- " bullets, "1. " numbered items, "> " quotes, "---" dividers, fenced code with a language, and pipe tables.
2. Preview the split with parse_markdown and fix anything that lands in the wrong block type.
3. Save it with import_markdown (replace=true to start over).
4. Check the result with render_topic, in both en and ar.

Keep paragraphs short. Put commands and payloads in code blocks.`, subject, topicID),
				},
			},
		},
	}, nil
}
