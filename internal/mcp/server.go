package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"academy/internal/log"
	"academy/internal/service"
)

// Server is the MCP server for academy topics.
// It exposes tools, resources and prompts so AI agents can read, render and
// author lessons.
type Server struct {
	mcp     *server.MCPServer
	emitter service.EventEmitter
	topics  *service.TopicService
	logger  *zap.Logger
}

// Deps holds the services the MCP server is built on.
type Deps struct {
	Emitter service.EventEmitter
	Topics  *service.TopicService
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	emitter := deps.Emitter
	if emitter == nil {
		emitter = service.LogEmitter{}
	}
	s := &Server{
		emitter: emitter,
		topics:  deps.Topics,
		logger:  log.Get().Named("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"academy-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTopicTools()
	s.registerMarkdownTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// emitTopicChanged notifies the front end that a topic was rewritten.
func (s *Server) emitTopicChanged(ctx context.Context, topicID string) {
	s.emitter.Emit(ctx, service.EventTopicReloaded, map[string]string{"topicId": topicID})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// requireTopic returns the topicId argument.
func requireTopic(req mcp.CallToolRequest) (string, error) {
	id := req.GetString("topicId", "")
	if id == "" {
		return "", fmt.Errorf("topicId is required")
	}
	return id, nil
}
