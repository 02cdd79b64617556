package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/service/router"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

const (
	ToolAsk             = "ask"
	ToolSearchDocuments = "search_documents"
	ToolQueryDatabase   = "query_database"
)

const questionSchema = `
{
  "type": "object",
  "properties": {
    "question": { "type": "string", "description": "Natural language question" }
  },
  "required": ["question"]
}
`

type Dispatcher interface {
	Run(ctx context.Context, current string, transcript []core.Message) (router.Response, error)
}

// Answerer is a responder that turns every failure into a readable answer.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

type toolDef struct {
	Description string
	Schema      string
	Handler     func(ctx context.Context, question string) (string, error)
}

// Server exposes the swarm as MCP tools over stdio.
type Server struct {
	mcp        *server.MCPServer
	dispatcher Dispatcher
	rag        Answerer
	sql        Answerer

	In  io.Reader
	Out io.Writer
}

func NewServer(d Dispatcher, rag, sql Answerer) *Server {
	s := &Server{
		mcp:        server.NewMCPServer(core.SwarmName, core.SwarmVersion, server.WithToolCapabilities(false)),
		dispatcher: d,
		rag:        rag,
		sql:        sql,
		In:         os.Stdin,
		Out:        os.Stdout,
	}

	defs := s.definitions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := defs[name]
		s.mcp.AddTool(
			mcpproto.NewToolWithRawSchema(name, def.Description, json.RawMessage(def.Schema)),
			s.handle(name, def.Handler),
		)
	}
	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("MCP server listening on stdio")
	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, s.In, s.Out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

func (s *Server) definitions() map[string]toolDef {
	return map[string]toolDef{
		ToolAsk: {
			"Ask the agent swarm. The coordinator routes the question to the document or database specialist.",
			questionSchema, s.ask,
		},
		ToolSearchDocuments: {
			"Answer a question from the research paper corpus, with sources.",
			questionSchema, s.searchDocuments,
		},
		ToolQueryDatabase: {
			"Answer a question about the music store database by generating and running SQL.",
			questionSchema, s.queryDatabase,
		},
	}
}

func (s *Server) handle(name string, fn func(context.Context, string) (string, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return mcpproto.NewToolResultError("question argument is required and must be a string"), nil
		}

		log.FromCtx(ctx).Debug().Str("tool", name).Str("question", question).Msg("mcp tool call")

		out, err := fn(ctx, question)
		if err != nil {
			return mcpproto.NewToolResultError(fmt.Sprintf("%s failed: %v", name, err)), nil
		}
		return mcpproto.NewToolResultText(out), nil
	}
}

type askResult struct {
	Agent  string   `json:"agent"`
	Answer string   `json:"answer"`
	Route  []string `json:"route"`
}

func (s *Server) ask(ctx context.Context, question string) (string, error) {
	transcript := []core.Message{core.UserMessage(question)}
	resp, err := s.dispatcher.Run(ctx, core.AgentCoordinator, transcript)
	if err != nil {
		return "", err
	}

	res := askResult{Agent: resp.Agent}
	for _, msg := range resp.Messages[len(transcript):] {
		res.Route = append(res.Route, msg.Sender)
		res.Answer = msg.Content
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	return string(data), nil
}

func (s *Server) searchDocuments(ctx context.Context, question string) (string, error) {
	return s.rag.Answer(ctx, question), nil
}

func (s *Server) queryDatabase(ctx context.Context, question string) (string, error) {
	return s.sql.Answer(ctx, question), nil
}
