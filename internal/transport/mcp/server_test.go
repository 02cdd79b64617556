package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/service/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct {
	err error
}

func (d stubDispatcher) Run(ctx context.Context, current string, transcript []core.Message) (router.Response, error) {
	if d.err != nil {
		return router.Response{Messages: transcript, Agent: current}, d.err
	}
	msgs := append(transcript,
		core.AgentMessage(core.AgentCoordinator, "Transferring to **SQL Agent**."),
		core.AgentMessage(core.AgentSQL, "There are 347 albums."),
	)
	return router.Response{Messages: msgs, Agent: core.AgentSQL}, nil
}

type stubAnswerer string

func (a stubAnswerer) Answer(ctx context.Context, question string) string {
	return string(a) + ": " + question
}

func newTestClient(t *testing.T, s *Server) *client.Client {
	t.Helper()
	ctx := context.Background()

	c, err := client.NewInProcessClient(s.MCP())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Start(ctx))

	initReq := mcpproto.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcpproto.Implementation{Name: "test", Version: "0.0.0"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()

	req := mcpproto.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	switch content := res.Content[0].(type) {
	case mcpproto.TextContent:
		return content.Text, res.IsError
	case *mcpproto.TextContent:
		return content.Text, res.IsError
	default:
		t.Fatalf("unexpected content %T", content)
		return "", false
	}
}

func TestServer_ListTools(t *testing.T) {
	c := newTestClient(t, NewServer(stubDispatcher{}, stubAnswerer("rag"), stubAnswerer("sql")))

	res, err := c.ListTools(context.Background(), mcpproto.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolAsk, ToolSearchDocuments, ToolQueryDatabase}, names)
}

func TestServer_Ask(t *testing.T) {
	c := newTestClient(t, NewServer(stubDispatcher{}, stubAnswerer("rag"), stubAnswerer("sql")))

	text, isErr := callTool(t, c, ToolAsk, map[string]any{"question": "How many albums?"})
	require.False(t, isErr)

	var res askResult
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	assert.Equal(t, core.AgentSQL, res.Agent)
	assert.Equal(t, "There are 347 albums.", res.Answer)
	assert.Equal(t, []string{core.AgentCoordinator, core.AgentSQL}, res.Route)
}

func TestServer_AskError(t *testing.T) {
	c := newTestClient(t, NewServer(stubDispatcher{err: errors.New("boom")}, stubAnswerer("rag"), stubAnswerer("sql")))

	text, isErr := callTool(t, c, ToolAsk, map[string]any{"question": "q"})
	assert.True(t, isErr)
	assert.Contains(t, text, "boom")
}

func TestServer_Specialists(t *testing.T) {
	c := newTestClient(t, NewServer(stubDispatcher{}, stubAnswerer("rag"), stubAnswerer("sql")))

	text, isErr := callTool(t, c, ToolSearchDocuments, map[string]any{"question": "attention"})
	assert.False(t, isErr)
	assert.Equal(t, "rag: attention", text)

	text, isErr = callTool(t, c, ToolQueryDatabase, map[string]any{"question": "albums"})
	assert.False(t, isErr)
	assert.Equal(t, "sql: albums", text)
}

func TestServer_MissingQuestion(t *testing.T) {
	c := newTestClient(t, NewServer(stubDispatcher{}, stubAnswerer("rag"), stubAnswerer("sql")))

	for _, args := range []map[string]any{{}, {"question": 42}, {"question": ""}} {
		text, isErr := callTool(t, c, ToolQueryDatabase, args)
		assert.True(t, isErr)
		assert.Contains(t, text, "question argument is required")
	}
}
