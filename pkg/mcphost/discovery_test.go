package mcphost

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func toolsResult(names ...string) *mcp.ListToolsResult {
	res := &mcp.ListToolsResult{}
	for _, name := range names {
		res.Tools = append(res.Tools, &mcp.Tool{Name: name})
	}
	return res
}

func TestListAllToolsMergesAndTags(t *testing.T) {
	t.Parallel()

	sessions := map[string]*fakeSession{
		"alpha": {listToolsFn: func(context.Context, *mcp.ListToolsParams) (*mcp.ListToolsResult, error) {
			return toolsResult("read_file", "write_file"), nil
		}},
		"beta": {listToolsFn: func(context.Context, *mcp.ListToolsParams) (*mcp.ListToolsResult, error) {
			return toolsResult("search"), nil
		}},
	}
	h := testHost(t, nil, sessions, nil)
	h.ConnectAll(context.Background())

	tools := h.ListAllTools(context.Background())
	if len(tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(tools))
	}
	// Registry order (sorted names), then each server's own item order.
	expect := []struct{ server, name string }{
		{"alpha", "read_file"},
		{"alpha", "write_file"},
		{"beta", "search"},
	}
	for i, want := range expect {
		if tools[i].Server != want.server || tools[i].Tool.Name != want.name {
			t.Fatalf("tools[%d] = %s/%s, expected %s/%s",
				i, tools[i].Server, tools[i].Tool.Name, want.server, want.name)
		}
	}
}

func TestListAllToolsUnsupportedServerSkipped(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	opts := &Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	sessions := map[string]*fakeSession{
		"bare": {listToolsFn: func(context.Context, *mcp.ListToolsParams) (*mcp.ListToolsResult, error) {
			return nil, errors.New("jsonrpc2: code -32601: method \"tools/list\" not found")
		}},
		"full": {listToolsFn: func(context.Context, *mcp.ListToolsParams) (*mcp.ListToolsResult, error) {
			return toolsResult("echo"), nil
		}},
	}
	h := testHost(t, opts, sessions, nil)
	h.ConnectAll(context.Background())

	tools := h.ListAllTools(context.Background())
	if len(tools) != 1 || tools[0].Server != "full" || tools[0].Tool.Name != "echo" {
		t.Fatalf("unexpected merged tools: %+v", tools)
	}
	for _, st := range tools {
		if st.Server == "bare" {
			t.Fatalf("unsupported server must contribute zero descriptors")
		}
	}
	if logged := buf.String(); !strings.Contains(logged, "unsupported") || !strings.Contains(logged, "server=bare") {
		t.Fatalf("expected unsupported warn log, got %q", logged)
	}
}

func TestListAllPromptsNoConnections(t *testing.T) {
	t.Parallel()

	// Configuration loaded but nothing ever connected: vacuous fan-out.
	h := NewHost(&Options{Logger: quietLogger()})
	h.cfg = &Config{MCPServers: map[string]ServerConfig{"a": {Command: "srv"}}}

	if prompts := h.ListAllPrompts(context.Background()); len(prompts) != 0 {
		t.Fatalf("expected empty prompt list, got %+v", prompts)
	}
}

func TestListAllPromptsTagsResults(t *testing.T) {
	t.Parallel()

	sessions := map[string]*fakeSession{
		"alpha": {listPromptsFn: func(context.Context, *mcp.ListPromptsParams) (*mcp.ListPromptsResult, error) {
			return &mcp.ListPromptsResult{Prompts: []*mcp.Prompt{{Name: "summarize"}}}, nil
		}},
	}
	h := testHost(t, nil, sessions, nil)
	h.ConnectAll(context.Background())

	prompts := h.ListAllPrompts(context.Background())
	if len(prompts) != 1 || prompts[0].Server != "alpha" || prompts[0].Prompt.Name != "summarize" {
		t.Fatalf("unexpected prompts: %+v", prompts)
	}
}

func TestListAllResourcesGenericErrorSkipped(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	opts := &Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	sessions := map[string]*fakeSession{
		"x": {listResourcesFn: func(context.Context, *mcp.ListResourcesParams) (*mcp.ListResourcesResult, error) {
			return nil, errors.New("connection reset by peer")
		}},
		"y": {listResourcesFn: func(context.Context, *mcp.ListResourcesParams) (*mcp.ListResourcesResult, error) {
			return &mcp.ListResourcesResult{Resources: []*mcp.Resource{{URI: "file:///data/readme"}}}, nil
		}},
	}
	h := testHost(t, opts, sessions, nil)
	h.ConnectAll(context.Background())

	resources := h.ListAllResources(context.Background())
	if len(resources) != 1 || resources[0].Server != "y" || resources[0].Resource.URI != "file:///data/readme" {
		t.Fatalf("unexpected resources: %+v", resources)
	}
	logged := buf.String()
	if !strings.Contains(logged, "discovery failed") || !strings.Contains(logged, "server=x") {
		t.Fatalf("expected warn log for server x, got %q", logged)
	}
}

func TestDiscoveryAfterPartialConnect(t *testing.T) {
	t.Parallel()

	// Scenario: server "b" fails to spawn; listing tools afterwards only
	// reflects the servers that made it into the registry.
	sessions := map[string]*fakeSession{
		"a": {listToolsFn: func(context.Context, *mcp.ListToolsParams) (*mcp.ListToolsResult, error) {
			return toolsResult("ping"), nil
		}},
		"b": nil,
	}
	h := testHost(t, nil, sessions, nil)
	h.ConnectAll(context.Background())

	tools := h.ListAllTools(context.Background())
	if len(tools) != 1 || tools[0].Server != "a" {
		t.Fatalf("expected only a-tagged tools, got %+v", tools)
	}
}
