package mcphost

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CallTool invokes a tool on the named server. The server must already be in
// the connection registry; otherwise a *NotConnectedError is returned before
// any I/O. Remote failures propagate to the caller as a *RemoteError — unlike
// discovery there is no fallback target to substitute.
func (h *Host) CallTool(ctx context.Context, server, tool string, args any) (*mcp.CallToolResult, error) {
	conn, err := h.connection(server)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, h.opts.CallTimeout)
	defer cancel()
	res, err := conn.session.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return nil, remoteFailure(server, "tools/call", err)
	}
	return res, nil
}

// GetPrompt fetches a prompt template from the named server, routed and
// bounded the same way as CallTool.
func (h *Host) GetPrompt(ctx context.Context, server, prompt string, args map[string]string) (*mcp.GetPromptResult, error) {
	conn, err := h.connection(server)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, h.opts.CallTimeout)
	defer cancel()
	res, err := conn.session.GetPrompt(ctx, &mcp.GetPromptParams{Name: prompt, Arguments: args})
	if err != nil {
		return nil, remoteFailure(server, "prompts/get", err)
	}
	return res, nil
}

// ReadResource reads a resource by URI from the named server, routed and
// bounded the same way as CallTool.
func (h *Host) ReadResource(ctx context.Context, server, uri string) (*mcp.ReadResourceResult, error) {
	conn, err := h.connection(server)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, h.opts.CallTimeout)
	defer cancel()
	res, err := conn.session.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
	if err != nil {
		return nil, remoteFailure(server, "resources/read", err)
	}
	return res, nil
}
