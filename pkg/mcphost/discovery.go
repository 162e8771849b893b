package mcphost

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

// ServerTool is a discovered tool tagged with its originating server.
type ServerTool struct {
	Server string
	Tool   *mcp.Tool
}

// ServerPrompt is a discovered prompt template tagged with its originating
// server.
type ServerPrompt struct {
	Server string
	Prompt *mcp.Prompt
}

// ServerResource is a discovered resource tagged with its originating server.
type ServerResource struct {
	Server   string
	Resource *mcp.Resource
}

// ListAllTools fans a tools/list call out across every connected server and
// merges the results in registry order, preserving each server's own item
// order. A server that reports tools/list as unsupported is skipped quietly;
// any other per-server failure is logged at Warn and skipped. The call never
// fails as a whole, and with zero connections it returns an empty result.
func (h *Host) ListAllTools(ctx context.Context) []ServerTool {
	conns := h.connections()
	results := make([][]ServerTool, len(conns))
	var g errgroup.Group
	for i, conn := range conns {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, h.opts.DiscoveryTimeout)
			defer cancel()
			res, err := conn.session.ListTools(ctx, nil)
			if err != nil {
				h.warnSkipped(remoteFailure(conn.name, "tools/list", err))
				return nil
			}
			tagged := make([]ServerTool, 0, len(res.Tools))
			for _, tool := range res.Tools {
				tagged = append(tagged, ServerTool{Server: conn.name, Tool: tool})
			}
			results[i] = tagged
			return nil
		})
	}
	_ = g.Wait()

	var merged []ServerTool
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged
}

// ListAllPrompts is the prompt analogue of ListAllTools, with the same
// ordering and per-server error policy.
func (h *Host) ListAllPrompts(ctx context.Context) []ServerPrompt {
	conns := h.connections()
	results := make([][]ServerPrompt, len(conns))
	var g errgroup.Group
	for i, conn := range conns {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, h.opts.DiscoveryTimeout)
			defer cancel()
			res, err := conn.session.ListPrompts(ctx, nil)
			if err != nil {
				h.warnSkipped(remoteFailure(conn.name, "prompts/list", err))
				return nil
			}
			tagged := make([]ServerPrompt, 0, len(res.Prompts))
			for _, prompt := range res.Prompts {
				tagged = append(tagged, ServerPrompt{Server: conn.name, Prompt: prompt})
			}
			results[i] = tagged
			return nil
		})
	}
	_ = g.Wait()

	var merged []ServerPrompt
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged
}

// ListAllResources is the resource analogue of ListAllTools, with the same
// ordering and per-server error policy.
func (h *Host) ListAllResources(ctx context.Context) []ServerResource {
	conns := h.connections()
	results := make([][]ServerResource, len(conns))
	var g errgroup.Group
	for i, conn := range conns {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, h.opts.DiscoveryTimeout)
			defer cancel()
			res, err := conn.session.ListResources(ctx, nil)
			if err != nil {
				h.warnSkipped(remoteFailure(conn.name, "resources/list", err))
				return nil
			}
			tagged := make([]ServerResource, 0, len(res.Resources))
			for _, resource := range res.Resources {
				tagged = append(tagged, ServerResource{Server: conn.name, Resource: resource})
			}
			results[i] = tagged
			return nil
		})
	}
	_ = g.Wait()

	var merged []ServerResource
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged
}

func (h *Host) warnSkipped(err *RemoteError) {
	if err.Unsupported {
		h.opts.Logger.Warn("mcphost: discovery method unsupported, skipping server",
			"server", err.Server, "method", err.Method)
		return
	}
	h.opts.Logger.Warn("mcphost: discovery failed, skipping server",
		"server", err.Server, "method", err.Method, "error", err.Err)
}
