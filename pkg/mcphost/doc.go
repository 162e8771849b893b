// Package mcphost orchestrates a set of subprocess-backed Model Context
// Protocol (MCP) servers on behalf of a single supervising caller. It loads a
// Claude-style {"mcpServers": ...} configuration, establishes one stdio
// session per configured server, aggregates capability discovery (tools,
// prompts, resources) across every connected server, routes direct
// invocations to the server that owns them, and tears every subprocess down
// deterministically.
//
// # Core entry points
//
//   - Host is the long-lived orchestration type. Construct it with NewHost,
//     load a configuration with LoadConfig, then dial servers with
//     ConnectToServer or ConnectAll.
//   - ListAllTools, ListAllPrompts, and ListAllResources fan discovery out
//     across every connected server and return server-tagged merged results,
//     tolerating per-server failures.
//   - CallTool, GetPrompt, and ReadResource forward a single operation to one
//     named server with a bounded per-call deadline.
//   - Cleanup performs a two-phase teardown: a bounded concurrent session
//     close followed by an unconditional transport close, so a hung server
//     can never leak its subprocess.
//
// Bulk operations (ConnectAll and the ListAll* family) degrade gracefully:
// one misbehaving server is logged and skipped, never failing the whole
// request. Single-target operations fail loudly with the typed errors in this
// package (NotFoundError, NotConnectedError, ConnectError, RemoteError).
//
// The Host does not retry, reconnect, or health-check established sessions;
// a caller that observes a failure issues a fresh ConnectToServer itself.
// Callers are likewise expected to serialize the connect phase, the
// discovery/invocation phase, and Cleanup against each other.
package mcphost
