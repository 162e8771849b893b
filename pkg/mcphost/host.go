package mcphost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Options configure a Host instance.
type Options struct {
	// ClientName is advertised to servers during the handshake. Defaults to
	// "mcp-host".
	ClientName string
	// ClientVersion is the semantic version reported to servers. Defaults to
	// "1.0.0".
	ClientVersion string
	// ConnectTimeout bounds subprocess spawn plus handshake for one server.
	// Defaults to 30 seconds.
	ConnectTimeout time.Duration
	// DiscoveryTimeout bounds each per-server list call during aggregation.
	// Discovery can enumerate large catalogs, so the default is deliberately
	// generous: 2 minutes.
	DiscoveryTimeout time.Duration
	// CallTimeout bounds each direct invocation (CallTool, GetPrompt,
	// ReadResource). Defaults to 60 seconds.
	CallTimeout time.Duration
	// ShutdownTimeout bounds the client-close phase of Cleanup. Defaults to
	// 5 seconds.
	ShutdownTimeout time.Duration
	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o *Options) withDefaults() Options {
	var opts Options
	if o != nil {
		opts = *o
	}
	if opts.ClientName == "" {
		opts.ClientName = "mcp-host"
	}
	if opts.ClientVersion == "" {
		opts.ClientVersion = "1.0.0"
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 30 * time.Second
	}
	if opts.DiscoveryTimeout <= 0 {
		opts.DiscoveryTimeout = 2 * time.Minute
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

// clientSession is the slice of *mcp.ClientSession the Host depends on. Tests
// substitute fakes; production sessions come from the SDK.
type clientSession interface {
	ListTools(context.Context, *mcp.ListToolsParams) (*mcp.ListToolsResult, error)
	ListPrompts(context.Context, *mcp.ListPromptsParams) (*mcp.ListPromptsResult, error)
	ListResources(context.Context, *mcp.ListResourcesParams) (*mcp.ListResourcesResult, error)
	CallTool(context.Context, *mcp.CallToolParams) (*mcp.CallToolResult, error)
	GetPrompt(context.Context, *mcp.GetPromptParams) (*mcp.GetPromptResult, error)
	ReadResource(context.Context, *mcp.ReadResourceParams) (*mcp.ReadResourceResult, error)
	Close() error
}

// dialFunc establishes a session to one configured server, returning the
// protocol client handle and the transport handle that owns the subprocess.
type dialFunc func(ctx context.Context, name string, cfg ServerConfig) (clientSession, io.Closer, error)

// connection pairs a protocol client with its originating transport. Entries
// are created only after a successful handshake and destroyed only by
// Cleanup.
type connection struct {
	name      string
	session   clientSession
	transport io.Closer
}

// Host owns the name-keyed connection registry and drives connection
// establishment, capability aggregation, invocation routing, and teardown.
//
// The registry is guarded by a mutex, but the Host still expects callers to
// serialize the connect phase against Cleanup: connecting while a cleanup is
// in flight yields a registry the caller cannot reason about.
type Host struct {
	opts Options
	dial dialFunc

	mu    sync.RWMutex
	cfg   *Config
	conns map[string]*connection
}

// NewHost constructs a Host. Pass nil options to accept the defaults.
func NewHost(opts *Options) *Host {
	h := &Host{
		opts:  opts.withDefaults(),
		conns: make(map[string]*connection),
	}
	h.dial = h.dialStdio
	return h
}

// LoadConfig reads and parses the configuration file at path. It must be
// called before any connect operation and at most once per Host; the loaded
// configuration is immutable afterward.
func (h *Host) LoadConfig(path string) error {
	cfg, err := ReadConfig(path)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg != nil {
		return fmt.Errorf("mcphost: configuration already loaded")
	}
	h.cfg = cfg
	return nil
}

// Servers returns the configured server names in sorted order, or nil when no
// configuration has been loaded.
func (h *Host) Servers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg.Names()
}

// ConnectedServers returns the names currently present in the connection
// registry, sorted. Callers inspect this after ConnectAll to learn which
// servers actually came up.
func (h *Host) ConnectedServers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.conns))
	for name := range h.conns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConnectToServer spawns the named server's subprocess, performs the protocol
// handshake, and registers the resulting connection. On any failure nothing
// is registered and a *NotFoundError or *ConnectError is returned; a
// handshake failure closes the already-spawned transport before returning.
// Reconnecting a name that is already registered overwrites the prior entry.
func (h *Host) ConnectToServer(ctx context.Context, name string) error {
	h.mu.RLock()
	sc, ok := h.cfg.Lookup(name)
	h.mu.RUnlock()
	if !ok {
		return &NotFoundError{Server: name}
	}

	ctx, cancel := context.WithTimeout(ctx, h.opts.ConnectTimeout)
	defer cancel()
	session, transport, err := h.dial(ctx, name, sc)
	if err != nil {
		return &ConnectError{Server: name, Err: err}
	}

	h.mu.Lock()
	h.conns[name] = &connection{name: name, session: session, transport: transport}
	h.mu.Unlock()
	return nil
}

// ConnectAll dials every configured server sequentially in sorted-name order
// and returns the names that connected. Sequential dialing bounds the number
// of simultaneous process launches to one and keeps connection logs readable.
// A failure for one server is logged at Warn and does not halt the rest;
// inspect the returned names (or ConnectedServers) rather than assuming full
// connectivity.
func (h *Host) ConnectAll(ctx context.Context) []string {
	var connected []string
	for _, name := range h.Servers() {
		if err := h.ConnectToServer(ctx, name); err != nil {
			h.opts.Logger.Warn("mcphost: connect failed", "server", name, "error", err)
			continue
		}
		connected = append(connected, name)
	}
	return connected
}

// connection resolves name against the registry without touching the network.
func (h *Host) connection(name string) (*connection, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conn, ok := h.conns[name]
	if !ok {
		return nil, &NotConnectedError{Server: name}
	}
	return conn, nil
}

// connections snapshots the registry in sorted-name order. Merged discovery
// output follows this order.
func (h *Host) connections() []*connection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := make([]*connection, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i].name < conns[j].name })
	return conns
}

// dialStdio is the production dialer: it builds the subprocess command,
// connects the SDK client over a stdio transport, and hands back the session
// together with the transport handle used later for the unconditional close.
func (h *Host) dialStdio(ctx context.Context, name string, sc ServerConfig) (clientSession, io.Closer, error) {
	if sc.Command == "" {
		return nil, nil, fmt.Errorf("mcphost: command missing for %q", name)
	}
	cmd := exec.Command(sc.Command, sc.Args...)
	if len(sc.Env) > 0 {
		env := os.Environ()
		for k, v := range sc.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = env
	}
	transport := &trackedTransport{delegate: &mcp.CommandTransport{Command: cmd}}
	client := mcp.NewClient(&mcp.Implementation{
		Name:    h.opts.ClientName,
		Version: h.opts.ClientVersion,
	}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		// The handshake can fail after the subprocess has spawned; closing
		// the captured transport reaps it so no orphan survives the error.
		_ = transport.Close()
		return nil, nil, err
	}
	return session, transport, nil
}

// trackedTransport wraps an mcp.Transport and keeps the connection it
// produced, giving Cleanup a transport-level close handle that is independent
// of the session. The connection maps 1:1 to the spawned subprocess.
type trackedTransport struct {
	delegate mcp.Transport

	mu   sync.Mutex
	conn mcp.Connection
}

func (t *trackedTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	conn, err := t.delegate.Connect(ctx)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	return conn, nil
}

func (t *trackedTransport) Close() error {
	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// isAlreadyClosed filters the benign errors a transport close reports when
// the session close in Phase 1 already tore the pipe down.
func isAlreadyClosed(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, fs.ErrClosed) || errors.Is(err, os.ErrProcessDone)
}
