package mcphost

import (
	"context"
	"sync"
	"time"
)

// Cleanup tears down every registered connection in two phases.
//
// Phase 1 issues a close to every session concurrently and waits for whichever
// comes first: all closes finishing, Options.ShutdownTimeout elapsing, or ctx
// being cancelled. A hung session close must never block process exit, so the
// phase is cut short rather than waited out.
//
// Phase 2 always runs, whatever ended Phase 1: every transport is closed,
// reaping its subprocess. Transports map 1:1 to spawned child processes and
// skipping one leaks it indefinitely. Individual close failures in either
// phase are logged at Warn and do not stop the remaining closes.
//
// Afterward the registry is empty and the Host behaves as if it had never
// connected; a fresh ConnectToServer or ConnectAll may follow. Calling
// Cleanup again with nothing registered is a no-op.
func (h *Host) Cleanup(ctx context.Context) {
	h.mu.Lock()
	conns := make([]*connection, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[string]*connection)
	h.mu.Unlock()
	if len(conns) == 0 {
		return
	}

	// Phase 1: bounded concurrent session close.
	done := make(chan struct{})
	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := conn.session.Close(); err != nil {
				h.opts.Logger.Warn("mcphost: session close failed", "server", conn.name, "error", err)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(h.opts.ShutdownTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		h.opts.Logger.Warn("mcphost: session close phase timed out, closing transports anyway",
			"timeout", h.opts.ShutdownTimeout)
	case <-ctx.Done():
		h.opts.Logger.Warn("mcphost: session close phase cancelled, closing transports anyway",
			"error", ctx.Err())
	}

	// Phase 2: unconditional transport close.
	for _, conn := range conns {
		if err := conn.transport.Close(); err != nil && !isAlreadyClosed(err) {
			h.opts.Logger.Warn("mcphost: transport close failed", "server", conn.name, "error", err)
		}
	}
}
