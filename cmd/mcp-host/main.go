// Command mcp-host connects to every server in a {"mcpServers": ...}
// configuration file, discovers their tools, prompts, and resources, and
// writes the merged capability catalog as YAML.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/toolforge/mcp-host-go/pkg/catalog"
	"github.com/toolforge/mcp-host-go/pkg/mcphost"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "mcp-servers.json", "path to the mcpServers configuration file")
	outputPath := flag.String("output", "", "write the catalog to this file instead of stdout")
	connectTimeout := flag.Duration("connect-timeout", 30*time.Second, "per-server connect timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := mcphost.NewHost(&mcphost.Options{
		ClientName:     "mcp-host",
		ConnectTimeout: *connectTimeout,
		Logger:         logger,
	})
	if err := host.LoadConfig(*configPath); err != nil {
		logger.Error("load configuration", "error", err)
		return err
	}
	// Cleanup runs on a fresh context so a Ctrl-C that cancelled ctx still
	// gets a bounded, two-phase teardown.
	defer host.Cleanup(context.Background())

	connected := host.ConnectAll(ctx)
	logger.Info("servers connected", "connected", len(connected), "configured", len(host.Servers()))

	snap := catalog.Build(ctx, host)
	if *outputPath != "" {
		if err := snap.WriteFile(*outputPath); err != nil {
			logger.Error("write catalog", "path", *outputPath, "error", err)
			return err
		}
		logger.Info("catalog written", "path", *outputPath)
		return nil
	}
	if err := snap.WriteYAML(os.Stdout); err != nil {
		logger.Error("write catalog", "error", err)
		return err
	}
	return nil
}
