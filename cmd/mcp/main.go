// Command mcp exposes document search as MCP tools over stdio.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/silindokuhleL/document-search-portal/internal/adapters/mcp"
	"github.com/silindokuhleL/document-search-portal/internal/bootstrap"
	"github.com/silindokuhleL/document-search-portal/internal/config"
	"github.com/silindokuhleL/document-search-portal/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	// stdout carries the protocol.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := mcpadapter.NewServer(app.SearchUC).Serve(ctx); err != nil {
		slog.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
