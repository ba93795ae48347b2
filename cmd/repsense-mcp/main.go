package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/repsense/internal/catalog"
	"github.com/claude/repsense/internal/config"
	"github.com/claude/repsense/internal/mcp"
	"github.com/claude/repsense/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// MCP speaks JSON-RPC on stdout, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		log.Error("failed to open exercise catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	defer cat.Close()

	s := mcp.New(db, cat, Version, log)
	log.Info("RepSense MCP server starting", "version", Version)

	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
