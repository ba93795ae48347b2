package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/repsense/internal/catalog"
	"github.com/claude/repsense/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mappingPath := flag.String("mapping", "", "path to exercise mapping JSON (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the catalog")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *mappingPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: repsense-import -config config.yaml -mapping exercises.json [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*mappingPath)
	if err != nil {
		log.Error("failed to open mapping file", "path", *mappingPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if *dryRun {
		log.Info("DRY RUN mode — no data will be written to the catalog")
		entries, err := catalog.ParseMapping(f)
		if err != nil {
			log.Error("mapping parse failed", "error", err)
			os.Exit(1)
		}
		perCategory := map[string]int{}
		for _, e := range entries {
			perCategory[string(e.Category)]++
		}
		log.Info("mapping parsed", "exercises", len(entries))
		for cat, n := range perCategory {
			log.Info("category", "name", cat, "exercises", n)
		}
		return
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		log.Error("failed to open catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	defer cat.Close()

	n, err := cat.ImportMapping(context.Background(), f)
	if err != nil {
		log.Error("import failed", "imported", n, "error", err)
		os.Exit(1)
	}

	total, err := cat.Count(context.Background())
	if err != nil {
		total = -1
	}
	log.Info("import complete", "imported", n, "catalog_total", total)
}
