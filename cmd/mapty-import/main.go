package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/persist"
	"github.com/claude/mapty/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	file := flag.String("file", "", "path to a workouts JSON export (required)")
	merge := flag.Bool("merge", false, "append to stored workouts instead of replacing them")
	dryRun := flag.Bool("dry-run", false, "validate and report counts without writing")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *file == "" {
		fmt.Fprintf(os.Stderr, "Usage: mapty-import -config config.yaml -file workouts.json [-merge] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Error("failed to read export", "path", *file, "error", err)
		os.Exit(1)
	}

	imported, err := store.Deserialize(data)
	if err != nil {
		log.Error("export is not a valid workout list", "path", *file, "error", err)
		os.Exit(1)
	}
	log.Info("export parsed", "workouts", imported.Len())

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	backend, err := persist.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	target := imported
	if *merge {
		target, err = loadStored(ctx, backend)
		if err != nil {
			log.Error("failed to load stored workouts", "error", err)
			os.Exit(1)
		}
		added, skipped := target.Merge(imported)
		log.Info("merged", "added", added, "skipped_duplicates", skipped, "total", target.Len())
	}

	if *dryRun {
		log.Info("DRY RUN: nothing written", "would_store", target.Len())
		return
	}

	out, err := target.Serialize()
	if err != nil {
		log.Error("serialize failed", "error", err)
		os.Exit(1)
	}
	if err := backend.Save(ctx, out); err != nil {
		log.Error("save failed", "error", err)
		os.Exit(1)
	}
	log.Info("import complete", "stored", target.Len(), "storage", cfg.Storage.Driver)
}

func loadStored(ctx context.Context, b persist.Backend) (*store.Store, error) {
	data, err := b.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return store.New(), nil
	}
	return store.Deserialize(data)
}
