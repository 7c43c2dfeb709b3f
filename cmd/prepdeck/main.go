package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/maurya-sachin/prepdeck/internal/config"
	"github.com/maurya-sachin/prepdeck/internal/deck"
	"github.com/maurya-sachin/prepdeck/internal/gitsource"
	"github.com/maurya-sachin/prepdeck/internal/publish"
	"github.com/maurya-sachin/prepdeck/internal/storage"
	"github.com/maurya-sachin/prepdeck/internal/web"
)

const gitSyncTimeout = 2 * time.Minute

func main() {
	flags := config.Flags("prepdeck")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	mode := "serve"
	if flags.NArg() > 0 {
		mode = flags.Arg(0)
	}

	switch mode {
	case "serve":
		runServe(cfg, logger)
	case "publish":
		runPublish(cfg)
	case "sync":
		runSync(cfg)
	default:
		log.Fatalf("Unknown command %q (expected serve, publish or sync)", mode)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// syncContent refreshes the content checkout when a git source is
// configured. A failed sync is not fatal: the previous checkout keeps
// serving.
func syncContent(cfg config.Config) {
	if cfg.ContentGit == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), gitSyncTimeout)
	defer cancel()
	if err := gitsource.Sync(ctx, cfg.ContentGit, cfg.ContentRoot); err != nil {
		slog.Warn("content sync failed, serving existing checkout", "error", err)
	}
}

func runServe(cfg config.Config, logger *slog.Logger) {
	syncContent(cfg)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	logger.Info("database opened", "path", cfg.DBPath)

	registry := cfg.Registry()
	loader := deck.NewLoader(registry, cfg.ContentRoot)
	srv := web.NewServer(db, registry, loader,
		time.Duration(cfg.AdvanceDelayMS)*time.Millisecond, logger)

	logger.Info("listening", "addr", cfg.ListenAddr, "decks", len(registry.IDs()))
	if err := http.ListenAndServe(cfg.ListenAddr, srv); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runPublish(cfg config.Config) {
	syncContent(cfg)

	report, err := publish.Run(cfg.ContentRoot, cfg.ContentDirs, cfg.OutputDir)
	if err != nil {
		log.Fatalf("Publish failed: %v", err)
	}

	fmt.Printf("Copied %d markdown files into %s.\n", report.FilesCopied, cfg.OutputDir)
	if len(report.RootsSkipped) > 0 {
		fmt.Println("\nSkipped missing content folders:")
		for _, root := range report.RootsSkipped {
			fmt.Printf("- %s\n", root)
		}
	}
}

func runSync(cfg config.Config) {
	if cfg.ContentGit == "" {
		log.Fatalf("sync requires content_git to be configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), gitSyncTimeout)
	defer cancel()
	if err := gitsource.Sync(ctx, cfg.ContentGit, cfg.ContentRoot); err != nil {
		log.Fatalf("Content sync failed: %v", err)
	}
	fmt.Printf("Content checkout at %s is up to date.\n", cfg.ContentRoot)
}
