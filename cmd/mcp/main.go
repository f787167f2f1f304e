// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command mcp serves the story archive over the Model Context Protocol.
//
// # Startup Sequence
//
//  1. Initialize structured logger (stderr — stdout carries the protocol).
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent).
//  5. Wire the story tools and serve MCP on stdio.
//
// The MCP process is self-contained: pipeline agents spawn it per session,
// so there is no Redis coordination and no retention sweep here.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/atlance/internal/mcp"
	"github.com/taibuivan/atlance/internal/platform/config"
	"github.com/taibuivan/atlance/internal/platform/migration"
	pgstore "github.com/taibuivan/atlance/internal/platform/postgres"
	"github.com/taibuivan/atlance/internal/story"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Stdout is reserved for the stdio transport; all logging goes to stderr.
	rawLog := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "atlance-mcp"))
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Tool Wiring & Serve ────────────────────────────────────────────
	storyRepository := story.NewRepository(pool)
	storyService := story.NewService(storyRepository, log)
	storyTools := story.NewTools(storyService)

	server := mcp.NewServer(storyTools, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("mcp serve failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("mcp server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
