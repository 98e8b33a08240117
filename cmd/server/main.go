package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lichsu-edu/meono/internal/config"
	"github.com/lichsu-edu/meono/internal/content"
	"github.com/lichsu-edu/meono/internal/database"
	"github.com/lichsu-edu/meono/internal/handler/health"
	"github.com/lichsu-edu/meono/internal/migrations"
	"github.com/lichsu-edu/meono/internal/server"
	"github.com/lichsu-edu/meono/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Content DB ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, logger, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Games ---
	games := session.NewRegistry()
	sweeper, err := session.StartSweeper(logger, games, cfg.SweepEvery, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("starting sweeper: %w", err)
	}

	// --- HTTP Server ---
	healthz := health.NewHandler(logger, map[string]health.Checker{
		"sqlite": health.CheckerFunc(db.PingContext),
	}).Gauge("games", games.Len)

	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Games:       games,
		Content:     content.NewStore(db),
		Broker:      server.NewBroker(),
		Health:      healthz.Routes(),
		Rules:       cfg.Game.Rules(),
		DefaultDeck: cfg.DefaultDeck,
		UndoDepth:   cfg.UndoDepth,
		SPADir:      cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping session sweeper")
		return sweeper.Shutdown()
	})

	return g.Wait()
}
