package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jerusalem-70-ad/jad-builder/internal/app"
	"github.com/jerusalem-70-ad/jad-builder/internal/queue"
	"github.com/jerusalem-70-ad/jad-builder/internal/server"
	"github.com/jerusalem-70-ad/jad-builder/internal/server/middleware"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/metrics"
	pgxstore "github.com/jerusalem-70-ad/jad-builder/pkg/store/pgx"
)

func main() {
	configPath := flag.String("config", "", "config file (default jad.yaml when present)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.Setup(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Database.Enabled() {
		logger.Fatal("DATABASE_URL is required for the server")
	}

	// Only the publishing side is needed; the worker owns consumption.
	deps, err := app.Open(ctx, cfg, queue.RebuildQueue)
	if err != nil {
		logger.Fatal("Failed to open backends", "err", err)
	}
	defer deps.Close()

	a := &middleware.App{
		Store:   pgxstore.NewGraphDBStorageWithConnection(deps.Pool),
		Cache:   server.NewGraphCache(cfg.Server.CacheSize),
		Metrics: metrics.New(metrics.DefaultNamespace),
	}
	if deps.Channel != nil {
		a.Queue = deps.Channel
	} else {
		logger.Warn("RabbitMQ not configured, rebuild requests are disabled")
	}

	e := server.New(server.Params{App: a, APIKey: cfg.Server.APIKey})
	if err := server.Run(ctx, e, cfg.Server.Port); err != nil {
		logger.Fatal("Server stopped", "err", err)
	}
}
