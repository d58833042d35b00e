package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jerusalem-70-ad/jad-builder/internal/app"
	"github.com/jerusalem-70-ad/jad-builder/internal/queue"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/metrics"
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
	if !cfg.Queue.Enabled() {
		logger.Fatal("RABBITMQ_HOST is required for the worker")
	}

	deps, err := app.Open(ctx, cfg, queue.RebuildQueue)
	if err != nil {
		logger.Fatal("Failed to open backends", "err", err)
	}
	defer deps.Close()

	p, err := app.NewPipeline(ctx, cfg, deps, metrics.New(metrics.DefaultNamespace))
	if err != nil {
		logger.Fatal("Failed to create pipeline", "err", err)
	}

	// A separate consumer channel with prefetch=1 so only one rebuild is in
	// flight at a time.
	consumerCh, err := deps.Conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.RebuildQueue,
		queue.RebuildQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.RebuildQueue, "err", err)
	}

	logger.Info("Listening for rebuild requests")
	queue.Consume(ctx, consumerCh, queue.RebuildQueue, msgs, func(ctx context.Context, body []byte) error {
		var msg queue.RebuildMsg
		if err := json.Unmarshal(body, &msg); err != nil {
			logger.Warn("Ignoring malformed rebuild request", "err", err)
			return nil
		}
		logger.Info("Starting rebuild", "request", msg.ID, "reason", msg.Reason)
		_, err := p.Run(ctx)
		return err
	})
	logger.Info("Shutdown signal received, exiting...")
}
