// Package app wires configuration into the long-lived clients shared by the
// builder, worker and server binaries.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"

	"github.com/jerusalem-70-ad/jad-builder/internal/config"
	"github.com/jerusalem-70-ad/jad-builder/internal/db"
	"github.com/jerusalem-70-ad/jad-builder/internal/pipeline"
	"github.com/jerusalem-70-ad/jad-builder/internal/queue"
	"github.com/jerusalem-70-ad/jad-builder/internal/storage"
	"github.com/jerusalem-70-ad/jad-builder/internal/util"
	"github.com/jerusalem-70-ad/jad-builder/pkg/leaselock"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger/console"
	"github.com/jerusalem-70-ad/jad-builder/pkg/metrics"
	pgxstore "github.com/jerusalem-70-ad/jad-builder/pkg/store/pgx"
)

// Setup loads .env and the configuration, then installs the console logger.
func Setup(configPath string) (*config.Config, error) {
	util.LoadEnv()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Log.Debug,
		Level: cfg.Log.Level,
	}))
	return cfg, nil
}

// Deps holds the optional connections named by a configuration. A nil
// field means the backend is not configured.
type Deps struct {
	Pool    *pgxpool.Pool
	Conn    *amqp091.Connection
	Channel *amqp091.Channel
	Storage *storage.Publisher
}

// Close releases every open connection.
func (d *Deps) Close() {
	if d.Channel != nil {
		d.Channel.Close()
	}
	if d.Conn != nil {
		d.Conn.Close()
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}

// Open connects to the configured backends. Migrations run before the pool
// is handed out when cfg.Database.Migrate is set. queues are declared on
// the channel.
func Open(ctx context.Context, cfg *config.Config, queues ...string) (*Deps, error) {
	deps := &Deps{}

	if cfg.Database.Enabled() {
		if cfg.Database.Migrate {
			if err := db.Migrate(cfg.Database.URL); err != nil {
				return nil, err
			}
		}
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		deps.Pool = pool
	}

	if cfg.S3.Enabled() {
		client, err := storage.NewS3Client(ctx, storage.S3ClientParams{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Storage = storage.NewPublisher(client, cfg.S3.Bucket, cfg.S3.Prefix)
	}

	if cfg.Queue.Enabled() {
		conn, err := queue.Dial(ctx, cfg.Queue.URL())
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Conn = conn

		ch, err := conn.Channel()
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to open channel: %w", err)
		}
		deps.Channel = ch

		if err := queue.SetupQueues(ch, queues); err != nil {
			deps.Close()
			return nil, err
		}
	}

	return deps, nil
}

// NewPipeline builds a pipeline over every configured backend.
func NewPipeline(ctx context.Context, cfg *config.Config, deps *Deps, collector *metrics.Collector) (*pipeline.Pipeline, error) {
	l, err := pipeline.NewLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{
		Config:  cfg,
		Loader:  l,
		Storage: deps.Storage,
		Metrics: collector,
	}
	if deps.Pool != nil {
		opts.Store = pgxstore.NewGraphDBStorageWithConnection(deps.Pool)
		opts.Lock = leaselock.New(deps.Pool)
	}
	if deps.Channel != nil {
		opts.Events = deps.Channel
	}
	return pipeline.New(opts)
}
