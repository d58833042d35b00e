// Package pipeline runs one build: load the dataset, build the
// transmission graphs, enrich, write the outputs and publish them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jerusalem-70-ad/jad-builder/internal/config"
	"github.com/jerusalem-70-ad/jad-builder/internal/output"
	"github.com/jerusalem-70-ad/jad-builder/internal/queue"
	"github.com/jerusalem-70-ad/jad-builder/internal/storage"
	"github.com/jerusalem-70-ad/jad-builder/pkg/enrich"
	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
	"github.com/jerusalem-70-ad/jad-builder/pkg/leaselock"
	"github.com/jerusalem-70-ad/jad-builder/pkg/loader"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/metrics"
	"github.com/jerusalem-70-ad/jad-builder/pkg/store"
)

// Options wires the optional sinks of a pipeline. Nil sinks are skipped.
type Options struct {
	Config  *config.Config
	Loader  loader.DatasetLoader
	Store   store.GraphStorage
	Storage *storage.Publisher
	Events  queue.Publisher
	Lock    *leaselock.Client
	Metrics *metrics.Collector
}

type Pipeline struct {
	opts   Options
	writer *output.Writer
}

// Summary describes a finished build.
type Summary struct {
	BuildID  string
	Passages int
	Works    int
	Authors  int
	Graphs   int
	Dangling int
	Uploaded int
	Duration time.Duration
}

func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, errors.New("pipeline config is nil")
	}
	if opts.Loader == nil {
		return nil, errors.New("pipeline loader is nil")
	}
	return &Pipeline{
		opts:   opts,
		writer: output.NewWriter(opts.Config.Output.Dir, opts.Config.Output.Pretty),
	}, nil
}

// Run performs one build. With a lock configured, a build already running
// elsewhere makes Run fail with leaselock.ErrBusy.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	buildID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate build id: %w", err)
	}

	started := time.Now()
	var summary *Summary
	run := func(ctx context.Context) error {
		s, runErr := p.run(ctx, buildID)
		summary = s
		return runErr
	}

	if p.opts.Lock != nil {
		err = p.opts.Lock.WithLease(ctx, leaselock.BuildKey, leaselock.Options{Owner: buildID}, run)
	} else {
		err = run(ctx)
	}

	if p.opts.Metrics != nil {
		p.opts.Metrics.ObserveBuild(started, err)
	}
	if err != nil {
		logger.Error("[Pipeline] Build failed", "build", buildID, "err", err)
		return nil, err
	}
	summary.Duration = time.Since(started)
	logger.Info("[Pipeline] Build completed",
		"build", buildID,
		"passages", summary.Passages,
		"graphs", summary.Graphs,
		"dangling", summary.Dangling,
		"duration", summary.Duration.Round(time.Millisecond),
	)
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context, buildID string) (*Summary, error) {
	cfg := p.opts.Config
	started := time.Now()

	logger.Info("[Pipeline] Loading dataset", "build", buildID, "source", p.opts.Loader.Describe())
	p.opts.Loader.Reset()
	ds, err := loader.LoadDataset(ctx, p.opts.Loader, cfg.Dataset.Files)
	if err != nil {
		return nil, err
	}

	passages := enrich.ResolveWorkDates(ds.Passages, enrich.NewDateIndex(ds.Dates))
	builder := graph.NewBuilder(passages, graph.NewBuilderParams{
		MaxDepth:    cfg.Graph.MaxDepth,
		Parallelism: cfg.Graph.Parallelism,
	})
	graphs, err := builder.BuildAll(ctx)
	if err != nil {
		return nil, err
	}

	dangling := 0
	for _, g := range graphs {
		dangling += g.Dangling()
		if p.opts.Metrics != nil {
			p.opts.Metrics.ObserveGraph(len(g.Graph.Nodes), g.Dangling())
		}
	}

	res := enrich.Run(ds, builder.Repository(), graphs)
	network := graph.BuildNetwork(builder.Repository())

	files, err := output.Files(res, graphs, network)
	if err != nil {
		return nil, err
	}
	if err := p.writer.WriteAll(ctx, files); err != nil {
		return nil, fmt.Errorf("failed to write outputs: %w", err)
	}
	logger.Info("[Pipeline] Outputs written", "dir", p.writer.Dir(), "files", len(files))

	summary := &Summary{
		BuildID:  buildID,
		Passages: len(res.Passages),
		Works:    len(res.Works),
		Authors:  len(res.Authors),
		Graphs:   len(graphs),
		Dangling: dangling,
	}
	if p.opts.Metrics != nil {
		p.opts.Metrics.PassagesPublished.Set(float64(summary.Passages))
	}

	if p.opts.Store != nil {
		if err := p.opts.Store.SaveGraphs(ctx, buildID, output.SortedGraphs(graphs)); err != nil {
			return nil, err
		}
		if _, err := p.opts.Store.DeleteStale(ctx, buildID); err != nil {
			return nil, err
		}
	}

	if p.opts.Storage != nil {
		keys, err := p.opts.Storage.UploadDir(ctx, p.writer.Dir())
		if err != nil {
			return nil, err
		}
		summary.Uploaded = len(keys)
		if cfg.S3.Prune {
			if _, err := p.opts.Storage.Prune(ctx, keys); err != nil {
				return nil, err
			}
		}
	}

	if p.opts.Events != nil {
		err := queue.AnnounceBuild(ctx, p.opts.Events, queue.BuildCompletedMsg{
			BuildID:    buildID,
			Passages:   summary.Passages,
			Graphs:     summary.Graphs,
			Dangling:   summary.Dangling,
			DurationMs: time.Since(started).Milliseconds(),
			FinishedAt: time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
	}

	return summary, nil
}
