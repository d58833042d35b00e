package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jerusalem-70-ad/jad-builder/internal/app"
	"github.com/jerusalem-70-ad/jad-builder/internal/config"
	"github.com/jerusalem-70-ad/jad-builder/internal/pipeline"
	"github.com/jerusalem-70-ad/jad-builder/internal/watch"
	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
	"github.com/jerusalem-70-ad/jad-builder/pkg/loader/web"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/metrics"
)

// Version is set at link time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	build := buildCmd(&configPath)
	cmd := &cobra.Command{
		Use:           "jad-builder",
		Short:         "Build transmission graphs and enriched data files for the JAD corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          build.RunE,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default jad.yaml when present)")

	cmd.AddCommand(
		build,
		watchCmd(&configPath),
		fetchCmd(&configPath),
		schemaCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "jad-builder %s\n", Version)
			},
		},
	)
	return cmd
}

// newPipeline sets up logging and every configured backend. The returned
// func releases the connections.
func newPipeline(ctx context.Context, configPath string) (*pipeline.Pipeline, *config.Config, func(), error) {
	cfg, err := app.Setup(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	deps, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := app.NewPipeline(ctx, cfg, deps, metrics.New(metrics.DefaultNamespace))
	if err != nil {
		deps.Close()
		return nil, nil, nil, err
	}
	return p, cfg, deps.Close, nil
}

func buildCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run one build and write the output files",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, closeFn, err := newPipeline(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer closeFn()

			summary, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"build %s: %d passages, %d works, %d authors, %d graphs, %d dangling references -> %s (%s)\n",
				summary.BuildID, summary.Passages, summary.Works, summary.Authors,
				summary.Graphs, summary.Dangling, cfg.Output.Dir,
				summary.Duration.Round(time.Millisecond),
			)
			return nil
		},
	}
}

func watchCmd(configPath *string) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever the local dataset directory changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, closeFn, err := newPipeline(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer closeFn()

			if cfg.Dataset.Source != config.SourceIO {
				return fmt.Errorf("watch needs dataset source %q, got %q", config.SourceIO, cfg.Dataset.Source)
			}

			rebuild := func(ctx context.Context) error {
				_, err := p.Run(ctx)
				return err
			}
			if err := rebuild(cmd.Context()); err != nil {
				logger.Error("Initial build failed", "err", err)
			}

			w := &watch.Watcher{
				Dir:      cfg.Dataset.Dir,
				Debounce: debounce,
				OnChange: rebuild,
			}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild starts")
	return cmd
}

func fetchCmd(configPath *string) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the published dataset into a local directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Setup(*configPath)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Dataset.Dir
			}
			l := web.NewWebDatasetLoader(web.NewWebDatasetLoaderParams{
				BaseURL:    cfg.Dataset.BaseURL,
				MaxRetries: cfg.Dataset.MaxRetries,
			})
			return pipeline.Fetch(cmd.Context(), l, cfg.Dataset.Files, dir)
		},
	}
	cmd.Flags().StringVarP(&dir, "out", "o", "", "target directory (default dataset.dir)")
	return cmd
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of a transmission graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := graph.Schema()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
}
