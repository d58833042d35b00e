package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jerusalem-70-ad/jad-builder/pkg/loader"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

// Fetch copies every dataset table from l into dir so later builds can run
// from a local snapshot.
func Fetch(ctx context.Context, l loader.DatasetLoader, files loader.FileNames, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	eg, gCtx := errgroup.WithContext(ctx)
	for _, name := range files.All() {
		eg.Go(func() error {
			data, err := l.Load(gCtx, name)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", name, err)
			}
			if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
			logger.Info("[Fetch] Saved table", "file", name, "bytes", len(data))
			return nil
		})
	}
	return eg.Wait()
}
