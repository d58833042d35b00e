package io

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jerusalem-70-ad/jad-builder/pkg/loader"
)

// IODatasetLoader reads dataset tables from a local directory with caching.
type IODatasetLoader struct {
	dir   string
	cache *loader.Cache
}

// NewIODatasetLoader creates a loader rooted at dir.
func NewIODatasetLoader(dir string) *IODatasetLoader {
	return &IODatasetLoader{
		dir:   dir,
		cache: loader.NewCache(),
	}
}

// Load reads dir/name. Results are cached until Reset.
func (l *IODatasetLoader) Load(ctx context.Context, name string) ([]byte, error) {
	path := filepath.Join(l.dir, name)
	return l.cache.Get(loader.CacheKey(l.Describe(), name), func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return b, nil
	})
}

func (l *IODatasetLoader) Reset() {
	l.cache.Reset()
}

func (l *IODatasetLoader) Describe() string {
	return "dir:" + l.dir
}

func (l *IODatasetLoader) Dir() string {
	return l.dir
}
