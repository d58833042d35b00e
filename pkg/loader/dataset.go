package loader

import (
	"context"
	"fmt"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// FileNames names the table files of a dataset. The manuscript tables are
// optional: an empty name skips the table.
type FileNames struct {
	Passages           string `yaml:"passages" validate:"required"`
	Works              string `yaml:"works" validate:"required"`
	Authors            string `yaml:"authors" validate:"required"`
	Dates              string `yaml:"dates" validate:"required"`
	BiblicalReferences string `yaml:"biblical_references" validate:"required"`
	Manuscripts        string `yaml:"manuscripts"`
	MsOccurrences      string `yaml:"ms_occurrences"`
	Libraries          string `yaml:"libraries"`
	Places             string `yaml:"places"`
}

// DefaultFileNames matches the layout of the Baserow dump repository.
func DefaultFileNames() FileNames {
	return FileNames{
		Passages:           "passages.json",
		Works:              "works.json",
		Authors:            "authors.json",
		Dates:              "date.json",
		BiblicalReferences: "biblical_references.json",
		Manuscripts:        "manuscripts.json",
		MsOccurrences:      "ms_occurrences.json",
		Libraries:          "libraries.json",
		Places:             "places.json",
	}
}

// All lists the configured file names in a fixed order.
func (f FileNames) All() []string {
	all := []string{
		f.Passages, f.Works, f.Authors, f.Dates, f.BiblicalReferences,
		f.Manuscripts, f.MsOccurrences, f.Libraries, f.Places,
	}
	out := all[:0]
	for _, name := range all {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func loadTable[T any](ctx context.Context, l DatasetLoader, name string, dst *[]*T) error {
	if name == "" {
		return nil
	}
	raw, err := l.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	rows, err := Decode[*T](raw)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	*dst = rows
	return nil
}

// LoadDataset fetches and decodes every table concurrently.
func LoadDataset(ctx context.Context, l DatasetLoader, files FileNames) (*common.Dataset, error) {
	ds := &common.Dataset{}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.Go(func() error { return loadTable(gCtx, l, files.Passages, &ds.Passages) })
	eg.Go(func() error { return loadTable(gCtx, l, files.Works, &ds.Works) })
	eg.Go(func() error { return loadTable(gCtx, l, files.Authors, &ds.Authors) })
	eg.Go(func() error { return loadTable(gCtx, l, files.Dates, &ds.Dates) })
	eg.Go(func() error { return loadTable(gCtx, l, files.BiblicalReferences, &ds.BiblicalReferences) })
	eg.Go(func() error { return loadTable(gCtx, l, files.Manuscripts, &ds.Manuscripts) })
	eg.Go(func() error { return loadTable(gCtx, l, files.MsOccurrences, &ds.MsOccurrences) })
	eg.Go(func() error { return loadTable(gCtx, l, files.Libraries, &ds.Libraries) })
	eg.Go(func() error { return loadTable(gCtx, l, files.Places, &ds.Places) })
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Info("[Loader] Loaded dataset",
		"source", l.Describe(),
		"passages", len(ds.Passages),
		"works", len(ds.Works),
		"authors", len(ds.Authors),
		"dates", len(ds.Dates),
		"biblical_references", len(ds.BiblicalReferences),
		"manuscripts", len(ds.Manuscripts),
		"ms_occurrences", len(ds.MsOccurrences),
	)
	return ds, nil
}
