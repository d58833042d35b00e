// Package output writes the published JSON files of a build.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jerusalem-70-ad/jad-builder/pkg/enrich"
	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

const (
	PassagesFile           = "passages.json"
	WorksFile              = "works.json"
	AuthorsFile            = "authors.json"
	AuthorsMapFile         = "authors_map.json"
	BiblicalReferencesFile = "biblical_references.json"
	ManuscriptsFile        = "manuscripts.json"
	GraphsFile             = "transmission_graphs.json"
	NetworkFile            = "network_data.json"
	SchemaFile             = "transmission_graph.schema.json"
)

// File is one output document.
type File struct {
	Name  string
	Value any
}

type Writer struct {
	dir    string
	pretty bool
}

func NewWriter(dir string, pretty bool) *Writer {
	return &Writer{dir: dir, pretty: pretty}
}

func (w *Writer) Dir() string { return w.dir }

func (w *Writer) marshal(v any) ([]byte, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	if w.pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// WriteJSON encodes v into name below the output directory. The file is
// written to a temporary name first and renamed into place.
func (w *Writer) WriteJSON(name string, v any) error {
	data, err := w.marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	target := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	logger.Debug("[Output] Wrote file", "file", target, "bytes", len(data))
	return nil
}

// WriteAll writes files concurrently and stops at the first error.
func (w *Writer) WriteAll(ctx context.Context, files []File) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return w.WriteJSON(f.Name, f.Value)
		})
	}
	return g.Wait()
}

// SortedGraphs returns the graphs ordered by passage id.
func SortedGraphs(graphs map[int]*graph.TransmissionGraph) []*graph.TransmissionGraph {
	out := make([]*graph.TransmissionGraph, 0, len(graphs))
	for _, g := range graphs {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Files lists every document of a build.
func Files(res *enrich.Result, graphs map[int]*graph.TransmissionGraph, network *graph.Network) ([]File, error) {
	schema, err := graph.Schema()
	if err != nil {
		return nil, err
	}
	return []File{
		{Name: PassagesFile, Value: res.Passages},
		{Name: WorksFile, Value: res.Works},
		{Name: AuthorsFile, Value: res.Authors},
		{Name: AuthorsMapFile, Value: res.AuthorsMap},
		{Name: BiblicalReferencesFile, Value: res.BiblicalReferences},
		{Name: ManuscriptsFile, Value: res.Manuscripts},
		{Name: GraphsFile, Value: SortedGraphs(graphs)},
		{Name: NetworkFile, Value: network},
		{Name: SchemaFile, Value: json.RawMessage(schema)},
	}, nil
}
