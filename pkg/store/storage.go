package store

import (
	"context"
	"errors"
	"time"

	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
)

var ErrNotFound = errors.New("graph not found")

// StoredGraph is a transmission graph together with the build that wrote it.
type StoredGraph struct {
	PassageID int
	JadID     string
	BuildID   string
	UpdatedAt time.Time
	Graph     *graph.TransmissionGraph
}

// GraphStorage persists transmission graphs so the API can serve them
// without rebuilding. Lookups return ErrNotFound for unknown passages.
type GraphStorage interface {
	// SaveGraphs upserts graphs and tags them with buildID.
	SaveGraphs(ctx context.Context, buildID string, graphs []*graph.TransmissionGraph) error
	// DeleteStale removes graphs not written by buildID, i.e. passages that
	// disappeared from the dataset.
	DeleteStale(ctx context.Context, buildID string) (int64, error)

	GetGraph(ctx context.Context, passageID int) (*StoredGraph, error)
	GetGraphByJadID(ctx context.Context, jadID string) (*StoredGraph, error)
}
