package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/jerusalem-70-ad/jad-builder/internal/util"
	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
	"github.com/jerusalem-70-ad/jad-builder/pkg/store"
)

const upsertGraphsSQL = `
INSERT INTO transmission_graphs (passage_id, jad_id, build_id, node_count, link_count, graph, updated_at)
SELECT u.passage_id, u.jad_id, $3, u.node_count, u.link_count, u.graph::jsonb, now()
FROM unnest($1::int[], $2::text[], $4::int[], $5::int[], $6::text[])
    AS u(passage_id, jad_id, node_count, link_count, graph)
ON CONFLICT (passage_id) DO UPDATE
SET jad_id     = EXCLUDED.jad_id,
    build_id   = EXCLUDED.build_id,
    node_count = EXCLUDED.node_count,
    link_count = EXCLUDED.link_count,
    graph      = EXCLUDED.graph,
    updated_at = EXCLUDED.updated_at;
`

const deleteStaleSQL = `
DELETE FROM transmission_graphs
WHERE build_id <> $1;
`

const selectGraphByIDSQL = `
SELECT passage_id, jad_id, build_id, updated_at, graph
FROM transmission_graphs
WHERE passage_id = $1;
`

const selectGraphByJadIDSQL = `
SELECT passage_id, jad_id, build_id, updated_at, graph
FROM transmission_graphs
WHERE jad_id = $1;
`

// SaveGraphs upserts graphs in chunks. Each chunk is a single statement.
func (s *GraphDBStorage) SaveGraphs(ctx context.Context, buildID string, graphs []*graph.TransmissionGraph) error {
	if len(graphs) == 0 {
		return nil
	}

	logger.Debug("[Store][SaveGraphs] Bulk upserting graphs", "graphs", len(graphs), "build", buildID)

	err := store.ChunkRange(len(graphs), s.chunkSize, func(start, end int) error {
		count := end - start
		ids := make([]int32, 0, count)
		jadIDs := make([]string, 0, count)
		nodeCounts := make([]int32, 0, count)
		linkCounts := make([]int32, 0, count)
		bodies := make([]string, 0, count)

		for _, g := range graphs[start:end] {
			body, err := json.Marshal(g)
			if err != nil {
				return fmt.Errorf("failed to encode graph %d: %w", g.ID, err)
			}
			node, _ := g.Node(g.ID)
			ids = append(ids, int32(g.ID))
			jadIDs = append(jadIDs, util.SanitizePostgresText(node.JadID))
			nodeCounts = append(nodeCounts, int32(len(g.Graph.Nodes)))
			linkCounts = append(linkCounts, int32(len(g.Graph.Links)))
			bodies = append(bodies, util.SanitizePostgresText(string(body)))
		}

		_, err := s.conn.Exec(ctx, upsertGraphsSQL, ids, jadIDs, buildID, nodeCounts, linkCounts, bodies)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save graphs: %w", err)
	}

	logger.Debug("[Store][SaveGraphs] Bulk upsert completed", "graphs", len(graphs), "chunks", (len(graphs)+s.chunkSize-1)/s.chunkSize)
	return nil
}

func (s *GraphDBStorage) DeleteStale(ctx context.Context, buildID string) (int64, error) {
	tag, err := s.conn.Exec(ctx, deleteStaleSQL, buildID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale graphs: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		logger.Info("[Store] Deleted stale graphs", "count", n, "build", buildID)
	}
	return tag.RowsAffected(), nil
}

func (s *GraphDBStorage) GetGraph(ctx context.Context, passageID int) (*store.StoredGraph, error) {
	return s.getGraph(ctx, selectGraphByIDSQL, passageID)
}

func (s *GraphDBStorage) GetGraphByJadID(ctx context.Context, jadID string) (*store.StoredGraph, error) {
	return s.getGraph(ctx, selectGraphByJadIDSQL, jadID)
}

func (s *GraphDBStorage) getGraph(ctx context.Context, query string, arg any) (*store.StoredGraph, error) {
	var (
		out       store.StoredGraph
		passageID int32
		updatedAt time.Time
		body      []byte
	)
	err := s.conn.QueryRow(ctx, query, arg).Scan(&passageID, &out.JadID, &out.BuildID, &updatedAt, &body)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}

	var g graph.TransmissionGraph
	if err := json.Unmarshal(body, &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph %d: %w", passageID, err)
	}
	out.PassageID = int(passageID)
	out.UpdatedAt = updatedAt
	out.Graph = &g
	return &out, nil
}
