package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
	"github.com/jerusalem-70-ad/jad-builder/pkg/store"
)

type execCall struct {
	sql  string
	args []any
}

type fakeConn struct {
	execs   []execCall
	execErr error
	tag     pgconn.CommandTag
	row     pgxv5.Row
}

func (f *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return f.tag, f.execErr
}

func (f *fakeConn) QueryRow(context.Context, string, ...any) pgxv5.Row {
	return f.row
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int32:
			*p = r.values[i].(int32)
		case *string:
			*p = r.values[i].(string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case *[]byte:
			*p = r.values[i].([]byte)
		}
	}
	return nil
}

func testGraph(id int) *graph.TransmissionGraph {
	return &graph.TransmissionGraph{
		ID: id,
		Graph: graph.GraphData{
			Nodes: []graph.GraphNode{{ID: id, JadID: fmt.Sprintf("jad_occurrence_%d", id), NodeType: graph.NodeCurrent, X: 5}},
			Links: []graph.GraphEdge{},
		},
	}
}

func TestSaveGraphsChunks(t *testing.T) {
	conn := &fakeConn{}
	s := NewGraphDBStorageWithConnection(conn, WithChunkSize(2))

	graphs := []*graph.TransmissionGraph{testGraph(1), testGraph(2), testGraph(3)}
	require.NoError(t, s.SaveGraphs(t.Context(), "build-1", graphs))

	require.Len(t, conn.execs, 2)
	first := conn.execs[0]
	assert.True(t, strings.Contains(first.sql, "INSERT INTO transmission_graphs"))
	assert.Equal(t, []int32{1, 2}, first.args[0])
	assert.Equal(t, []string{"jad_occurrence_1", "jad_occurrence_2"}, first.args[1])
	assert.Equal(t, "build-1", first.args[2])
	assert.Equal(t, []int32{1, 1}, first.args[3])
	assert.Equal(t, []int32{3}, conn.execs[1].args[0])
}

func TestSaveGraphsEmpty(t *testing.T) {
	conn := &fakeConn{}
	s := NewGraphDBStorageWithConnection(conn)
	require.NoError(t, s.SaveGraphs(t.Context(), "b", nil))
	assert.Empty(t, conn.execs)
}

func TestSaveGraphsError(t *testing.T) {
	conn := &fakeConn{execErr: errors.New("connection reset")}
	s := NewGraphDBStorageWithConnection(conn)
	err := s.SaveGraphs(t.Context(), "b", []*graph.TransmissionGraph{testGraph(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestDeleteStale(t *testing.T) {
	conn := &fakeConn{tag: pgconn.NewCommandTag("DELETE 4")}
	s := NewGraphDBStorageWithConnection(conn)

	n, err := s.DeleteStale(t.Context(), "build-2")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, []any{"build-2"}, conn.execs[0].args)
}

func TestGetGraph(t *testing.T) {
	body, err := json.Marshal(testGraph(7))
	require.NoError(t, err)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	conn := &fakeConn{row: fakeRow{values: []any{int32(7), "jad_occurrence_7", "build-1", now, body}}}
	s := NewGraphDBStorageWithConnection(conn)

	got, err := s.GetGraph(t.Context(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got.PassageID)
	assert.Equal(t, "build-1", got.BuildID)
	assert.Equal(t, now, got.UpdatedAt)
	assert.Equal(t, 7, got.Graph.ID)
	assert.Len(t, got.Graph.Graph.Nodes, 1)
}

func TestGetGraphNotFound(t *testing.T) {
	conn := &fakeConn{row: fakeRow{err: pgxv5.ErrNoRows}}
	s := NewGraphDBStorageWithConnection(conn)

	_, err := s.GetGraphByJadID(t.Context(), "jad_occurrence_404")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
