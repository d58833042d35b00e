package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
)

func passage(id int, sources ...int) *common.Passage {
	p := &common.Passage{
		ID:      id,
		JadID:   fmt.Sprintf("jad_occurrence_%d", id),
		Passage: common.Text(fmt.Sprintf("passage %d", id)),
		Work: []common.WorkRef{{
			ID:     100 + id,
			Title:  common.Text(fmt.Sprintf("Work %d", id)),
			Author: []common.AuthorRef{{ID: 200 + id, Name: common.Text(fmt.Sprintf("Author %d", id))}},
			Date:   []common.DateRef{{ID: 300 + id, NotBefore: common.Year(400 + id)}},
		}},
	}
	for _, s := range sources {
		p.SourcePassages = append(p.SourcePassages, common.Ref{ID: s})
	}
	return p
}

type nodeSummary struct {
	ID    int
	Type  NodeType
	Depth int
}

func summarize(g *TransmissionGraph) []nodeSummary {
	out := make([]nodeSummary, 0, len(g.Graph.Nodes))
	for _, n := range g.Graph.Nodes {
		out = append(out, nodeSummary{ID: n.ID, Type: n.NodeType, Depth: n.Depth})
	}
	return out
}

func build(t *testing.T, passages []*common.Passage, id int, params NewBuilderParams) *TransmissionGraph {
	t.Helper()
	g, err := NewBuilder(passages, params).BuildByID(id)
	require.NoError(t, err)
	return g
}

func TestBuildChainAncestors(t *testing.T) {
	passages := []*common.Passage{passage(1), passage(2, 1), passage(3, 2)}
	g := build(t, passages, 3, NewBuilderParams{})

	assert.Equal(t, []nodeSummary{
		{3, NodeCurrent, 0},
		{2, NodeAncestor, 1},
		{1, NodeAncestor, 2},
	}, summarize(g))
	assert.Equal(t, []GraphEdge{
		{Source: 2, Target: 3, Depth: 0, Type: EdgeAncestor},
		{Source: 1, Target: 2, Depth: 1, Type: EdgeAncestor},
	}, g.Graph.Links)
	assert.Equal(t, GraphMetadata{AncestorCount: 2, DescendantCount: 0, AllRelatedPassages: 2}, g.Metadata)
}

func TestBuildChainDescendants(t *testing.T) {
	passages := []*common.Passage{passage(1), passage(2, 1), passage(3, 2)}
	g := build(t, passages, 1, NewBuilderParams{})

	assert.Equal(t, []nodeSummary{
		{1, NodeCurrent, 0},
		{2, NodeDescendant, 1},
		{3, NodeDescendant, 2},
	}, summarize(g))
	assert.Equal(t, []GraphEdge{
		{Source: 1, Target: 2, Depth: 0, Type: EdgeDescendant},
		{Source: 2, Target: 3, Depth: 1, Type: EdgeDescendant},
	}, g.Graph.Links)
	assert.Equal(t, GraphMetadata{AncestorCount: 0, DescendantCount: 2, AllRelatedPassages: 2}, g.Metadata)
}

func TestBuildMiddleOfChain(t *testing.T) {
	passages := []*common.Passage{passage(1), passage(2, 1), passage(3, 2)}
	g := build(t, passages, 2, NewBuilderParams{})

	assert.Equal(t, []nodeSummary{
		{2, NodeCurrent, 0},
		{1, NodeAncestor, 1},
		{3, NodeDescendant, 1},
	}, summarize(g))
	assert.Equal(t, 1, g.Metadata.AncestorCount)
	assert.Equal(t, 1, g.Metadata.DescendantCount)
}

func TestBuildDanglingSource(t *testing.T) {
	passages := []*common.Passage{passage(1, 999)}
	g := build(t, passages, 1, NewBuilderParams{})

	assert.Equal(t, []nodeSummary{{1, NodeCurrent, 0}}, summarize(g))
	assert.Empty(t, g.Graph.Links)
	assert.NotNil(t, g.Graph.Links)
	assert.Equal(t, 0, g.Metadata.AncestorCount)
	assert.Equal(t, 0, g.Metadata.AllRelatedPassages)
	assert.Equal(t, 1, g.Dangling())
}

func TestBuildTwoCycleTerminates(t *testing.T) {
	passages := []*common.Passage{passage(1, 2), passage(2, 1)}
	g := build(t, passages, 1, NewBuilderParams{})

	assert.Equal(t, []nodeSummary{
		{1, NodeCurrent, 0},
		{2, NodeAncestor, 1},
	}, summarize(g))
	assert.Equal(t, []GraphEdge{
		{Source: 2, Target: 1, Depth: 0, Type: EdgeAncestor},
		{Source: 1, Target: 2, Depth: 0, Type: EdgeDescendant},
	}, g.Graph.Links)
	assert.Equal(t, GraphMetadata{AncestorCount: 1, DescendantCount: 0, AllRelatedPassages: 1}, g.Metadata)
}

func TestBuildLongCycleNeverMakesRootItsOwnAncestor(t *testing.T) {
	// 1 <- 2 <- 3 <- 1
	passages := []*common.Passage{passage(1, 3), passage(2, 1), passage(3, 2)}
	g := build(t, passages, 1, NewBuilderParams{})

	current := 0
	for _, n := range g.Graph.Nodes {
		if n.ID == 1 {
			current++
			assert.Equal(t, NodeCurrent, n.NodeType)
			assert.Equal(t, 0, n.Depth)
		}
	}
	assert.Equal(t, 1, current)
	for _, l := range g.Graph.Links {
		if l.Type == EdgeAncestor {
			assert.NotEqual(t, 1, l.Source, "root must not be recorded as an ancestor: %+v", l)
		}
		if l.Type == EdgeDescendant {
			assert.NotEqual(t, 1, l.Target, "root must not be recorded as a descendant: %+v", l)
		}
	}
	assert.Len(t, g.Graph.Nodes, 3)
}

func TestBuildSelfReferenceIgnored(t *testing.T) {
	passages := []*common.Passage{passage(1, 1), passage(2, 2, 1)}
	g := build(t, passages, 2, NewBuilderParams{})

	assert.Equal(t, []nodeSummary{{2, NodeCurrent, 0}, {1, NodeAncestor, 1}}, summarize(g))
	assert.Equal(t, []GraphEdge{{Source: 1, Target: 2, Depth: 0, Type: EdgeAncestor}}, g.Graph.Links)
}

func TestBuildDiamondDeduplicates(t *testing.T) {
	passages := []*common.Passage{passage(1), passage(2, 1), passage(3, 1), passage(4, 2, 3)}
	g := build(t, passages, 4, NewBuilderParams{})

	assert.Equal(t, []nodeSummary{
		{4, NodeCurrent, 0},
		{2, NodeAncestor, 1},
		{3, NodeAncestor, 1},
		{1, NodeAncestor, 2},
	}, summarize(g))
	assert.Equal(t, []GraphEdge{
		{Source: 2, Target: 4, Depth: 0, Type: EdgeAncestor},
		{Source: 3, Target: 4, Depth: 0, Type: EdgeAncestor},
		{Source: 1, Target: 2, Depth: 1, Type: EdgeAncestor},
		{Source: 1, Target: 3, Depth: 1, Type: EdgeAncestor},
	}, g.Graph.Links)

	g = build(t, passages, 1, NewBuilderParams{})
	assert.Equal(t, []nodeSummary{
		{1, NodeCurrent, 0},
		{2, NodeDescendant, 1},
		{3, NodeDescendant, 1},
		{4, NodeDescendant, 2},
	}, summarize(g))
	assert.Len(t, g.Graph.Links, 4)
}

func TestBuildShortestDepthWins(t *testing.T) {
	// 5 reaches 1 through 4-3-2-1 and through 2-1
	passages := []*common.Passage{
		passage(1), passage(2, 1), passage(3, 2), passage(4, 3), passage(5, 4, 2),
	}
	g := build(t, passages, 5, NewBuilderParams{})

	want := map[int]int{5: 0, 4: 1, 2: 1, 3: 2, 1: 2}
	for _, n := range g.Graph.Nodes {
		assert.Equal(t, want[n.ID], n.Depth, "depth of %d", n.ID)
	}
	assert.Len(t, g.Graph.Nodes, len(want))
}

func TestBuildDuplicateSourceListedOnce(t *testing.T) {
	passages := []*common.Passage{passage(1), passage(2, 1, 1)}

	g := build(t, passages, 2, NewBuilderParams{})
	assert.Len(t, g.Graph.Links, 1)

	g = build(t, passages, 1, NewBuilderParams{})
	assert.Len(t, g.Graph.Links, 1)
	assert.Equal(t, 1, g.Metadata.DescendantCount)
}

func TestBuildMaxDepth(t *testing.T) {
	passages := []*common.Passage{passage(1), passage(2, 1), passage(3, 2), passage(4, 3)}
	g := build(t, passages, 4, NewBuilderParams{MaxDepth: 1})

	assert.Equal(t, []nodeSummary{{4, NodeCurrent, 0}, {3, NodeAncestor, 1}}, summarize(g))

	g = build(t, passages, 4, NewBuilderParams{MaxDepth: 2})
	assert.Len(t, g.Graph.Nodes, 3)
}

func TestBuildNodeDisplayFields(t *testing.T) {
	p := passage(1)
	p.Work[0].Author = append(p.Work[0].Author, common.AuthorRef{ID: 9, Value: "Co-author"})
	g := build(t, []*common.Passage{p}, 1, NewBuilderParams{})

	n := g.Graph.Nodes[0]
	assert.Equal(t, "Author 1, Co-author: Work 1", n.Name)
	assert.Equal(t, "Work 1", n.Work)
	assert.Equal(t, "Author 1, Co-author", n.Author)
	assert.Equal(t, 401, n.Date)
	assert.Equal(t, "passage 1", n.Passage)
	assert.Equal(t, "jad_occurrence_1", n.JadID)
	assert.Equal(t, 5.0, n.X)
}

func TestBuildNodeWithoutWork(t *testing.T) {
	p := &common.Passage{ID: 1, JadID: "jad_1"}
	g := build(t, []*common.Passage{p}, 1, NewBuilderParams{})

	n := g.Graph.Nodes[0]
	assert.Equal(t, ": ", n.Name)
	assert.Zero(t, n.Date)
}

func TestEdgesPointFromOlderToNewer(t *testing.T) {
	passages := []*common.Passage{
		passage(1), passage(2, 1), passage(3, 1, 2), passage(4, 3), passage(5, 3, 4), passage(6, 5, 99),
	}
	b := NewBuilder(passages, NewBuilderParams{})
	graphs, err := b.BuildAll(context.Background())
	require.NoError(t, err)
	require.Len(t, graphs, len(passages))

	for id, g := range graphs {
		for _, l := range g.Graph.Links {
			target, ok := b.Repository().Get(l.Target)
			require.True(t, ok)
			found := false
			for _, s := range target.SourcePassages {
				if s.ID == l.Source {
					found = true
				}
			}
			assert.True(t, found, "graph %d: link %+v does not follow a source reference", id, l)
		}
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	passages := []*common.Passage{
		passage(1), passage(2, 1), passage(3, 1), passage(4, 2, 3), passage(5, 4), passage(6, 4), passage(7, 6, 1),
	}
	b := NewBuilder(passages, NewBuilderParams{Parallelism: 4})

	first, err := b.BuildAll(context.Background())
	require.NoError(t, err)
	second, err := b.BuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, p := range passages {
		assert.Equal(t, first[p.ID], b.Build(p))
	}
}

func TestBuildAllCanceled(t *testing.T) {
	passages := []*common.Passage{passage(1), passage(2, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(passages, NewBuilderParams{}).BuildAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildByIDUnknown(t *testing.T) {
	_, err := NewBuilder(nil, NewBuilderParams{}).BuildByID(42)
	assert.Error(t, err)
}

func TestBuildDependencyIndex(t *testing.T) {
	p2 := passage(2, 1, 1)
	p3 := passage(3, 1, 2)
	p4 := passage(4)
	idx := BuildDependencyIndex([]*common.Passage{p2, p3, p4})

	assert.Equal(t, []*common.Passage{p2, p3}, idx.Descendants(1))
	assert.Equal(t, []*common.Passage{p3}, idx.Descendants(2))
	assert.Empty(t, idx.Descendants(4))
	assert.Len(t, idx, 2)
}

func TestRepositoryDuplicateIDLaterWins(t *testing.T) {
	first := passage(1)
	second := passage(1)
	second.JadID = "later"
	repo := NewRepository([]*common.Passage{first, passage(2), second, nil})

	assert.Equal(t, 2, repo.Len())
	got, ok := repo.Get(1)
	require.True(t, ok)
	assert.Equal(t, "later", got.JadID)
	assert.Equal(t, "later", repo.All()[0].JadID)
}
