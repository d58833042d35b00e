package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerusalem-70-ad/jad-builder/pkg/common"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Builder computes transmission graphs over a fixed set of passages.
//
// The repository and dependency index are built once and only read
// afterwards, so a single Builder may serve many goroutines. Every call to
// Build owns its own accumulators.
//
// A Builder should be created using NewBuilder.
type Builder struct {
	repo        *Repository
	index       DependencyIndex
	maxDepth    int
	parallelism int
}

// NewBuilderParams configures a Builder.
//
// MaxDepth stops expansion beyond the given depth; 0 means unbounded.
// Parallelism bounds BuildAll; values below 1 mean one worker.
type NewBuilderParams struct {
	MaxDepth    int
	Parallelism int
}

// NewBuilder indexes the passages and returns a Builder for them.
//
// Example:
//
//	b := graph.NewBuilder(passages, graph.NewBuilderParams{Parallelism: 8})
//	graphs, err := b.BuildAll(ctx)
//	if err != nil {
//		return err
//	}
func NewBuilder(passages []*common.Passage, params NewBuilderParams) *Builder {
	parallelism := params.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	maxDepth := max(params.MaxDepth, 0)
	repo := NewRepository(passages)
	return &Builder{
		repo:        repo,
		index:       BuildDependencyIndex(repo.All()),
		maxDepth:    maxDepth,
		parallelism: parallelism,
	}
}

func (b *Builder) Repository() *Repository {
	return b.repo
}

func (b *Builder) Index() DependencyIndex {
	return b.index
}

type edgeKey struct {
	source, target int
	kind           EdgeType
}

// accumulator collects the nodes and links of one graph in discovery order.
type accumulator struct {
	rootID   int
	nodes    []GraphNode
	position map[int]int
	links    []GraphEdge
	edges    map[edgeKey]struct{}
	dangling int
}

func newAccumulator(root *common.Passage) *accumulator {
	acc := &accumulator{
		rootID:   root.ID,
		position: make(map[int]int),
		edges:    make(map[edgeKey]struct{}),
	}
	acc.addNode(root, 0, NodeCurrent)
	return acc
}

// addNode inserts p unless it is already present. The first assignment of
// type and depth wins.
func (a *accumulator) addNode(p *common.Passage, depth int, kind NodeType) {
	if _, ok := a.position[p.ID]; ok {
		return
	}
	a.position[p.ID] = len(a.nodes)
	a.nodes = append(a.nodes, formatNode(p, depth, kind))
}

func (a *accumulator) addEdge(source, target, depth int, kind EdgeType) {
	key := edgeKey{source: source, target: target, kind: kind}
	if _, ok := a.edges[key]; ok {
		return
	}
	a.edges[key] = struct{}{}
	a.links = append(a.links, GraphEdge{Source: source, Target: target, Depth: depth, Type: kind})
}

func (a *accumulator) graph() *TransmissionGraph {
	g := &TransmissionGraph{
		ID: a.rootID,
		Graph: GraphData{
			Nodes: a.nodes,
			Links: a.links,
		},
		dangling: a.dangling,
	}
	if g.Graph.Links == nil {
		g.Graph.Links = []GraphEdge{}
	}
	for _, n := range a.nodes {
		switch n.NodeType {
		case NodeAncestor:
			g.Metadata.AncestorCount++
		case NodeDescendant:
			g.Metadata.DescendantCount++
		}
	}
	g.Metadata.AllRelatedPassages = len(a.nodes) - 1
	return g
}

func formatNode(p *common.Passage, depth int, kind NodeType) GraphNode {
	work := p.FirstWork()
	authors := make([]string, 0, len(work.Author))
	for _, a := range work.Author {
		authors = append(authors, a.DisplayName())
	}
	author := strings.Join(authors, ", ")
	title := work.DisplayTitle()

	var date int
	if len(work.Date) > 0 {
		date = int(work.Date[0].NotBefore)
	}

	return GraphNode{
		ID:       p.ID,
		Name:     author + ": " + title,
		Work:     title,
		Author:   author,
		Date:     date,
		Passage:  string(p.Passage),
		JadID:    p.JadID,
		Depth:    depth,
		NodeType: kind,
	}
}

type queueEntry struct {
	passage *common.Passage
	depth   int
}

// expandable reports whether nodes at depth may still be expanded.
func (b *Builder) expandable(depth int) bool {
	return b.maxDepth == 0 || depth < b.maxDepth
}

// walkAncestors expands source references breadth first, so every ancestor
// is first reached along a shortest chain.
func (b *Builder) walkAncestors(acc *accumulator, root *common.Passage) {
	visited := map[int]struct{}{root.ID: {}}
	queue := []queueEntry{{passage: root, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !b.expandable(cur.depth) {
			continue
		}

		for _, ref := range cur.passage.SourcePassages {
			src, ok := b.repo.Get(ref.ID)
			if !ok {
				acc.dangling++
				continue
			}
			// the root can never be its own ancestor
			if src.ID == root.ID || src.ID == cur.passage.ID {
				continue
			}
			acc.addEdge(src.ID, cur.passage.ID, cur.depth, EdgeAncestor)
			acc.addNode(src, cur.depth+1, NodeAncestor)
			if _, seen := visited[src.ID]; !seen {
				visited[src.ID] = struct{}{}
				queue = append(queue, queueEntry{passage: src, depth: cur.depth + 1})
			}
		}
	}
}

// walkDescendants mirrors walkAncestors over the dependency index.
func (b *Builder) walkDescendants(acc *accumulator, root *common.Passage) {
	visited := map[int]struct{}{root.ID: {}}
	queue := []queueEntry{{passage: root, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !b.expandable(cur.depth) {
			continue
		}

		for _, desc := range b.index.Descendants(cur.passage.ID) {
			if desc.ID == root.ID || desc.ID == cur.passage.ID {
				continue
			}
			acc.addEdge(cur.passage.ID, desc.ID, cur.depth, EdgeDescendant)
			acc.addNode(desc, cur.depth+1, NodeDescendant)
			if _, seen := visited[desc.ID]; !seen {
				visited[desc.ID] = struct{}{}
				queue = append(queue, queueEntry{passage: desc, depth: cur.depth + 1})
			}
		}
	}
}

// Build returns the laid-out transmission graph of p. Ancestors are walked
// before descendants, so a passage reachable both ways is typed ancestor.
// Unresolvable source ids are skipped.
func (b *Builder) Build(p *common.Passage) *TransmissionGraph {
	acc := newAccumulator(p)
	b.walkAncestors(acc, p)
	b.walkDescendants(acc, p)

	g := acc.graph()
	AssignLayout(g)
	return g
}

// BuildByID builds the graph for a passage id known to the repository.
func (b *Builder) BuildByID(id int) (*TransmissionGraph, error) {
	p, ok := b.repo.Get(id)
	if !ok {
		return nil, fmt.Errorf("passage %d not found", id)
	}
	return b.Build(p), nil
}

// BuildAll builds the graph of every passage in the repository, keyed by
// passage id.
func (b *Builder) BuildAll(ctx context.Context) (map[int]*TransmissionGraph, error) {
	passages := b.repo.All()
	results := make([]*TransmissionGraph, len(passages))

	logger.Info("[Graph] Building transmission graphs", "passages", len(passages), "workers", b.parallelism)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.parallelism)
	for i, p := range passages {
		eg.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = b.Build(p)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build transmission graphs: %w", err)
	}

	out := make(map[int]*TransmissionGraph, len(results))
	dangling := 0
	for _, g := range results {
		out[g.ID] = g
		dangling += g.dangling
	}
	if dangling > 0 {
		logger.Debug("[Graph] Skipped dangling source references", "count", dangling)
	}
	logger.Info("[Graph] Built transmission graphs", "graphs", len(out))

	return out, nil
}
