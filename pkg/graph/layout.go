package graph

import (
	"math"
	"sort"
)

const (
	layoutCenter = 5.0
	layoutMin    = 1.0
	layoutMax    = 9.0
	// maxSiblingSpan bounds how far siblings sharing a parent position are
	// spread around it.
	maxSiblingSpan = 2.0
)

// AssignLayout sets X on every node of g. The current passage sits at the
// centre, the first level on either side is spread across the range and
// deeper levels are placed near the nodes they connect to on the way back
// to the current passage. Only X is written.
func AssignLayout(g *TransmissionGraph) {
	nodes := g.Graph.Nodes
	byID := make(map[int]*GraphNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	children := make(map[int][]int)
	parents := make(map[int][]int)
	for _, l := range g.Graph.Links {
		children[l.Source] = append(children[l.Source], l.Target)
		parents[l.Target] = append(parents[l.Target], l.Source)
	}

	placed := make(map[int]bool, len(nodes))
	var ancestors, descendants []*GraphNode
	for i := range nodes {
		n := &nodes[i]
		switch n.NodeType {
		case NodeCurrent:
			n.X = layoutCenter
			placed[n.ID] = true
		case NodeAncestor:
			ancestors = append(ancestors, n)
		case NodeDescendant:
			descendants = append(descendants, n)
		}
	}

	// ancestors lean on their children, descendants on their parents
	layoutSide(ancestors, children, byID, placed)
	layoutSide(descendants, parents, byID, placed)
}

func layoutSide(nodes []*GraphNode, towardCurrent map[int][]int, byID map[int]*GraphNode, placed map[int]bool) {
	if len(nodes) == 0 {
		return
	}

	levels := make(map[int][]*GraphNode)
	for _, n := range nodes {
		levels[n.Depth] = append(levels[n.Depth], n)
	}
	depths := make([]int, 0, len(levels))
	for d := range levels {
		depths = append(depths, d)
	}
	sort.Ints(depths)

	for _, d := range depths {
		level := levels[d]
		if d == 1 {
			spreadEvenly(level, placed)
			continue
		}
		placeNearNeighbours(level, towardCurrent, byID, placed)
	}
}

func spreadEvenly(nodes []*GraphNode, placed map[int]bool) {
	if len(nodes) == 1 {
		nodes[0].X = layoutCenter
		placed[nodes[0].ID] = true
		return
	}
	spacing := (layoutMax - layoutMin) / float64(len(nodes)-1)
	for i, n := range nodes {
		n.X = layoutMin + float64(i)*spacing
		placed[n.ID] = true
	}
}

type anchorGroup struct {
	x     float64
	nodes []*GraphNode
}

func placeNearNeighbours(level []*GraphNode, towardCurrent map[int][]int, byID map[int]*GraphNode, placed map[int]bool) {
	var groups []*anchorGroup
	groupAt := make(map[float64]*anchorGroup)

	for _, n := range level {
		sum, count := 0.0, 0
		for _, id := range towardCurrent[n.ID] {
			if neighbour, ok := byID[id]; ok && placed[id] {
				sum += neighbour.X
				count++
			}
		}
		if count == 0 {
			n.X = layoutCenter
			placed[n.ID] = true
			continue
		}

		key := math.Round(sum/float64(count)*10) / 10
		grp, ok := groupAt[key]
		if !ok {
			grp = &anchorGroup{x: key}
			groupAt[key] = grp
			groups = append(groups, grp)
		}
		grp.nodes = append(grp.nodes, n)
	}

	// a single shared anchor would stack the whole level; spread it instead
	if len(groups) == 1 && len(level) > 1 {
		spreadEvenly(level, placed)
		return
	}

	for _, grp := range groups {
		count := len(grp.nodes)
		if count == 1 {
			grp.nodes[0].X = grp.x
			placed[grp.nodes[0].ID] = true
			continue
		}
		span := math.Min(maxSiblingSpan, (layoutMax-layoutMin)/float64(count))
		spacing := span / float64(count-1)
		for i, n := range grp.nodes {
			offset := (float64(i) - float64(count-1)/2) * spacing
			n.X = math.Max(layoutMin, math.Min(layoutMax, grp.x+offset))
			placed[n.ID] = true
		}
	}
}
