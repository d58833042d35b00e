package graph

// NodeType classifies a node relative to the passage a graph was built for.
type NodeType string

const (
	NodeCurrent    NodeType = "current"
	NodeAncestor   NodeType = "ancestor"
	NodeDescendant NodeType = "descendant"
)

// EdgeType records which traversal produced an edge.
type EdgeType string

const (
	EdgeAncestor   EdgeType = "ancestor"
	EdgeDescendant EdgeType = "descendant"
)

// GraphNode is one passage in a transmission graph.
type GraphNode struct {
	ID       int      `json:"id" jsonschema_description:"Passage id."`
	Name     string   `json:"name" jsonschema_description:"Display label, author and work joined by a colon."`
	Work     string   `json:"work"`
	Author   string   `json:"author"`
	Date     int      `json:"date,omitempty" jsonschema_description:"Earliest year of the work, omitted when unknown."`
	Passage  string   `json:"passage"`
	JadID    string   `json:"jad_id"`
	Depth    int      `json:"depth" jsonschema_description:"Length of the shortest dependency chain to the current passage."`
	NodeType NodeType `json:"nodeType" jsonschema:"enum=current,enum=ancestor,enum=descendant"`
	X        float64  `json:"x" jsonschema_description:"Horizontal position in [0,10]; the current passage sits at 5."`
}

// GraphEdge points from the older text to the newer one.
type GraphEdge struct {
	Source int      `json:"source"`
	Target int      `json:"target"`
	Depth  int      `json:"depth" jsonschema_description:"Depth of the endpoint nearer to the current passage."`
	Type   EdgeType `json:"type" jsonschema:"enum=ancestor,enum=descendant"`
}

type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphEdge `json:"links"`
}

type GraphMetadata struct {
	AncestorCount      int `json:"ancestorCount"`
	DescendantCount    int `json:"descendantCount"`
	AllRelatedPassages int `json:"allRelatedPassages"`
}

// TransmissionGraph is the lineage of one passage: every passage it
// (transitively) draws on and every passage that draws on it.
type TransmissionGraph struct {
	ID       int           `json:"id"`
	Graph    GraphData     `json:"graph"`
	Metadata GraphMetadata `json:"metadata"`

	dangling int
}

// Dangling returns how many unresolvable source references were skipped.
func (g *TransmissionGraph) Dangling() int {
	return g.dangling
}

// Node returns the node for a passage id.
func (g *TransmissionGraph) Node(id int) (GraphNode, bool) {
	for _, n := range g.Graph.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}
