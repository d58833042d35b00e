package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jerusalem-70-ad/jad-builder/pkg/graph"
)

type relatedResponse struct {
	ID      int               `json:"id"`
	JadID   string            `json:"jad_id"`
	Sources []graph.GraphNode `json:"sources"`
	Targets []graph.GraphNode `json:"targets"`
}

// GetRelatedHandler returns the direct sources and direct borrowers of a
// passage, read off its stored graph.
func GetRelatedHandler(c echo.Context) error {
	g, err := lookupGraph(c)
	if err != nil {
		return graphError(c, err)
	}
	return c.JSON(http.StatusOK, related(g.Graph))
}

func related(g *graph.TransmissionGraph) relatedResponse {
	res := relatedResponse{
		ID:      g.ID,
		Sources: []graph.GraphNode{},
		Targets: []graph.GraphNode{},
	}
	if root, ok := g.Node(g.ID); ok {
		res.JadID = root.JadID
	}
	for _, l := range g.Graph.Links {
		switch {
		case l.Type == graph.EdgeAncestor && l.Target == g.ID:
			if n, ok := g.Node(l.Source); ok {
				res.Sources = append(res.Sources, n)
			}
		case l.Type == graph.EdgeDescendant && l.Source == g.ID:
			if n, ok := g.Node(l.Target); ok {
				res.Targets = append(res.Targets, n)
			}
		}
	}
	return res
}
