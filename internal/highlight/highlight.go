// Package highlight maps a shortest-path answer, given as stop names, onto
// rendered node and edge ids and restyles them.
//
// Names or segments that cannot be resolved against the current snapshot are
// skipped. The backend computes paths over its own data and the panel's copy
// may lag behind, so a partial highlight is the expected outcome, not an error.
package highlight

import (
	"github.com/MalithGihan/tramnet-panel/internal/graph"
	"github.com/MalithGihan/tramnet-panel/internal/render"
)

// Surface is the part of a renderer the highlighter drives.
type Surface interface {
	ApplyNodeStyles([]render.NodeStyle) int
	ApplyEdgeStyles([]render.EdgeStyle) int
	Frame(nodeIDs []string, animated bool) bool
}

// Plan is the full list of style instructions for one path.
type Plan struct {
	ResetNodes []render.NodeStyle
	ResetEdges []render.EdgeStyle
	NodeIDs    []string
	EdgeIDs    []string
	// Unresolved holds path names with no matching stop.
	Unresolved []string
	// MissingSegments counts consecutive resolved pairs with no edge.
	MissingSegments int
}

// Compute builds the plan for path over s. It has no side effects.
func Compute(s *graph.Snapshot, path []string) Plan {
	var p Plan
	for _, n := range s.Nodes() {
		p.ResetNodes = append(p.ResetNodes, render.NodeStyle{ID: n.ID, Class: graph.Classify(n.Active, n.Label)})
	}
	for _, e := range s.Edges() {
		p.ResetEdges = append(p.ResetEdges, render.EdgeStyle{ID: e.ID, Class: graph.EdgeNeutral})
	}

	// resolved[i] is the id for path[i], "" when unknown
	resolved := make([]string, len(path))
	for i, name := range path {
		id, ok := s.FindNodeByName(name)
		if !ok {
			p.Unresolved = append(p.Unresolved, name)
			continue
		}
		resolved[i] = id
		p.NodeIDs = append(p.NodeIDs, id)
	}

	for i := 0; i+1 < len(resolved); i++ {
		from, to := resolved[i], resolved[i+1]
		if from == "" || to == "" {
			continue
		}
		id, ok := s.FindEdgeBetween(from, to)
		if !ok {
			p.MissingSegments++
			continue
		}
		p.EdgeIDs = append(p.EdgeIDs, id)
	}
	return p
}

// Apply resets every element to its default look, paints the path and frames
// it. Framing is skipped when no node resolved.
func Apply(surf Surface, p Plan) {
	surf.ApplyNodeStyles(p.ResetNodes)
	surf.ApplyEdgeStyles(p.ResetEdges)

	nodes := make([]render.NodeStyle, 0, len(p.NodeIDs))
	for _, id := range p.NodeIDs {
		nodes = append(nodes, render.NodeStyle{ID: id, Class: graph.StyleOnPath})
	}
	surf.ApplyNodeStyles(nodes)

	edges := make([]render.EdgeStyle, 0, len(p.EdgeIDs))
	for _, id := range p.EdgeIDs {
		edges = append(edges, render.EdgeStyle{ID: id, Class: graph.EdgeOnPath})
	}
	surf.ApplyEdgeStyles(edges)

	if len(p.NodeIDs) > 0 {
		surf.Frame(p.NodeIDs, true)
	}
}

// Highlight computes and applies in one step.
func Highlight(s *graph.Snapshot, surf Surface, path []string) Plan {
	p := Compute(s, path)
	Apply(surf, p)
	return p
}
