package render

import (
	"context"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/MalithGihan/tramnet-panel/internal/graph"
)

const (
	FrameDurationMS = 1000
	FrameEasing     = "easeInOutQuad"
)

type NodeElement struct {
	ID     string           `json:"id"`
	Label  string           `json:"label"`
	Title  string           `json:"title"`
	X      *float64         `json:"x,omitempty"`
	Y      *float64         `json:"y,omitempty"`
	Active bool             `json:"active"`
	Class  graph.StyleClass `json:"class"`
	Color  graph.NodeColor  `json:"color"`
}

type EdgeElement struct {
	ID     string           `json:"id"`
	From   string           `json:"from"`
	To     string           `json:"to"`
	Label  string           `json:"label"`
	Title  string           `json:"title"`
	Arrows string           `json:"arrows"`
	Class  graph.StyleClass `json:"class"`
	Color  graph.EdgeColor  `json:"color"`
}

type NodeStyle struct {
	ID    string
	Class graph.StyleClass
}

type EdgeStyle struct {
	ID    string
	Class graph.StyleClass
}

type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type Animation struct {
	DurationMS int    `json:"duration_ms"`
	Easing     string `json:"easing"`
}

// Viewport is the last framing request. Bounds is nil when none of the framed
// nodes carries a position yet.
type Viewport struct {
	NodeIDs   []string   `json:"node_ids"`
	Bounds    *Bounds    `json:"bounds,omitempty"`
	Animation *Animation `json:"animation,omitempty"`
}

type View struct {
	Nodes    []NodeElement `json:"nodes"`
	Edges    []EdgeElement `json:"edges"`
	Viewport *Viewport     `json:"viewport,omitempty"`
}

// ClickHandler receives the id of a clicked node.
type ClickHandler func(ctx context.Context, nodeID string) error

// Renderer owns the rendering dataset. It is a projection of a graph
// snapshot and can be rebuilt at any time.
type Renderer struct {
	mu       sync.RWMutex
	nodes    *orderedmap.OrderedMap[string, *NodeElement]
	edges    *orderedmap.OrderedMap[string, *EdgeElement]
	viewport *Viewport
	onClick  ClickHandler
}

func New() *Renderer {
	return &Renderer{
		nodes: orderedmap.New[string, *NodeElement](),
		edges: orderedmap.New[string, *EdgeElement](),
	}
}

// SetGraph drops every element and rebuilds from s with default styles.
func (r *Renderer) SetGraph(s *graph.Snapshot) {
	nodes := orderedmap.New[string, *NodeElement]()
	for _, n := range s.Nodes() {
		class := graph.Classify(n.Active, n.Label)
		nodes.Set(n.ID, &NodeElement{
			ID:     n.ID,
			Label:  n.Label,
			Title:  n.Label,
			X:      n.X,
			Y:      n.Y,
			Active: n.Active,
			Class:  class,
			Color:  graph.NodeColorFor(class),
		})
	}
	edges := orderedmap.New[string, *EdgeElement]()
	for _, e := range s.Edges() {
		edges.Set(e.ID, &EdgeElement{
			ID:     e.ID,
			From:   e.From,
			To:     e.To,
			Label:  e.Label,
			Title:  e.Label + " min",
			Arrows: "to",
			Class:  graph.EdgeNeutral,
			Color:  graph.EdgeColorFor(graph.EdgeNeutral),
		})
	}

	r.mu.Lock()
	r.nodes, r.edges, r.viewport = nodes, edges, nil
	r.mu.Unlock()
}

// ApplyNodeStyles restyles the listed nodes. Unknown ids are skipped; the
// return value counts the updates that landed.
func (r *Renderer) ApplyNodeStyles(updates []NodeStyle) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	applied := 0
	for _, u := range updates {
		el, ok := r.nodes.Get(u.ID)
		if !ok {
			continue
		}
		el.Class = u.Class
		el.Color = graph.NodeColorFor(u.Class)
		applied++
	}
	return applied
}

func (r *Renderer) ApplyEdgeStyles(updates []EdgeStyle) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	applied := 0
	for _, u := range updates {
		el, ok := r.edges.Get(u.ID)
		if !ok {
			continue
		}
		el.Class = u.Class
		el.Color = graph.EdgeColorFor(u.Class)
		applied++
	}
	return applied
}

// Frame points the viewport at the given nodes. Ids that are not rendered are
// ignored, and an empty remainder leaves the viewport untouched.
func (r *Renderer) Frame(nodeIDs []string, animated bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		ids    []string
		bounds *Bounds
	)
	for _, id := range nodeIDs {
		el, ok := r.nodes.Get(id)
		if !ok {
			continue
		}
		ids = append(ids, id)
		if el.X == nil || el.Y == nil {
			continue
		}
		x, y := *el.X, *el.Y
		if bounds == nil {
			bounds = &Bounds{MinX: x, MinY: y, MaxX: x, MaxY: y}
			continue
		}
		bounds.MinX = min(bounds.MinX, x)
		bounds.MinY = min(bounds.MinY, y)
		bounds.MaxX = max(bounds.MaxX, x)
		bounds.MaxY = max(bounds.MaxY, y)
	}
	if len(ids) == 0 {
		return false
	}

	vp := &Viewport{NodeIDs: ids, Bounds: bounds}
	if animated {
		vp.Animation = &Animation{DurationMS: FrameDurationMS, Easing: FrameEasing}
	}
	r.viewport = vp
	return true
}

func (r *Renderer) OnClick(h ClickHandler) {
	r.mu.Lock()
	r.onClick = h
	r.mu.Unlock()
}

// Click dispatches a node click to the registered handler. It reports false
// when the node is not rendered or nobody listens.
func (r *Renderer) Click(ctx context.Context, nodeID string) (bool, error) {
	r.mu.RLock()
	_, ok := r.nodes.Get(nodeID)
	h := r.onClick
	r.mu.RUnlock()
	if !ok || h == nil {
		return false, nil
	}
	return true, h(ctx, nodeID)
}

func (r *Renderer) Node(id string) (NodeElement, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	el, ok := r.nodes.Get(id)
	if !ok {
		return NodeElement{}, false
	}
	return *el, true
}

func (r *Renderer) Edge(id string) (EdgeElement, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	el, ok := r.edges.Get(id)
	if !ok {
		return EdgeElement{}, false
	}
	return *el, true
}

// View copies the dataset in insertion order.
func (r *Renderer) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v := View{
		Nodes: make([]NodeElement, 0, r.nodes.Len()),
		Edges: make([]EdgeElement, 0, r.edges.Len()),
	}
	for p := r.nodes.Oldest(); p != nil; p = p.Next() {
		v.Nodes = append(v.Nodes, *p.Value)
	}
	for p := r.edges.Oldest(); p != nil; p = p.Next() {
		v.Edges = append(v.Edges, *p.Value)
	}
	if r.viewport != nil {
		vp := *r.viewport
		vp.NodeIDs = append([]string(nil), r.viewport.NodeIDs...)
		v.Viewport = &vp
	}
	return v
}
