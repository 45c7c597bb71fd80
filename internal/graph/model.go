package graph

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/MalithGihan/tramnet-panel/pkg/types"
)

type Node struct {
	ID     string
	Label  string
	Active bool
	X, Y   *float64
}

// Edge is a directed connection with an id assigned at refresh time.
type Edge struct {
	ID     string
	From   string
	To     string
	Label  string
	Weight int
}

type pairKey struct{ a, b string }

func undirected(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Snapshot is an immutable view of the network at one refresh.
type Snapshot struct {
	nodes  []Node
	edges  []Edge
	byID   map[string]int
	byName map[string]string
	byPair map[pairKey]string
}

func (s *Snapshot) Nodes() []Node { return append([]Node(nil), s.nodes...) }
func (s *Snapshot) Edges() []Edge { return append([]Edge(nil), s.edges...) }
func (s *Snapshot) Len() int      { return len(s.nodes) }

func (s *Snapshot) Node(id string) (Node, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// FindNodeByName is an exact, case-sensitive match on the display label.
func (s *Snapshot) FindNodeByName(name string) (string, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// FindEdgeBetween ignores direction: a single edge a->b answers both (a,b) and (b,a).
func (s *Snapshot) FindEdgeBetween(a, b string) (string, bool) {
	id, ok := s.byPair[undirected(a, b)]
	return id, ok
}

func (s *Snapshot) DefaultStyleFor(id string) (StyleClass, bool) {
	n, ok := s.Node(id)
	if !ok {
		return StyleInactive, false
	}
	return Classify(n.Active, n.Label), true
}

var emptySnapshot = &Snapshot{
	byID:   map[string]int{},
	byName: map[string]string{},
	byPair: map[pairKey]string{},
}

// Model holds the authoritative node/edge collections for the session.
type Model struct {
	mu  sync.RWMutex
	cur *Snapshot
}

func NewModel() *Model {
	return &Model{cur: emptySnapshot}
}

// ErrDuplicateNode is returned by Refresh when two nodes share an id.
var ErrDuplicateNode = errors.New("duplicate node id")

// Refresh replaces the whole network. The new snapshot is built off to the
// side and swapped in only when complete, so an error leaves the previous one.
func (m *Model) Refresh(nodes []types.GraphNode, edges []types.GraphEdge) error {
	next := &Snapshot{
		nodes:  make([]Node, 0, len(nodes)),
		edges:  make([]Edge, 0, len(edges)),
		byID:   make(map[string]int, len(nodes)),
		byName: make(map[string]string, len(nodes)),
		byPair: make(map[pairKey]string, len(edges)),
	}
	for _, n := range nodes {
		if _, dup := next.byID[n.ID]; dup {
			return errors.Wrapf(ErrDuplicateNode, "refresh: %q", n.ID)
		}
		next.byID[n.ID] = len(next.nodes)
		next.nodes = append(next.nodes, Node{ID: n.ID, Label: n.Label, Active: n.Active, X: n.X, Y: n.Y})
		if _, seen := next.byName[n.Label]; !seen {
			next.byName[n.Label] = n.ID
		}
	}
	for _, e := range edges {
		edge := Edge{ID: uuid.NewString(), From: e.From, To: e.To, Label: e.Label, Weight: e.Weight}
		next.edges = append(next.edges, edge)
		k := undirected(e.From, e.To)
		if _, seen := next.byPair[k]; !seen {
			next.byPair[k] = edge.ID
		}
	}

	m.mu.Lock()
	m.cur = next
	m.mu.Unlock()
	return nil
}

// Current returns the snapshot in effect. Callers that need several
// consistent lookups should hold on to it rather than call the Model
// repeatedly.
func (m *Model) Current() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

func (m *Model) FindNodeByName(name string) (string, bool) {
	return m.Current().FindNodeByName(name)
}

func (m *Model) FindEdgeBetween(a, b string) (string, bool) {
	return m.Current().FindEdgeBetween(a, b)
}

func (m *Model) DefaultStyleFor(id string) (StyleClass, bool) {
	return m.Current().DefaultStyleFor(id)
}
