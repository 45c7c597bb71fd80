package graph

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/tramnet-panel/pkg/types"
)

func sampleNodes() []types.GraphNode {
	return []types.GraphNode{
		{ID: "A", Label: "X", Active: true},
		{ID: "B", Label: "Y", Active: true},
		{ID: "C", Label: "Rondo Mogilskie", Active: true},
		{ID: "D", Label: "Cmentarz Rakowicki", Active: false},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		active bool
		label  string
		want   StyleClass
	}{
		{name: "inactive upper", active: false, label: "KURDWANOW", want: StyleInactive},
		{name: "inactive mixed", active: false, label: "Kurdwanow", want: StyleInactive},
		{name: "terminal", active: true, label: "NOWA HUTA", want: StyleTerminal},
		{name: "regular", active: true, label: "Nowa Huta", want: StyleRegular},
		{name: "lower", active: true, label: "plac", want: StyleRegular},
		{name: "no letters", active: true, label: "123", want: StyleTerminal},
		{name: "non ascii upper", active: true, label: "ŁAGIEWNIKI", want: StyleTerminal},
		{name: "non ascii mixed", active: true, label: "Łagiewniki", want: StyleRegular},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.active, tt.label)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Classify(tt.active, tt.label))
		})
	}
}

func TestFindEdgeBetweenIgnoresDirection(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Refresh(sampleNodes(), []types.GraphEdge{{From: "A", To: "B", Label: "3", Weight: 3}}))

	ab, ok := m.FindEdgeBetween("A", "B")
	require.True(t, ok)
	ba, ok := m.FindEdgeBetween("B", "A")
	require.True(t, ok)
	assert.Equal(t, ab, ba)

	_, ok = m.FindEdgeBetween("A", "C")
	assert.False(t, ok)
}

func TestFindEdgeBetweenFirstEdgeWins(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Refresh(sampleNodes(), []types.GraphEdge{
		{From: "A", To: "B", Label: "3"},
		{From: "B", To: "A", Label: "4"},
	}))
	edges := m.Current().Edges()
	require.Len(t, edges, 2)

	id, ok := m.FindEdgeBetween("B", "A")
	require.True(t, ok)
	assert.Equal(t, edges[0].ID, id)
	assert.NotEqual(t, edges[0].ID, edges[1].ID)
}

func TestFindNodeByNameIsCaseSensitive(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Refresh(sampleNodes(), nil))

	id, ok := m.FindNodeByName("Rondo Mogilskie")
	require.True(t, ok)
	assert.Equal(t, "C", id)

	_, ok = m.FindNodeByName("RONDO MOGILSKIE")
	assert.False(t, ok)

	id, ok = m.FindNodeByName("Cmentarz Rakowicki")
	require.True(t, ok, "inactive stops stay addressable")
	assert.Equal(t, "D", id)
}

func TestDefaultStyleFor(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Refresh(sampleNodes(), nil))

	for id, want := range map[string]StyleClass{"A": StyleTerminal, "C": StyleRegular, "D": StyleInactive} {
		got, ok := m.DefaultStyleFor(id)
		require.True(t, ok)
		assert.Equal(t, want, got, id)
	}
	_, ok := m.DefaultStyleFor("nope")
	assert.False(t, ok)
}

func TestRefreshReplacesWholeNetwork(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Refresh(sampleNodes(), []types.GraphEdge{{From: "A", To: "B"}}))
	require.NoError(t, m.Refresh([]types.GraphNode{{ID: "Z", Label: "Zajezdnia", Active: true}}, nil))

	s := m.Current()
	assert.Equal(t, 1, s.Len())
	_, ok := s.FindNodeByName("X")
	assert.False(t, ok)
	_, ok = s.FindEdgeBetween("A", "B")
	assert.False(t, ok)
}

func TestRefreshFailureKeepsPriorSnapshot(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Refresh(sampleNodes(), nil))
	before := m.Current()

	err := m.Refresh([]types.GraphNode{{ID: "A", Label: "one"}, {ID: "A", Label: "two"}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateNode))
	assert.Same(t, before, m.Current())
}

func TestSnapshotIsNotMutatedByCallers(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Refresh(sampleNodes(), nil))

	nodes := m.Current().Nodes()
	nodes[0].Label = "changed"
	n, _ := m.Current().Node("A")
	assert.Equal(t, "X", n.Label)
}

func TestNodeColorFor(t *testing.T) {
	assert.Equal(t, "#1a237e", NodeColorFor(StyleTerminal).Background)
	assert.Equal(t, "#28a745", NodeColorFor(StyleOnPath).Background)
	assert.Nil(t, NodeColorFor("bogus").Highlight)
	assert.Equal(t, "#5D6D7E", EdgeColorFor(EdgeNeutral).Color)
	assert.Equal(t, "#28a745", EdgeColorFor(EdgeOnPath).Color)
}
