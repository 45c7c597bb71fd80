package panel

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/MalithGihan/tramnet-panel/internal/backend"
	"github.com/MalithGihan/tramnet-panel/pkg/types"
)

var errDown = errors.Wrap(backend.ErrTransport, "dial tcp 127.0.0.1:5000: connection refused")

func rejected(msg string) error {
	return &backend.APIError{Endpoint: "test", StatusCode: 404, Message: msg}
}

// fakeBackend is an in-memory tram backend. Setting an entry in errs makes
// the named method fail; gates block ShortestPath for a given start id until
// the channel is closed.
type fakeBackend struct {
	mu      sync.Mutex
	stats   types.Stats
	stops   []types.Stop
	graph   types.GraphSnapshot
	paths   map[string]types.PathResult
	details map[string]types.StopDetails
	status  types.StopStatus
	conns   []types.Connection
	errs    map[string]error
	gates   map[string]chan struct{}
	calls   []string
}

func newFake() *fakeBackend {
	return &fakeBackend{
		stats: types.Stats{TotalStops: 3, ActiveStops: 2, TotalRoutes: 1},
		stops: []types.Stop{
			{ID: "A", Name: "X", Active: true},
			{ID: "B", Name: "Y", Active: true},
			{ID: "C", Name: "Zabłocie", Active: false},
		},
		graph: types.GraphSnapshot{
			Nodes: []types.GraphNode{
				{ID: "A", Label: "X", Active: true},
				{ID: "B", Label: "Y", Active: true},
				{ID: "C", Label: "Zabłocie", Active: false},
			},
			Edges: []types.GraphEdge{{From: "A", To: "B", Label: "5", Weight: 5}, {From: "B", To: "C", Label: "3", Weight: 3}},
		},
		paths: map[string]types.PathResult{
			"A>B": {Path: []string{"X", "Y"}, Duration: "5 min"},
			"B>C": {Path: []string{"Y", "Zabłocie"}, Duration: "3 min"},
		},
		details: map[string]types.StopDetails{
			"A": {
				Info:    types.Stop{ID: "A", Name: "X", Active: true},
				Lines:   []string{"1"},
				Traffic: []types.TrafficSample{{Day: "Wed", Hour: 8, Congestion: 50}, {Day: "Mon", Hour: 9, Congestion: 80}},
			},
		},
		status: types.StopStatus{
			Active:   []types.Stop{{ID: "A", Name: "X"}, {ID: "B", Name: "Y"}},
			Inactive: []types.Stop{{ID: "C", Name: "Zabłocie"}},
		},
		errs:  map[string]error{},
		gates: map[string]chan struct{}{},
	}
}

func (f *fakeBackend) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.errs[call]
}

func (f *fakeBackend) setErr(call string, err error) {
	f.mu.Lock()
	f.errs[call] = err
	f.mu.Unlock()
}

func (f *fakeBackend) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) Stats(context.Context) (types.Stats, error) {
	if err := f.record("Stats"); err != nil {
		return types.Stats{}, err
	}
	return f.stats, nil
}

func (f *fakeBackend) Stops(context.Context) ([]types.Stop, error) {
	if err := f.record("Stops"); err != nil {
		return nil, err
	}
	return append([]types.Stop(nil), f.stops...), nil
}

func (f *fakeBackend) StopDetails(_ context.Context, id string) (types.StopDetails, error) {
	if err := f.record("StopDetails"); err != nil {
		return types.StopDetails{}, err
	}
	d, ok := f.details[id]
	if !ok {
		return d, rejected("")
	}
	return d, nil
}

func (f *fakeBackend) StopStatus(context.Context) (types.StopStatus, error) {
	if err := f.record("StopStatus"); err != nil {
		return types.StopStatus{}, err
	}
	return f.status, nil
}

func (f *fakeBackend) SetStopStatus(_ context.Context, id string, active bool) error {
	return f.record("SetStopStatus")
}

func (f *fakeBackend) AddStop(_ context.Context, s types.Stop) error {
	if err := f.record("AddStop"); err != nil {
		return err
	}
	f.mu.Lock()
	f.stops = append(f.stops, s)
	f.graph.Nodes = append(f.graph.Nodes, types.GraphNode{ID: s.ID, Label: s.Name, Active: true})
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) DeleteStop(context.Context, string) error { return f.record("DeleteStop") }

func (f *fakeBackend) AddConnection(_ context.Context, c types.Connection) error {
	if err := f.record("AddConnection"); err != nil {
		return err
	}
	f.mu.Lock()
	f.conns = append(f.conns, c)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) DeleteConnection(context.Context, string, string) error {
	return f.record("DeleteConnection")
}

func (f *fakeBackend) Connections(context.Context) ([]types.Connection, error) {
	if err := f.record("Connections"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Connection(nil), f.conns...), nil
}

func (f *fakeBackend) Graph(context.Context) (types.GraphSnapshot, error) {
	if err := f.record("Graph"); err != nil {
		return types.GraphSnapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return types.GraphSnapshot{
		Nodes: append([]types.GraphNode(nil), f.graph.Nodes...),
		Edges: append([]types.GraphEdge(nil), f.graph.Edges...),
	}, nil
}

func (f *fakeBackend) ShortestPath(_ context.Context, start, end string) (types.PathResult, error) {
	f.mu.Lock()
	gate := f.gates[start]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err := f.record("ShortestPath"); err != nil {
		return types.PathResult{}, err
	}
	res, ok := f.paths[start+">"+end]
	if !ok {
		return res, rejected("No path found")
	}
	return res, nil
}
