package panel

import (
	"github.com/MalithGihan/tramnet-panel/internal/details"
	"github.com/MalithGihan/tramnet-panel/internal/render"
	"github.com/MalithGihan/tramnet-panel/pkg/types"
)

// Slice names an independently refreshed part of the client state.
type Slice string

const (
	SliceStats       Slice = "stats"
	SliceStops       Slice = "stops"
	SliceGraph       Slice = "graph"
	SlicePath        Slice = "path"
	SliceDetails     Slice = "details"
	SliceStatus      Slice = "status"
	SliceConnections Slice = "connections"
)

// generations hands out a rising counter per slice. Only the completion
// holding the latest number for its slice may write.
type generations map[Slice]uint64

func (g generations) next(s Slice) uint64 {
	g[s]++
	return g[s]
}

func (g generations) latest(s Slice, gen uint64) bool { return g[s] == gen }

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

type StopOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type HighlightSummary struct {
	Nodes           int      `json:"nodes"`
	Edges           int      `json:"edges"`
	Unresolved      []string `json:"unresolved,omitempty"`
	MissingSegments int      `json:"missing_segments,omitempty"`
}

type PathView struct {
	Steps       []string         `json:"steps"`
	Duration    string           `json:"duration"`
	Highlighted HighlightSummary `json:"highlighted"`
}

// ClientState is everything the panel shows besides the graph itself.
// Controller is its only writer.
type ClientState struct {
	Stats       *types.Stats       `json:"stats,omitempty"`
	AllStops    []types.Stop       `json:"all_stops"`
	ActiveStops []types.Stop       `json:"active_stops"`
	StopOptions []StopOption       `json:"stop_options"`
	StopStatus  *types.StopStatus  `json:"stop_status,omitempty"`
	Connections []types.Connection `json:"connections,omitempty"`
	Path        *PathView          `json:"path,omitempty"`
	Details     *details.Payload   `json:"details,omitempty"`
	Notice      *Notice            `json:"notice,omitempty"`
}

// StateView is a copy of the client state plus the rendered graph.
type StateView struct {
	ClientState
	Graph render.View `json:"graph"`
}

func (s ClientState) clone() ClientState {
	out := s
	out.AllStops = append([]types.Stop(nil), s.AllStops...)
	out.ActiveStops = append([]types.Stop(nil), s.ActiveStops...)
	out.StopOptions = append([]StopOption(nil), s.StopOptions...)
	out.Connections = append([]types.Connection(nil), s.Connections...)
	if s.Stats != nil {
		st := *s.Stats
		out.Stats = &st
	}
	if s.Notice != nil {
		n := *s.Notice
		out.Notice = &n
	}
	return out
}
