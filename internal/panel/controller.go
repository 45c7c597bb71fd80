package panel

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MalithGihan/tramnet-panel/internal/backend"
	"github.com/MalithGihan/tramnet-panel/internal/details"
	"github.com/MalithGihan/tramnet-panel/internal/graph"
	"github.com/MalithGihan/tramnet-panel/internal/highlight"
	"github.com/MalithGihan/tramnet-panel/internal/metrics"
	"github.com/MalithGihan/tramnet-panel/internal/render"
	"github.com/MalithGihan/tramnet-panel/pkg/types"
)

// Backend is the REST contract the controller consumes.
type Backend interface {
	Stats(ctx context.Context) (types.Stats, error)
	Stops(ctx context.Context) ([]types.Stop, error)
	StopDetails(ctx context.Context, id string) (types.StopDetails, error)
	StopStatus(ctx context.Context) (types.StopStatus, error)
	SetStopStatus(ctx context.Context, id string, active bool) error
	AddStop(ctx context.Context, s types.Stop) error
	DeleteStop(ctx context.Context, id string) error
	AddConnection(ctx context.Context, c types.Connection) error
	DeleteConnection(ctx context.Context, from, to string) error
	Connections(ctx context.Context) ([]types.Connection, error)
	Graph(ctx context.Context) (types.GraphSnapshot, error)
	ShortestPath(ctx context.Context, start, end string) (types.PathResult, error)
}

// SnapshotCache persists the last graph the backend delivered.
type SnapshotCache interface {
	SaveSnapshot(types.GraphSnapshot) error
	LoadSnapshot() (types.GraphSnapshot, bool, error)
}

// messages shown for a failed action: rejected is the fallback when the
// backend gives no message, transport is shown when it could not be reached.
type messages struct{ rejected, transport string }

var (
	msgLoad        = messages{"Error loading network data", "Error loading network data. Please try again."}
	msgPath        = messages{"No path found between the selected stops", "Error finding path. Please try again."}
	msgDetails     = messages{"Error loading stop details", "Error loading stop details. Please try again."}
	msgAddStop     = messages{"Error adding stop", "Error adding stop. Please try again."}
	msgAddConn     = messages{"Error adding connection", "Error adding connection. Please try again."}
	msgStatus      = messages{"Error loading stop status", "Error loading stop status. Please try again."}
	msgToggle      = messages{"Error toggling stop status", "Error toggling stop status. Please try again."}
	msgDeleteStop  = messages{"Error deleting stop", "Error deleting stop. Please try again."}
	msgDeleteConn  = messages{"Error deleting connection", "Error deleting connection. Please try again."}
	msgConnections = messages{"Error loading connections", "Error loading connections. Please try again."}
)

const CachedNetworkNotice = "Showing the last cached network; the backend is unavailable."

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// Failure carries the message shown to the operator for a failed action.
type Failure struct {
	Op      string
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Op + ": " + f.Err.Error() }
func (f *Failure) Unwrap() error { return f.Err }

// Controller owns the client state, the graph model and the renderer. Every
// backend action goes through it.
type Controller struct {
	backend  Backend
	cache    SnapshotCache
	log      *zap.Logger
	metrics  *metrics.Collector
	model    *graph.Model
	renderer *render.Renderer

	mu    sync.Mutex
	state ClientState
	gens  generations
}

// New wires a controller. cache may be nil.
func New(b Backend, cache SnapshotCache, log *zap.Logger, m *metrics.Collector) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewCollector()
	}
	c := &Controller{
		backend:  b,
		cache:    cache,
		log:      log,
		metrics:  m,
		model:    graph.NewModel(),
		renderer: render.New(),
		gens:     generations{},
	}
	c.renderer.OnClick(c.ShowStopDetails)
	return c
}

func (c *Controller) Model() *graph.Model        { return c.model }
func (c *Controller) Renderer() *render.Renderer { return c.renderer }

// State returns a copy of the client state with the current graph view.
func (c *Controller) State() StateView {
	c.mu.Lock()
	st := c.state.clone()
	c.mu.Unlock()
	return StateView{ClientState: st, Graph: c.renderer.View()}
}

func (c *Controller) begin(s Slice) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens.next(s)
}

// commit runs apply under the state lock if gen is still the latest for s.
func (c *Controller) commit(s Slice, gen uint64, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.gens.latest(s, gen) {
		c.metrics.ObserveStale(string(s))
		c.log.Debug("discarding superseded response", zap.String("slice", string(s)), zap.Uint64("generation", gen))
		return false
	}
	apply()
	return true
}

func (c *Controller) notify(kind NoticeKind, msg string) {
	c.mu.Lock()
	c.state.Notice = &Notice{Kind: kind, Message: msg}
	c.mu.Unlock()
}

func (c *Controller) invalid(msg string) error {
	c.notify(NoticeError, msg)
	return &ValidationError{Message: msg}
}

// fail turns a backend error into a notice. For a slice request the notice is
// only posted if the request is still current.
func (c *Controller) fail(op string, s Slice, gen uint64, err error, m messages) error {
	msg := m.transport
	if !backend.IsTransport(err) {
		msg = m.rejected
		if bm := backend.Message(err); bm != "" {
			msg = bm
		}
		c.log.Info("backend rejected request", zap.String("op", op), zap.String("message", msg))
	} else {
		c.log.Error("backend request failed", zap.String("op", op), zap.Error(err))
	}

	notice := func() { c.state.Notice = &Notice{Kind: NoticeError, Message: msg} }
	if s == "" {
		c.mu.Lock()
		notice()
		c.mu.Unlock()
	} else {
		c.commit(s, gen, notice)
	}
	return &Failure{Op: op, Message: msg, Err: err}
}

func (c *Controller) LoadStats(ctx context.Context) error {
	gen := c.begin(SliceStats)
	stats, err := c.backend.Stats(ctx)
	if err != nil {
		return c.fail("load stats", SliceStats, gen, err, msgLoad)
	}
	c.commit(SliceStats, gen, func() { c.state.Stats = &stats })
	return nil
}

// LoadStops refreshes the stop list. Only active stops are offered in the
// start/end/from/to pickers.
func (c *Controller) LoadStops(ctx context.Context) error {
	gen := c.begin(SliceStops)
	stops, err := c.backend.Stops(ctx)
	if err != nil {
		return c.fail("load stops", SliceStops, gen, err, msgLoad)
	}
	var active []types.Stop
	var options []StopOption
	for _, s := range stops {
		if !s.Active {
			continue
		}
		active = append(active, s)
		options = append(options, StopOption{ID: s.ID, Name: s.Name})
	}
	c.commit(SliceStops, gen, func() {
		c.state.AllStops = stops
		c.state.ActiveStops = active
		c.state.StopOptions = options
	})
	return nil
}

// LoadGraph replaces the model and rebuilds the renderer. A failed fetch or
// a rejected snapshot leaves both as they were.
func (c *Controller) LoadGraph(ctx context.Context) error {
	gen := c.begin(SliceGraph)
	g, err := c.backend.Graph(ctx)
	if err != nil {
		return c.fail("load graph", SliceGraph, gen, err, msgLoad)
	}

	var refreshErr error
	committed := c.commit(SliceGraph, gen, func() {
		if refreshErr = c.install(g); refreshErr != nil {
			c.state.Notice = &Notice{Kind: NoticeError, Message: msgLoad.transport}
		}
	})
	if refreshErr != nil {
		c.log.Error("graph snapshot rejected", zap.Error(refreshErr))
		return &Failure{Op: "load graph", Message: msgLoad.transport, Err: refreshErr}
	}
	if committed && c.cache != nil {
		if err := c.cache.SaveSnapshot(g); err != nil {
			c.log.Warn("could not cache graph snapshot", zap.Error(err))
		}
	}
	return nil
}

// install must run with c.mu held.
func (c *Controller) install(g types.GraphSnapshot) error {
	if err := c.model.Refresh(g.Nodes, g.Edges); err != nil {
		return err
	}
	s := c.model.Current()
	c.renderer.SetGraph(s)
	c.state.Path = nil
	c.metrics.SetGraphSize(s.Len(), len(s.Edges()))
	return nil
}

// RefreshNetwork reloads stats, stops and graph concurrently. Each slice
// commits on its own; the first error is returned.
func (c *Controller) RefreshNetwork(ctx context.Context) error {
	return firstError(c.refresh(ctx))
}

// refresh returns the errors of the stats, stops and graph loads, in that order.
func (c *Controller) refresh(ctx context.Context) []error {
	loads := []func(context.Context) error{c.LoadStats, c.LoadStops, c.LoadGraph}
	errs := make([]error, len(loads))
	var wg sync.WaitGroup
	for i, load := range loads {
		wg.Add(1)
		go func(i int, load func(context.Context) error) {
			defer wg.Done()
			errs[i] = load(ctx)
		}(i, load)
	}
	wg.Wait()
	return errs
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Start performs the initial load. When the graph cannot be fetched the last
// cached snapshot, if any, is shown instead.
func (c *Controller) Start(ctx context.Context) error {
	errs := c.refresh(ctx)
	err := firstError(errs)
	if errs[2] == nil || c.cache == nil || c.model.Current().Len() > 0 {
		return err
	}
	g, ok, cacheErr := c.cache.LoadSnapshot()
	if cacheErr != nil {
		c.log.Warn("could not read cached graph snapshot", zap.Error(cacheErr))
		return err
	}
	if !ok {
		return err
	}

	var installErr error
	c.commit(SliceGraph, c.begin(SliceGraph), func() {
		if installErr = c.install(g); installErr == nil {
			c.state.Notice = &Notice{Kind: NoticeInfo, Message: CachedNetworkNotice}
		}
	})
	if installErr != nil {
		c.log.Warn("cached graph snapshot rejected", zap.Error(installErr))
		return err
	}
	c.log.Info("loaded cached graph snapshot", zap.Int("nodes", len(g.Nodes)), zap.Int("edges", len(g.Edges)))
	return err
}

// FindShortestPath asks the backend for a route between two stop ids and
// highlights it. Nothing is highlighted when the request fails.
func (c *Controller) FindShortestPath(ctx context.Context, start, end string) error {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return c.invalid("Please select both start and end stops")
	}

	gen := c.begin(SlicePath)
	res, err := c.backend.ShortestPath(ctx, start, end)
	if err != nil {
		return c.fail("find path", SlicePath, gen, err, msgPath)
	}

	c.commit(SlicePath, gen, func() {
		plan := highlight.Highlight(c.model.Current(), c.renderer, res.Path)
		c.state.Path = &PathView{
			Steps:    res.Path,
			Duration: res.Duration,
			Highlighted: HighlightSummary{
				Nodes:           len(plan.NodeIDs),
				Edges:           len(plan.EdgeIDs),
				Unresolved:      plan.Unresolved,
				MissingSegments: plan.MissingSegments,
			},
		}
		c.metrics.ObserveHighlight(len(plan.NodeIDs), len(plan.EdgeIDs), len(plan.Unresolved), plan.MissingSegments)
		if len(plan.Unresolved) > 0 || plan.MissingSegments > 0 {
			c.log.Debug("path partially highlighted",
				zap.Strings("unresolved", plan.Unresolved), zap.Int("missing_segments", plan.MissingSegments))
		}
	})
	return nil
}

// SelectStop is a click on a rendered stop. It reports false for stops that
// are not in the graph.
func (c *Controller) SelectStop(ctx context.Context, id string) (bool, error) {
	return c.renderer.Click(ctx, id)
}

func (c *Controller) ShowStopDetails(ctx context.Context, id string) error {
	gen := c.begin(SliceDetails)
	d, err := c.backend.StopDetails(ctx, id)
	if err != nil {
		return c.fail("stop details", SliceDetails, gen, err, msgDetails)
	}
	payload := details.Format(d)
	c.commit(SliceDetails, gen, func() { c.state.Details = &payload })
	return nil
}

// StopForm is the add-stop form as typed.
type StopForm struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Lat  string `json:"lat"`
	Lng  string `json:"lng"`
}

// AddStop submits a new stop. Ids are trimmed and upper-cased.
func (c *Controller) AddStop(ctx context.Context, f StopForm) error {
	id := strings.ToUpper(strings.TrimSpace(f.ID))
	name := strings.TrimSpace(f.Name)
	latS, lngS := strings.TrimSpace(f.Lat), strings.TrimSpace(f.Lng)
	if id == "" || name == "" || latS == "" || lngS == "" {
		return c.invalid("Please fill in all fields")
	}
	lat, errLat := strconv.ParseFloat(latS, 64)
	lng, errLng := strconv.ParseFloat(lngS, 64)
	if errLat != nil || errLng != nil {
		return c.invalid("Latitude and longitude must be numbers")
	}

	if err := c.backend.AddStop(ctx, types.Stop{ID: id, Name: name, Lat: lat, Lng: lng}); err != nil {
		return c.fail("add stop", "", 0, err, msgAddStop)
	}
	c.log.Info("stop added", zap.String("id", id), zap.String("name", name))
	c.notify(NoticeSuccess, "Stop added successfully")
	c.refreshAfterChange(ctx)
	return nil
}

// ConnectionForm is the connect-stops form as typed. Weight is minutes.
type ConnectionForm struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight string `json:"weight"`
}

func (c *Controller) AddConnection(ctx context.Context, f ConnectionForm) error {
	from, to, w := strings.TrimSpace(f.From), strings.TrimSpace(f.To), strings.TrimSpace(f.Weight)
	if from == "" || to == "" || w == "" {
		return c.invalid("Please fill in all fields")
	}
	if from == to {
		return c.invalid("Cannot connect a stop to itself")
	}
	weight, err := strconv.Atoi(w)
	if err != nil || weight <= 0 {
		return c.invalid("Travel time must be a positive number of minutes")
	}

	if err := c.backend.AddConnection(ctx, types.Connection{From: from, To: to, Weight: weight}); err != nil {
		return c.fail("add connection", "", 0, err, msgAddConn)
	}
	c.log.Info("connection added", zap.String("from", from), zap.String("to", to), zap.Int("weight", weight))
	c.notify(NoticeSuccess, "Connection added successfully")
	c.refreshAfterChange(ctx)
	return nil
}

func (c *Controller) DeleteConnection(ctx context.Context, from, to string) error {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return c.invalid("Please fill in all fields")
	}
	if err := c.backend.DeleteConnection(ctx, from, to); err != nil {
		return c.fail("delete connection", "", 0, err, msgDeleteConn)
	}
	c.notify(NoticeSuccess, "Connection deleted successfully")
	c.refreshAfterChange(ctx)
	return nil
}

func (c *Controller) DeleteStop(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return c.invalid("Please select a stop")
	}
	if err := c.backend.DeleteStop(ctx, id); err != nil {
		return c.fail("delete stop", "", 0, err, msgDeleteStop)
	}
	c.notify(NoticeSuccess, "Stop deleted successfully")
	c.refreshAfterChange(ctx)
	return nil
}

func (c *Controller) LoadStopStatus(ctx context.Context) error {
	gen := c.begin(SliceStatus)
	st, err := c.backend.StopStatus(ctx)
	if err != nil {
		return c.fail("stop status", SliceStatus, gen, err, msgStatus)
	}
	c.commit(SliceStatus, gen, func() { c.state.StopStatus = &st })
	return nil
}

// ToggleStopStatus activates or deactivates a stop, then reloads the status
// lists and the network.
func (c *Controller) ToggleStopStatus(ctx context.Context, id string, active bool) error {
	if err := c.backend.SetStopStatus(ctx, id, active); err != nil {
		return c.fail("toggle stop", "", 0, err, msgToggle)
	}
	c.log.Info("stop status changed", zap.String("id", id), zap.Bool("active", active))
	c.notify(NoticeSuccess, "Stop status updated")
	if err := c.LoadStopStatus(ctx); err != nil {
		c.log.Warn("reloading stop status failed", zap.Error(err))
	}
	c.refreshAfterChange(ctx)
	return nil
}

func (c *Controller) LoadConnections(ctx context.Context) error {
	gen := c.begin(SliceConnections)
	conns, err := c.backend.Connections(ctx)
	if err != nil {
		return c.fail("connections", SliceConnections, gen, err, msgConnections)
	}
	c.commit(SliceConnections, gen, func() { c.state.Connections = conns })
	return nil
}

// refreshAfterChange reloads the network after a successful mutation. Its
// failures are already noticed and logged, and do not undo the mutation.
func (c *Controller) refreshAfterChange(ctx context.Context) {
	if err := c.RefreshNetwork(ctx); err != nil {
		c.log.Warn("refresh after change failed", zap.Error(err))
	}
}

// UserMessage extracts the operator-facing text from an error returned by
// the controller.
func UserMessage(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	if err != nil {
		return "Something went wrong. Please try again."
	}
	return ""
}
