package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MalithGihan/tramnet-panel/internal/metrics"
	"github.com/MalithGihan/tramnet-panel/internal/validate"
	"github.com/MalithGihan/tramnet-panel/pkg/types"
)

const maxBody = 8 << 20

// ErrTransport matches every failure to reach the backend or read its reply.
var ErrTransport = errors.New("backend unreachable")

type transportError struct {
	endpoint string
	err      error
}

func (e *transportError) Error() string        { return e.endpoint + ": " + e.err.Error() }
func (e *transportError) Unwrap() error        { return e.err }
func (e *transportError) Is(target error) bool { return target == ErrTransport }

// APIError is a reply with success=false.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Endpoint + ": request rejected"
	}
	return e.Endpoint + ": " + e.Message
}

// Client speaks the tram backend's REST contract. Each call is one request;
// nothing is retried.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Collector
}

func New(baseURL string, timeout time.Duration, log *zap.Logger, m *metrics.Collector) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
		metrics: m,
	}
}

func (c *Client) Stats(ctx context.Context) (types.Stats, error) {
	var out types.Stats
	err := c.do(ctx, http.MethodGet, "/api/stats", "/api/stats", nil, &out)
	return out, err
}

func (c *Client) Stops(ctx context.Context) ([]types.Stop, error) {
	var out []types.Stop
	err := c.do(ctx, http.MethodGet, "/api/stops", "/api/stops", nil, &out)
	return out, err
}

func (c *Client) StopDetails(ctx context.Context, id string) (types.StopDetails, error) {
	var out types.StopDetails
	err := c.do(ctx, http.MethodGet, "/api/stops/"+url.PathEscape(id), "/api/stops/{id}", nil, &out)
	return out, err
}

func (c *Client) StopStatus(ctx context.Context) (types.StopStatus, error) {
	var out types.StopStatus
	err := c.do(ctx, http.MethodGet, "/api/stops/status", "/api/stops/status", nil, &out)
	return out, err
}

func (c *Client) SetStopStatus(ctx context.Context, id string, active bool) error {
	body := map[string]bool{"active": active}
	return c.do(ctx, http.MethodPut, "/api/stops/"+url.PathEscape(id)+"/status", "/api/stops/{id}/status", body, nil)
}

type newStop struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (c *Client) AddStop(ctx context.Context, s types.Stop) error {
	body := newStop{ID: s.ID, Name: s.Name, Lat: s.Lat, Lng: s.Lng}
	return c.do(ctx, http.MethodPost, "/api/stops", "/api/stops", body, nil)
}

func (c *Client) DeleteStop(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/stops/"+url.PathEscape(id), "/api/stops/{id}", nil, nil)
}

func (c *Client) AddConnection(ctx context.Context, conn types.Connection) error {
	body := types.Connection{From: conn.From, To: conn.To, Weight: conn.Weight}
	return c.do(ctx, http.MethodPost, "/api/connections", "/api/connections", body, nil)
}

func (c *Client) DeleteConnection(ctx context.Context, from, to string) error {
	body := map[string]string{"from": from, "to": to}
	return c.do(ctx, http.MethodDelete, "/api/connections", "/api/connections", body, nil)
}

func (c *Client) Connections(ctx context.Context) ([]types.Connection, error) {
	var out []types.Connection
	err := c.do(ctx, http.MethodGet, "/api/connections", "/api/connections", nil, &out)
	return out, err
}

// Graph fetches the network and checks the payload shape before decoding it.
func (c *Client) Graph(ctx context.Context) (types.GraphSnapshot, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/network/graph", "/api/network/graph", nil, &raw); err != nil {
		return types.GraphSnapshot{}, err
	}
	if err := validate.Graph(raw); err != nil {
		return types.GraphSnapshot{}, &transportError{endpoint: "/api/network/graph", err: err}
	}
	var out types.GraphSnapshot
	if err := json.Unmarshal(raw, &out); err != nil {
		return types.GraphSnapshot{}, &transportError{endpoint: "/api/network/graph", err: err}
	}
	return out, nil
}

func (c *Client) ShortestPath(ctx context.Context, start, end string) (types.PathResult, error) {
	var out types.PathResult
	body := map[string]string{"start": start, "end": end}
	err := c.do(ctx, http.MethodPost, "/api/routes/shortest", "/api/routes/shortest", body, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path, endpoint string, body, out any) (err error) {
	began := time.Now()
	defer func() {
		if c.metrics == nil {
			return
		}
		outcome := "ok"
		var apiErr *APIError
		switch {
		case errors.As(err, &apiErr):
			outcome = "rejected"
		case err != nil:
			outcome = "transport"
		}
		c.metrics.ObserveRequest(endpoint, outcome, time.Since(began))
	}()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s body", endpoint)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return errors.Wrapf(err, "build %s request", endpoint)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("backend request failed", zap.String("method", method), zap.String("endpoint", endpoint), zap.Error(err))
		return errors.WithStack(&transportError{endpoint: endpoint, err: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return errors.WithStack(&transportError{endpoint: endpoint, err: err})
	}
	var env types.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Error("backend reply is not an envelope",
			zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode), zap.Error(err))
		return errors.WithStack(&transportError{endpoint: endpoint, err: errors.Wrapf(err, "status %d", resp.StatusCode)})
	}
	c.log.Debug("backend reply",
		zap.String("method", method), zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode), zap.Bool("success", env.Success))

	if !env.Success {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.WithStack(&transportError{endpoint: endpoint, err: errors.Wrap(err, "decode data")})
	}
	return nil
}

// IsTransport reports whether err means the backend could not be reached or understood.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }

// Message returns the backend's message for a rejected request, or "".
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
