package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Stop struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Active bool     `json:"active"`
	Lat    float64  `json:"lat"`
	Lng    float64  `json:"lng"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
}

// Connection is a directed, weighted link as submitted to the backend.
// Weight is travel time in minutes.
type Connection struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
	Active *bool  `json:"active,omitempty"`
}

type ConnectionInfo struct {
	FromName string `json:"from_name"`
	ToName   string `json:"to_name"`
	Weight   int    `json:"weight"`
}

type GraphNode struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Active bool     `json:"active"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
}

type GraphEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label"`
	Weight int    `json:"weight,omitempty"`
}

type GraphSnapshot struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// PathResult is a shortest-route answer. Path holds stop names, not ids.
type PathResult struct {
	Path     []string `json:"path"`
	Duration string   `json:"duration"`
}

type Stats struct {
	TotalStops  int `json:"total_stops"`
	ActiveStops int `json:"active_stops"`
	TotalRoutes int `json:"total_routes"`
}

type StopStatus struct {
	Active   []Stop `json:"active"`
	Inactive []Stop `json:"inactive"`
}

type StopDetails struct {
	Info        Stop             `json:"info"`
	Lines       []string         `json:"lines"`
	Connections []ConnectionInfo `json:"connections"`
	Traffic     []TrafficSample  `json:"traffic"`
}

// TrafficSample travels as a 3-element array: [day, hour, congestion].
type TrafficSample struct {
	Day        string
	Hour       int
	Congestion float64
}

func (t TrafficSample) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Day, t.Hour, t.Congestion})
}

func (t *TrafficSample) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("traffic sample: want 3 fields, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &t.Day); err != nil {
		return fmt.Errorf("traffic sample day: %w", err)
	}
	hour, err := looseNumber(raw[1])
	if err != nil {
		return fmt.Errorf("traffic sample hour: %w", err)
	}
	t.Hour = int(hour)
	if t.Congestion, err = looseNumber(raw[2]); err != nil {
		return fmt.Errorf("traffic sample congestion: %w", err)
	}
	return nil
}

// the backend stores hours as text, so numbers may arrive quoted
func looseNumber(b json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Envelope is the response shape shared by the backend and the panel API.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}
