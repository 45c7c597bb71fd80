package details

import (
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/MalithGihan/tramnet-panel/pkg/types"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

const (
	NoConnectionsNote = "No connections found for this stop."
	NoTrafficNote     = "No traffic data available for this stop."
)

// SeverityFor buckets a congestion percentage. Both thresholds are exclusive.
func SeverityFor(congestion float64) Severity {
	switch {
	case congestion > 70:
		return SeveritySevere
	case congestion > 40:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

var week = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// weekday maps a label like "Mon", "monday" or "MONDAY" to its canonical name.
func weekday(label string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	if len(l) < 3 {
		return "", false
	}
	for _, d := range week {
		full := strings.ToLower(d)
		if strings.HasPrefix(full, l) {
			return d, true
		}
	}
	return "", false
}

type HourBadge struct {
	Hour       int      `json:"hour"`
	Congestion float64  `json:"congestion"`
	Severity   Severity `json:"severity"`
	Title      string   `json:"title"`
}

type DayTraffic struct {
	Day   string      `json:"day"`
	Hours []HourBadge `json:"hours"`
}

type ConnectionLine struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
	Text   string `json:"text"`
}

type Payload struct {
	Stop        types.Stop       `json:"stop"`
	Status      string           `json:"status"`
	Lines       []string         `json:"lines"`
	Connections []ConnectionLine `json:"connections"`
	Traffic     []DayTraffic     `json:"traffic"`
	Notes       []string         `json:"notes,omitempty"`
}

// Format turns the backend's stop details into a display payload.
func Format(d types.StopDetails) Payload {
	p := Payload{
		Stop:    d.Info,
		Status:  "Inactive",
		Lines:   append([]string{}, d.Lines...),
		Traffic: BucketTraffic(d.Traffic),
	}
	if d.Info.Active {
		p.Status = "Active"
	}
	for _, c := range d.Connections {
		p.Connections = append(p.Connections, ConnectionLine{
			From:   c.FromName,
			To:     c.ToName,
			Weight: c.Weight,
			Text:   c.FromName + " to " + c.ToName,
		})
	}
	if len(p.Connections) == 0 {
		p.Notes = append(p.Notes, NoConnectionsNote)
	}
	if len(p.Traffic) == 0 {
		p.Notes = append(p.Notes, NoTrafficNote)
	}
	return p
}

// BucketTraffic groups samples by day in Monday..Sunday order. Hours keep
// their arrival order, days without samples are left out, and labels that
// name no weekday are dropped. A day is shown under the first label seen.
func BucketTraffic(samples []types.TrafficSample) []DayTraffic {
	buckets := orderedmap.New[string, *DayTraffic]()
	for _, d := range week {
		buckets.Set(d, &DayTraffic{})
	}
	for _, s := range samples {
		day, ok := weekday(s.Day)
		if !ok {
			continue
		}
		b, _ := buckets.Get(day)
		if b.Day == "" {
			b.Day = s.Day
		}
		b.Hours = append(b.Hours, HourBadge{
			Hour:       s.Hour,
			Congestion: s.Congestion,
			Severity:   SeverityFor(s.Congestion),
			Title:      fmt.Sprintf("Hour %d: %s%%", s.Hour, strconv.FormatFloat(s.Congestion, 'f', -1, 64)),
		})
	}

	var out []DayTraffic
	for p := buckets.Oldest(); p != nil; p = p.Next() {
		if len(p.Value.Hours) == 0 {
			continue
		}
		out = append(out, *p.Value)
	}
	return out
}
