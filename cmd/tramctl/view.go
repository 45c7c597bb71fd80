package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MalithGihan/tramnet-panel/internal/details"
	"github.com/MalithGihan/tramnet-panel/internal/graph"
	"github.com/MalithGihan/tramnet-panel/pkg/types"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(graph.NodeColorFor(graph.StyleRegular).Background))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#28a745"))
	inactiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#dc3545"))
	pathStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(graph.EdgeColorFor(graph.EdgeOnPath).Color))

	severityStyles = map[details.Severity]lipgloss.Style{
		details.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("#28a745")),
		details.SeverityModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc107")),
		details.SeveritySevere:   lipgloss.NewStyle().Foreground(lipgloss.Color("#dc3545")),
	}
)

func renderStats(s types.Stats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Network") + "\n")
	fmt.Fprintf(&b, "  stops   %d\n", s.TotalStops)
	fmt.Fprintf(&b, "  active  %d\n", s.ActiveStops)
	fmt.Fprintf(&b, "  routes  %d\n", s.TotalRoutes)
	return b.String()
}

func renderStops(stops []types.Stop) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Stops") + "\n")
	for _, s := range stops {
		fmt.Fprintf(&b, "  %-8s %-28s %s\n", s.ID, s.Name, status(s.Active))
	}
	return b.String()
}

func renderPath(start, end string, p types.PathResult) string {
	steps := make([]string, len(p.Path))
	for i, name := range p.Path {
		steps[i] = pathStyle.Render(name)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Route %s to %s", start, end)) + "\n")
	b.WriteString("  " + strings.Join(steps, dimStyle.Render(" -> ")) + "\n")
	b.WriteString("  " + dimStyle.Render("travel time") + " " + p.Duration + "\n")
	return b.String()
}

func renderDetails(p details.Payload) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Stop.Name) + " " + dimStyle.Render(p.Stop.ID) + "\n")
	fmt.Fprintf(&b, "  status  %s\n", status(p.Status == "Active"))
	if len(p.Lines) > 0 {
		fmt.Fprintf(&b, "  lines   %s\n", strings.Join(p.Lines, ", "))
	}
	if len(p.Connections) > 0 {
		b.WriteString("  connections\n")
		for _, c := range p.Connections {
			fmt.Fprintf(&b, "    %s %s\n", c.Text, dimStyle.Render(fmt.Sprintf("(%d min)", c.Weight)))
		}
	}
	if len(p.Traffic) > 0 {
		b.WriteString("  traffic\n")
		for _, d := range p.Traffic {
			badges := make([]string, len(d.Hours))
			for i, h := range d.Hours {
				badges[i] = severityStyles[h.Severity].Render(fmt.Sprintf("%02d:%g%%", h.Hour, h.Congestion))
			}
			fmt.Fprintf(&b, "    %-10s %s\n", d.Day, strings.Join(badges, " "))
		}
	}
	for _, n := range p.Notes {
		b.WriteString("  " + dimStyle.Render(n) + "\n")
	}
	return b.String()
}

func status(active bool) string {
	if active {
		return activeStyle.Render("Active")
	}
	return inactiveStyle.Render("Inactive")
}
