package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-chaingraph/pkg/analysis"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1).
			MarginRight(1)

	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// maxIDWidth bounds node ids in tables; wallet addresses are 42 characters
const maxIDWidth = 18

func shortID(id string) string {
	if len(id) <= maxIDWidth {
		return id
	}
	keep := (maxIDWidth - 3) / 2
	return id[:keep] + "..." + id[len(id)-keep:]
}

func statLine(label string, value any) string {
	return labelStyle.Render(fmt.Sprintf("%-20s", label)) + valueStyle.Render(fmt.Sprint(value))
}

func renderReport(r *analysisReport) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Chaingraph analysis: "+r.Input) + "\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(renderStructure(r.Metrics)),
		statsBoxStyle.Render(renderCommunities(r.Communities)),
	))
	b.WriteString("\n")

	for _, name := range r.Centrality.Names() {
		scores, _ := r.Centrality.Get(name)
		b.WriteString(renderScores(name, scores))
	}

	if r.Temporal != nil {
		b.WriteString(renderTemporal(r.Temporal))
	}
	b.WriteString(mutedStyle.Render("snapshot "+r.SnapshotID) + "\n")
	return b.String()
}

func renderStructure(m *analysis.BasicMetrics) string {
	lines := []string{
		headerStyle.Render("Structure"),
		statLine("Nodes", m.NodeCount),
		statLine("Links", m.EdgeCount),
		statLine("Density", fmt.Sprintf("%.4f", m.Density)),
		statLine("Average degree", fmt.Sprintf("%.2f", m.AverageDegree)),
		statLine("Components", m.Components),
	}
	if m.Directed {
		lines = append(lines, statLine("Weak components", m.WeakComponents))
	}
	if c, ok := m.AverageClustering.Get(); ok {
		lines = append(lines, statLine("Clustering", fmt.Sprintf("%.4f", c)))
	}
	if p, ok := m.Paths.Get(); ok {
		lines = append(lines,
			statLine("Diameter", p.Diameter),
			statLine("Avg shortest path", fmt.Sprintf("%.3f", p.AverageShortestPath)))
	} else if err := m.Paths.Reason(); err != nil {
		lines = append(lines, statLine("Paths", errorStyle.Render(err.Error())))
	}
	return strings.Join(lines, "\n")
}

func renderCommunities(c *analysis.CommunityResult) string {
	lines := []string{headerStyle.Render("Communities (" + c.Algorithm + ")")}
	if c.Err != nil {
		return strings.Join(append(lines, errorStyle.Render(c.Err.Error())), "\n")
	}
	lines = append(lines, statLine("Count", c.CommunityCount()))
	if q, ok := c.Modularity.Get(); ok {
		lines = append(lines, statLine("Modularity", fmt.Sprintf("%.4f", q)))
	}
	sizes := c.Sizes()
	shown := min(len(sizes), 5)
	for i := 0; i < shown; i++ {
		lines = append(lines, statLine(fmt.Sprintf("#%d size", i+1), sizes[i]))
	}
	if len(sizes) > shown {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("... %d more", len(sizes)-shown)))
	}
	return strings.Join(lines, "\n")
}

func renderScores(name string, s analysis.Scores) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ReplaceAll(name, "_", " ")) + "\n")
	if s.Len() == 0 {
		b.WriteString(mutedStyle.Render("  unavailable") + "\n")
		return b.String()
	}
	for i := range s.IDs {
		fmt.Fprintf(&b, "  %2d. %s %s\n", i+1,
			labelStyle.Render(fmt.Sprintf("%-*s", maxIDWidth, shortID(s.IDs[i]))),
			valueStyle.Render(fmt.Sprintf("%.6f", s.Values[i])))
	}
	return b.String()
}

func renderTemporal(t *analysis.TemporalResult) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Activity per %s", t.WindowSize)) + "\n")
	if t.Err != nil {
		b.WriteString(errorStyle.Render("  "+t.Err.Error()) + "\n")
		return b.String()
	}
	for _, w := range t.Windows {
		density := mutedStyle.Render("n/a")
		if m, ok := w.Metrics.Get(); ok {
			density = fmt.Sprintf("%.4f", m.Density)
		}
		fmt.Fprintf(&b, "  %s  %s links  density %s\n",
			labelStyle.Render(w.Start.Format("2006-01-02 15:04")),
			valueStyle.Render(fmt.Sprintf("%5d", w.LinkCount)),
			density)
	}
	return b.String()
}
