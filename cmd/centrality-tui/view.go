package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-centrality/pkg/algorithms"
	"github.com/dd0wney/cluso-centrality/pkg/report"
)

// topCount is how many leaders the sidebar shows for the current measure.
const topCount = 5

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("🔥 Cluso Centrality - Interactive TUI"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.currentView == pathsView {
		s.WriteString(m.renderPaths())
	} else {
		s.WriteString(m.renderMeasure())
	}

	// Message
	if m.message != "" {
		s.WriteString("\n\n")
		if m.errored {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	// Help
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	var renderedTabs []string

	for i, tab := range tabNames {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderMeasure() string {
	measure, _ := measureOf(m.currentView)

	var s strings.Builder
	s.WriteString(headerStyle.Render(measure.Title()))
	s.WriteString("\n\n")

	entries, ok := m.ranked[measure]
	if !ok {
		s.WriteString(m.spinner.View() + " Computing " + strings.ToLower(measure.Title()) + "...")
		return contentStyle.Render(s.String())
	}

	table := m.scoreTable.View()
	side := m.renderStats(entries)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, statsBoxStyle.Render(side), table))

	return contentStyle.Render(s.String())
}

func (m model) renderStats(entries []report.Entry) string {
	g := m.session.Graph

	var s strings.Builder
	fmt.Fprintf(&s, "📊 Graph\n━━━━━━━━━━━━━━━\nNodes:     %d\nEdges:     %d\n", g.Len(), g.EdgeCount())

	cache := m.session.Engine.Cache()
	switch {
	case m.warming:
		fmt.Fprintf(&s, "Paths:     %s\n", m.spinner.View())
	case cache.Populated():
		st := cache.Stats()
		fmt.Fprintf(&s, "Pairs:     %d\nPaths:     %d\nWarm-up:   %s\n", st.Pairs, st.Paths, m.warmTook.Round(time.Millisecond))
	}

	if measure, _ := measureOf(m.currentView); measure == algorithms.MeasureClustering {
		fmt.Fprintf(&s, "Average:   %.2f\n", m.session.Engine.AverageClustering())
	}

	s.WriteString("\n🏆 Leaders\n━━━━━━━━━━━━━━━\n")
	limit := min(topCount, len(entries))
	for _, e := range entries[:limit] {
		fmt.Fprintf(&s, "%-10s %s\n", e.Label, report.FormatScore(e.Score))
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m model) renderPaths() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Shortest Paths"))
	s.WriteString("\n\n")

	s.WriteString("Enter two node ids:\n\n")
	s.WriteString(m.pathInput.View())

	if m.warming {
		s.WriteString("\n\n" + m.spinner.View() + " Finding shortest paths...")
	}
	if len(m.paths) > 0 {
		s.WriteString("\n\n")
		s.WriteString(statsBoxStyle.Render(strings.Join(m.paths, "\n")))
	}

	return contentStyle.Render(s.String())
}
