package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-centrality/pkg/algorithms"
	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/report"
	"github.com/dd0wney/cluso-centrality/pkg/session"
)

type view int

// One tab per measure, in menu order, then the path browser.
const (
	degreeView view = iota
	betweennessView
	closenessView
	clusteringView
	pathsView
	viewCount
)

var tabNames = []string{"Degree", "Betweenness", "Closeness", "Clustering", "Paths"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Jump     key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Jump: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "jump to view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "find paths"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Jump, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Jump},
		{k.Up, k.Down, k.Enter},
		{k.Quit},
	}
}

// Messages produced by background commands
type (
	warmedMsg struct {
		err     error
		elapsed time.Duration
	}
	scoresMsg struct {
		measure algorithms.Measure
		ranked  []report.Entry
		err     error
	}
	pathsMsg struct {
		lines []string
		err   error
	}
)

type model struct {
	ctx         context.Context
	session     *session.Session
	currentView view
	scoreTable  table.Model
	pathInput   textinput.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int

	warming  bool
	warmTook time.Duration
	ranked   map[algorithms.Measure][]report.Entry
	pending  map[algorithms.Measure]bool
	paths    []string
	message  string
	errored  bool
}

func initialModel(ctx context.Context, s *session.Session) model {
	ti := textinput.New()
	ti.Placeholder = "1 4"
	ti.CharLimit = 120
	ti.Width = 40

	columns := []table.Column{
		{Title: "Index", Width: 8},
		{Title: "Node", Width: 24},
		{Title: "Value", Width: 22},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(st)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF"))

	return model{
		ctx:        ctx,
		session:    s,
		scoreTable: t,
		pathInput:  ti,
		spinner:    sp,
		help:       help.New(),
		keys:       keys,
		warming:    true,
		ranked:     make(map[algorithms.Measure][]report.Entry),
		pending:    make(map[algorithms.Measure]bool),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.warmCmd(), m.computeCmd(algorithms.MeasureDegree))
}

func (m model) warmCmd() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		start := time.Now()
		err := s.Warm(ctx)
		return warmedMsg{err: err, elapsed: time.Since(start)}
	}
}

func (m model) computeCmd(measure algorithms.Measure) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		scores, err := s.Engine.Compute(ctx, measure)
		if err != nil {
			return scoresMsg{measure: measure, err: err}
		}
		return scoresMsg{measure: measure, ranked: report.Rank(scores, s.Graph)}
	}
}

func (m model) pathsCmd(a, b graph.NodeID) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		set, err := s.Engine.ShortestPaths(ctx, a, b)
		if err != nil {
			return pathsMsg{err: err}
		}
		if !set.Connected() {
			return pathsMsg{lines: []string{fmt.Sprintf("%s and %s are not connected", a, b)}}
		}
		lines := []string{fmt.Sprintf("%d shortest path(s) of length %d", len(set.Paths), set.Distance)}
		for _, p := range set.Paths {
			labels := make([]string, len(p))
			for i, id := range p {
				labels[i] = s.Graph.Label(id)
			}
			lines = append(lines, strings.Join(labels, " → "))
		}
		return pathsMsg{lines: lines}
	}
}

// measureOf returns the measure shown by v.
func measureOf(v view) (algorithms.Measure, bool) {
	if v < pathsView {
		return algorithms.Measures[v], true
	}
	return "", false
}

// switchTo changes view and requests the view's scores the first time.
func (m *model) switchTo(v view) tea.Cmd {
	m.currentView = v
	if v == pathsView {
		m.pathInput.Focus()
		return textinput.Blink
	}
	m.pathInput.Blur()

	measure, _ := measureOf(v)
	if entries, ok := m.ranked[measure]; ok {
		m.fillTable(entries)
		return nil
	}
	m.scoreTable.SetRows(nil)
	if m.pending[measure] {
		return nil
	}
	m.pending[measure] = true
	return m.computeCmd(measure)
}

func (m *model) fillTable(entries []report.Entry) {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{fmt.Sprintf("%d", e.Index), e.Label, report.FormatScore(e.Score)}
	}
	m.scoreTable.SetRows(rows)
	m.scoreTable.GotoTop()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case warmedMsg:
		m.warming = false
		m.warmTook = msg.elapsed
		if msg.err != nil {
			m.message = fmt.Sprintf("Finding shortest paths failed: %v", msg.err)
			m.errored = true
		} else {
			m.message = fmt.Sprintf("Shortest paths found for %d pairs", m.session.Engine.Cache().Len())
			m.errored = false
		}
		return m, nil

	case scoresMsg:
		delete(m.pending, msg.measure)
		if msg.err != nil {
			m.message = fmt.Sprintf("%s failed: %v", msg.measure.Title(), msg.err)
			m.errored = true
			return m, nil
		}
		m.ranked[msg.measure] = msg.ranked
		if current, ok := measureOf(m.currentView); ok && current == msg.measure {
			m.fillTable(msg.ranked)
		}
		return m, nil

	case pathsMsg:
		if msg.err != nil {
			m.paths = nil
			m.message = msg.err.Error()
			m.errored = true
		} else {
			m.paths = msg.lines
			m.message = ""
			m.errored = false
		}
		return m, nil

	case tea.KeyMsg:
		typing := m.currentView == pathsView && m.pathInput.Focused()
		switch {
		case key.Matches(msg, m.keys.Quit) && (!typing || msg.String() == "ctrl+c"):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			return m, m.switchTo((m.currentView + 1) % viewCount)

		case key.Matches(msg, m.keys.ShiftTab):
			return m, m.switchTo((m.currentView + viewCount - 1) % viewCount)

		case key.Matches(msg, m.keys.Jump) && !typing:
			return m, m.switchTo(view(msg.String()[0] - '1'))

		case key.Matches(msg, m.keys.Enter) && typing:
			fields := strings.Fields(m.pathInput.Value())
			if len(fields) != 2 {
				m.message = "Enter two node ids separated by a space"
				m.errored = true
				return m, nil
			}
			return m, m.pathsCmd(graph.NodeID(fields[0]), graph.NodeID(fields[1]))
		}
	}

	// Update focused component
	if m.currentView == pathsView {
		m.pathInput, cmd = m.pathInput.Update(msg)
	} else {
		m.scoreTable, cmd = m.scoreTable.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}
