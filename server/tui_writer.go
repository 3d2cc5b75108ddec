package server

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/spacehunter/Star-Raiders-sub000/config"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// tickLineMsg carries a formatted tick line for the main viewport.
type tickLineMsg struct{ line string }

// eventLineMsg carries a formatted event line for the event viewport.
type eventLineMsg struct{ line string }

// statusMsg carries the latest tick sample for the status bar.
type statusMsg struct{ telemetry.Row }

// TUIWriter renders engine telemetry using a bubbletea TUI. Tick rows
// are down-sampled like the stdout writer; events always show.
type TUIWriter struct {
	program     teaProgram
	done        chan struct{}
	sendSignal  atomic.Bool
	sampleEvery float64
	nextSample  float64
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
// When the program exits on its own (the user pressed q), the process
// receives an interrupt so the engine shuts down with it.
func NewTUIWriter(cfg *config.Config) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{}), sampleEvery: 1.0}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteTick implements TickWriter.
func (w *TUIWriter) WriteTick(row telemetry.Row) error {
	w.program.Send(statusMsg{row})
	if row.SimTime < w.nextSample {
		return nil
	}
	w.nextSample = row.SimTime + w.sampleEvery

	aColor := alertColor(row.Alert)
	line := fmt.Sprintf("%s[%s]%s %st=%.1f%s %ssector=%d,%d%s %sfighters=%d%s %scruisers=%d%s %sbasestars=%d%s %sshots=%d%s %salert=%s%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, row.SimTime, colorReset,
		colorCyan, row.SectorX, row.SectorY, colorReset,
		colorGreen, row.Fighters, colorReset,
		colorYellow, row.Cruisers, colorReset,
		colorMagenta, row.Basestars, colorReset,
		colorGray, row.Shots, colorReset,
		aColor, row.Alert, colorReset,
	)
	if row.Siege {
		line += fmt.Sprintf(" %ssiege%s", colorMagenta, colorReset)
	}
	w.program.Send(tickLineMsg{line: line})
	return nil
}

// WriteEvents implements EventWriter.
func (w *TUIWriter) WriteEvents(events []telemetry.EventRow) error {
	for _, ev := range events {
		eColor := eventColor(ev.EventType)
		line := fmt.Sprintf("%s[%s]%s %s%s%s %ssector=%d,%d%s",
			colorGray, ev.Timestamp.Format(time.RFC3339), colorReset,
			eColor, ev.EventType, colorReset,
			colorCyan, ev.SectorX, ev.SectorY, colorReset)
		if ev.Kind != "" {
			line += fmt.Sprintf(" %skind=%s%s", colorYellow, ev.Kind, colorReset)
		}
		if ev.Detail != "" {
			line += fmt.Sprintf(" %s%s%s", colorGray, ev.Detail, colorReset)
		}
		w.program.Send(eventLineMsg{line: line})
	}
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg          *config.Config
	table        table.Model
	vp           viewport.Model
	eventVP      viewport.Model
	logs         []string
	eventLogs    []string
	status       telemetry.Row
	haveStatus   bool
	wrap         bool
	autoscroll   bool
	header       string
	headerHeight int
	height       int
}

func newTUIModel(cfg *config.Config) tuiModel {
	cols := []table.Column{
		{Title: "Config", Width: 22},
		{Title: "Value", Width: 12},
		{Title: "Config", Width: 22},
		{Title: "Value", Width: 12},
	}
	rows := []table.Row{
		{"Difficulty", cfg.Difficulty, "Tick Rate", fmt.Sprintf("%d", cfg.TickRate)},
		{"Galaxy", fmt.Sprintf("%dx%d", cfg.Galaxy.Cols, cfg.Galaxy.Rows), "Max Live Hostiles", fmt.Sprintf("%d", cfg.Spawn.MaxLive)},
		{"Siege Interval (s)", fmt.Sprintf("%.0f", cfg.Siege.IntervalSec), "Siege Destruction (s)", fmt.Sprintf("%.0f", cfg.Siege.DestructionSec)},
		{"Flight Script", cfg.Flight.Script, "Speed Factor", fmt.Sprintf("%.2f", cfg.Flight.SpeedFactor)},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		eventVP:    viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.eventVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshEvents()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "a":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.eventVP.GotoBottom()
			}
		case "up", "k":
			m.vp.LineUp(1)
		case "down", "j":
			m.vp.LineDown(1)
		case "pgup":
			m.vp.ViewUp()
		case "pgdown":
			m.vp.ViewDown()
		}
	case tickLineMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > 1000 {
			m.logs = m.logs[len(m.logs)-1000:]
		}
		m.refreshViewport()
	case eventLineMsg:
		m.eventLogs = append(m.eventLogs, msg.line)
		if len(m.eventLogs) > 1000 {
			m.eventLogs = m.eventLogs[len(m.eventLogs)-1000:]
		}
		m.updateViewportHeight()
		m.refreshEvents()
		m.refreshViewport()
	case statusMsg:
		m.status = msg.Row
		m.haveStatus = true
	}
	return m, nil
}

func (m tuiModel) View() string {
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		"Events:",
		m.eventVP.View(),
		divider,
		m.renderBottom(),
	}
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("Hostile Engine Telemetry")
	return title + "\n" + m.table.View()
}

func (m tuiModel) renderBottom() string {
	keys := "q quit · w wrap · a autoscroll · ↑/↓ scroll"
	if !m.haveStatus {
		return keys
	}
	s := m.status
	status := fmt.Sprintf("t=%.1f sector=%d,%d alert=%s live=%d shots=%d",
		s.SimTime, s.SectorX, s.SectorY, s.Alert,
		s.Fighters+s.Cruisers+s.Basestars, s.Shots)
	if s.Siege {
		status += " siege"
	}
	return status + "\n" + keys
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())

	eventLines := len(m.eventLogs)
	if eventLines == 0 {
		eventLines = 1
	}
	if maxLines := m.height / 4; maxLines > 0 && eventLines > maxLines {
		eventLines = maxLines
	}
	m.eventVP.Height = eventLines

	h := m.height - m.headerHeight - bottomHeight - m.eventVP.Height - 5
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
		m.eventVP.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshEvents() {
	m.eventVP.SetContent(strings.Join(m.eventLogs, "\n"))
	if m.autoscroll {
		m.eventVP.GotoBottom()
	}
}
