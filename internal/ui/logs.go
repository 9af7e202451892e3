package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

// logLinesMsg carries a fresh tail of the client log.
type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

func refreshLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logLinesMsg{err: err}
		}
		return logLinesMsg{entries: logtail.ParseLines(lines)}
	}
}

// initLogViewport sizes the log viewport to the content area.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(0, m.width-4), max(0, m.height-5))
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
}

// handleLogBatch replaces the log view content, keeping the reader at the
// bottom when they were already there.
func (m *Model) handleLogBatch(msg logLinesMsg) {
	if msg.err != nil {
		m.logErr = msg.err
		return
	}
	m.logErr = nil
	atBottom := m.logViewport.AtBottom() || len(m.logEntries) == 0
	m.logEntries = msg.entries
	m.logViewport.SetContent(m.renderLogContent())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewList
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.HalfPageUp()
		return m, nil
	}
	return m, nil
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	contentHeight := m.height - 3

	title := "Client Log"
	if m.logPath != "" {
		title += " · " + truncateMiddle(m.logPath, max(10, m.width/2))
	}

	box := m.renderTitledBox(title, m.logViewport.View(), m.width, contentHeight, true)

	var status string
	switch {
	case m.logErr != nil:
		status = bg.Render("Cannot read log: "+m.logErr.Error(), styles.DangerText)
	case len(m.logEntries) == 0:
		status = bg.Render("Log is empty", styles.MutedText)
	default:
		status = bg.Render(fmt.Sprintf("%d lines  %3.0f%%", len(m.logEntries), m.logViewport.ScrollPercent()*100), styles.MutedText)
	}
	return box + "\n" + bg.FillLine(status, m.width)
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, m.formatLogEntry(e, styles, bg))
	}
	return strings.Join(lines, "\n")
}

func (m Model) formatLogEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Level == "" && e.Time.IsZero() {
		return bg.Render(e.Raw, styles.Text)
	}

	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, bg.Render(e.Time.Local().Format("15:04:05"), styles.FaintText))
	}
	if e.Level != "" {
		parts = append(parts, bg.Render(padRight(e.Level, 5), levelStyle(e.Level, styles)))
	}
	if e.Message != "" {
		parts = append(parts, bg.Render(e.Message, styles.Text))
	}
	for _, a := range e.Attrs {
		parts = append(parts, bg.Render(a.Key+"=", styles.MutedText)+bg.Render(a.Value, styles.AccentText))
	}
	return bg.Join(parts, " ")
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText.Bold(true)
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.SuccessText
	}
}
