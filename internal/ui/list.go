package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/books"
	"github.com/five82/shelf/internal/state"
)

// visibleBooks returns the books that pass the active filter, in
// collection order.
func (m Model) visibleBooks() []books.Book {
	return m.snapshot.Visible()
}

// cursorBook returns the book under the cursor, or nil for an empty list.
func (m Model) cursorBook() *books.Book {
	items := m.visibleBooks()
	if m.cursor < 0 || m.cursor >= len(items) {
		return nil
	}
	b := items[m.cursor]
	return &b
}

// clampCursor keeps the cursor on the same book across snapshot changes
// when that book is still visible, and inside the list otherwise.
func (m *Model) clampCursor() {
	items := m.visibleBooks()
	if len(items) == 0 {
		m.cursor = 0
		m.cursorID = 0
		return
	}

	if m.cursorID != 0 {
		for i, b := range items {
			if b.ID == m.cursorID {
				m.cursor = i
				return
			}
		}
	}

	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.cursorID = items[m.cursor].ID
}

// moveCursor moves the cursor by delta rows, clamped to the list.
func (m *Model) moveCursor(delta int) {
	items := m.visibleBooks()
	if len(items) == 0 {
		return
	}
	m.cursor = max(0, min(len(items)-1, m.cursor+delta))
	m.cursorID = items[m.cursor].ID
}

func (m *Model) cursorTo(index int) {
	items := m.visibleBooks()
	if len(items) == 0 {
		return
	}
	m.cursor = max(0, min(len(items)-1, index))
	m.cursorID = items[m.cursor].ID
}

// listHeight is the number of rows inside the list box.
func (m Model) listHeight() int {
	return max(1, m.height-2-2) // header + cmdbar, top + bottom border
}

// renderList renders the book list inside a titled box.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2
	items := m.visibleBooks()

	title := m.listTitle(len(items))
	innerWidth := m.width - 2

	if len(items) == 0 {
		msg := styles.MutedText.Background(lipgloss.Color(m.theme.FocusBg)).Render(m.emptyListMessage())
		return m.renderTitledBox(title, msg, m.width, contentHeight, true)
	}

	rows := m.listHeight()
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(len(items), start+rows)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		selected := i == m.cursor
		bgColor := m.theme.FocusBg
		if selected {
			bgColor = m.theme.SelectionBg
		}
		content := m.formatBookRow(items[i], innerWidth, bgColor, selected)
		lines = append(lines, NewBgStyle(bgColor).FillLine(content, innerWidth))
	}

	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, contentHeight, true)
}

// formatBookRow formats one list row.
// Format: "[x] Title  Genre  · description"
func (m Model) formatBookRow(b books.Book, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	textStyle := styles.Text
	mutedStyle := styles.MutedText
	if selected {
		textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText)).Bold(true)
		mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
	}

	check := "[ ]"
	checkStyle := mutedStyle
	if b.Read {
		check = "[x]"
		checkStyle = styles.SuccessText
		if selected {
			checkStyle = textStyle
		}
	}
	if m.pending[b.ID] > 0 {
		check = "[…]"
		checkStyle = styles.WarningText
	}

	compact := m.width < LayoutCompactWidth
	genre := string(b.Genre)
	if compact && len(genre) > 3 {
		genre = genre[:3]
	}
	badge := styles.GenreStyle(b.Genre).Render(genre)

	// check + spaces + badge + padding
	titleWidth := width - 3 - 2 - lipgloss.Width(badge) - 3
	if m.width >= LayoutWideWidth {
		titleWidth = titleWidth / 2
	}
	titleWidth = max(8, titleWidth)
	title := padRight(truncate(singleLine(b.Title), titleWidth), titleWidth)

	parts := []string{
		bg.Space() + bg.Render(check, checkStyle),
		bg.Render(title, textStyle),
		badge,
	}
	if m.width >= LayoutWideWidth {
		if desc := singleLine(b.Description); desc != "" {
			parts = append(parts, bg.Render(truncate(desc, width-titleWidth-lipgloss.Width(badge)-12), mutedStyle))
		}
	}
	return bg.Join(parts, " ")
}

func (m Model) listTitle(visible int) string {
	total := len(m.snapshot.Books)
	if m.snapshot.Filter == state.FilterNone {
		return fmt.Sprintf("Books (%d)", total)
	}
	return fmt.Sprintf("Books · %s (%d/%d)", m.snapshot.Filter.Label(), visible, total)
}

func (m Model) emptyListMessage() string {
	switch {
	case !m.snapshot.Loaded && m.snapshot.LastError != nil:
		return "Could not load books. Press r to retry."
	case !m.snapshot.Loaded:
		return "Loading books..."
	case len(m.snapshot.Books) == 0:
		return "No books yet. Press a to add one."
	case m.snapshot.Filter == state.FilterRead:
		return "No read books."
	case m.snapshot.Filter == state.FilterUnread:
		return "Every book has been read."
	default:
		return "No books."
	}
}

// renderTitledBox renders a box with the title centered in the top border.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := width - 2
	titleLen := lipgloss.Width(title)
	leftPad := max(0, (innerWidth-titleLen-2)/2)
	rightPad := max(0, innerWidth-titleLen-2-leftPad)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", max(0, innerWidth)), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	paddedLines := make([]string, 0, max(0, boxHeight))
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
