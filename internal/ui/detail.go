package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/books"
)

// detailState holds the review editor for the selected book. The selection
// itself lives in the store.
type detailState struct {
	id       int64
	editor   textarea.Model
	original string // last confirmed review; the editor is dirty when it differs
	saving   bool
}

func newDetailState(b books.Book) detailState {
	ta := textarea.New()
	ta.Placeholder = "What did you think?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetWidth(detailModalWidth - 6)
	ta.SetHeight(6)
	ta.SetValue(b.Review)
	ta.Focus()

	return detailState{id: b.ID, editor: ta, original: b.Review}
}

func (d detailState) dirty() bool {
	return d.editor.Value() != d.original
}

// detailOpen reports whether the detail modal is showing. It follows the
// store's selection, so a reload that drops the book also closes it.
func (m Model) detailOpen() bool {
	sel := m.snapshot.Selected
	return m.snapshot.DetailOpen && sel != nil && sel.ID == m.detail.id
}

// openDetail selects b and starts the editor. The record is re-fetched in
// the background so the view shows the service's latest copy.
func (m *Model) openDetail(b books.Book) tea.Cmd {
	if m.store == nil || !m.store.Select(b.ID) {
		return nil
	}
	m.detail = newDetailState(b)
	m.sync()
	return tea.Batch(textarea.Blink, refreshBookCmd(m.ctx, m.store, b.ID))
}

func (m *Model) closeDetail() {
	if m.store != nil {
		m.store.CloseDetail()
	}
	m.detail = detailState{}
	m.sync()
}

// handleDetailKey routes keys while the detail modal is open. Printable keys
// belong to the editor, so only ctrl+c quits here.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.closeDetail()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if m.detail.saving {
			return m, nil
		}
		m.detail.saving = true
		m.addPending(m.detail.id)
		return m, saveReviewCmd(m.ctx, m.store, m.detail.id, m.detail.editor.Value())
	}

	var cmd tea.Cmd
	m.detail.editor, cmd = m.detail.editor.Update(msg)
	return m, cmd
}

// applyRefreshedReview loads the re-fetched review into the editor unless
// the user has already started typing.
func (m *Model) applyRefreshedReview(id int64) {
	if !m.detailOpen() || m.detail.id != id || m.detail.dirty() {
		return
	}
	fresh := m.snapshot.Selected.Review
	if fresh != m.detail.original {
		m.detail.editor.SetValue(fresh)
		m.detail.original = fresh
	}
}

func (m Model) renderDetail() string {
	b := m.snapshot.Selected
	if b == nil {
		return ""
	}
	styles := m.theme.Styles()
	textWidth := detailModalWidth - 6

	var out strings.Builder
	out.WriteString(styles.Text.Bold(true).Render(b.Title))
	out.WriteString("\n")
	out.WriteString(styles.GenreStyle(b.Genre).Render(string(b.Genre)))
	out.WriteString("  ")
	if b.Read {
		out.WriteString(styles.SuccessText.Render("✓ Read"))
	} else {
		out.WriteString(styles.MutedText.Render("○ Unread"))
	}
	out.WriteString("\n")
	out.WriteString(styles.FaintText.Render(strings.Repeat("─", textWidth)))
	out.WriteString("\n\n")

	if desc := strings.TrimSpace(b.Description); desc != "" {
		out.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Text)).
			Width(textWidth).
			Render(desc))
		out.WriteString("\n\n")
	}

	if cover := strings.TrimSpace(b.CoverImage); cover != "" {
		out.WriteString(styles.MutedText.Render("Cover  "))
		out.WriteString(styles.InfoText.Render(truncateMiddle(cover, textWidth-7)))
		out.WriteString("\n\n")
	}

	out.WriteString(styles.AccentText.Bold(true).Render("Review"))
	switch {
	case m.detail.saving:
		out.WriteString(styles.WarningText.Render("  saving…"))
	case m.detail.dirty():
		out.WriteString(styles.WarningText.Render("  unsaved"))
	}
	out.WriteString("\n")
	out.WriteString(m.detail.editor.View())
	out.WriteString("\n\n")

	out.WriteString(styles.FaintText.Render(helpHint(m.keys.Save) + "  •  " + helpHint(m.keys.Escape)))

	return placeModal(m.theme, m.width, m.height, detailModalWidth, out.String())
}
