package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/books"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("shelf", styles.Logo)}

	switch {
	case m.loading && !m.snapshot.Loaded:
		parts = append(parts, bg.Render("Loading books...", styles.WarningText.Bold(true)))
	case m.snapshot.LastError != nil:
		parts = append(parts, bg.Render(describeLoadError(m.snapshot.LastError), styles.DangerText))
	case m.loading:
		parts = append(parts, bg.Render("Reloading...", styles.WarningText))
	}

	if m.snapshot.Loaded {
		read, unread := countRead(m.snapshot.Books)
		parts = append(parts,
			bg.Render("Books:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", len(m.snapshot.Books)), styles.Text),
			bg.Render("Read:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", read), styles.SuccessText)+
				sep+bg.Render("•", styles.FaintText)+sep+
				bg.Render("Unread:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", unread), styles.InfoText),
		)
	}

	if n := m.pendingCount(); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("Saving %d", n), styles.WarningText))
	}

	if ts := formatTimestamp(m.snapshot.LastLoaded, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.width >= LayoutWideWidth && m.apiURL != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.apiURL, 40), styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// describeLoadError turns a load failure into a short header label.
func describeLoadError(err error) string {
	var f *books.Failure
	if errors.As(err, &f) {
		switch f.Kind {
		case books.KindRejected:
			return fmt.Sprintf("Load failed: HTTP %d", f.Status)
		case books.KindTransport:
			return "Load failed: service unreachable"
		case books.KindDecode:
			return "Load failed: unreadable response"
		}
	}
	return "Load failed"
}

func countRead(list []books.Book) (read, unread int) {
	for _, b := range list {
		if b.Read {
			read++
		} else {
			unread++
		}
	}
	return read, unread
}

// formatTimestamp renders when the collection was last loaded, relative to
// now for recent loads.
func formatTimestamp(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	age := now.Sub(ts)
	switch {
	case age < 5*time.Second:
		return "updated just now"
	case age < time.Minute:
		return fmt.Sprintf("updated %ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("updated %dm ago", int(age.Minutes()))
	default:
		return "updated " + ts.Format("15:04")
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.detailOpen():
		commands = []cmd{
			{"ctrl+s", "Save"},
			{"esc", "Close"},
		}
	case m.currentView == ViewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"L", "Books"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"f", m.snapshot.Filter.Label()},
			{"space", "Read"},
			{"enter", "Details"},
			{"a", "Add"},
			{"r", "Reload"},
			{"L", "Log"},
			{"?", "More"},
		}
		if m.width < LayoutCompactWidth {
			commands = commands[:4]
		}
	}

	colon := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Render(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
