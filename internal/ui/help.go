package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var helpSectionTitles = []string{"Navigation", "Books", "Details", "General"}

// helpModal lists the key bindings. Any key closes it.
type helpModal struct {
	keys keyMap
}

func newHelpModal(keys keyMap) helpModal {
	return helpModal{keys: keys}
}

func (h helpModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return h, nil, true
	}
	return h, nil, false
}

func (h helpModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(12)

	groups := h.keys.FullHelp()
	for i, group := range groups {
		if i < len(helpSectionTitles) {
			b.WriteString(styles.AccentText.Bold(true).Render(helpSectionTitles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			b.WriteString(keyStyle.Render(binding.Help().Key))
			b.WriteString(styles.Text.Render(binding.Help().Desc))
			b.WriteString("\n")
		}
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}

	return placeModal(theme, width, height, helpModalWidth, b.String())
}

// helpHint renders a "key: desc" pair for inline hints.
func helpHint(b key.Binding) string {
	return b.Help().Key + ": " + b.Help().Desc
}
