package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/books"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldGenre
	fieldCover
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title:       ",
	"Description: ",
	"Genre:       ",
	"Cover URL:   ",
}

// addBookForm collects a new book. Submitting a valid form closes it and
// emits submitBookMsg; an invalid one stays open with a message.
type addBookForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

type submitBookMsg struct {
	in books.NewBook
}

func newAddBookForm() addBookForm {
	var f addBookForm

	placeholders := [fieldCount]string{
		"The Left Hand of Darkness",
		"A short summary",
		genreList(),
		"https://example.com/cover.jpg",
	}
	limits := [fieldCount]int{200, 500, 20, 500}

	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = formModalWidth - len(fieldLabels[i]) - 8
		f.inputs[i] = ti
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f addBookForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Escape):
			return f, nil, true

		case key.Matches(k, keys.Confirm):
			in, problem := f.newBook()
			if problem != "" {
				f.err = problem
				return f, nil, false
			}
			return f, submitBook(in), true

		case key.Matches(k, keys.NextField):
			f.moveFocus(1)
			return f, textinput.Blink, false

		case key.Matches(k, keys.PrevField):
			f.moveFocus(-1)
			return f, textinput.Blink, false
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *addBookForm) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

// newBook builds the request from the inputs, or returns a message
// describing what is missing.
func (f addBookForm) newBook() (books.NewBook, string) {
	genre, err := books.ParseGenre(f.inputs[fieldGenre].Value())
	if err != nil {
		return books.NewBook{}, "Genre must be one of: " + genreList()
	}
	in := books.NewBook{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Genre:       genre,
		CoverImage:  strings.TrimSpace(f.inputs[fieldCover].Value()),
	}
	if err := in.Validate(); err != nil {
		return books.NewBook{}, "Every field is required."
	}
	return in, ""
}

func (f addBookForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Add a Book"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	for i, input := range f.inputs {
		label := fieldLabels[i]
		if i == f.focus {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.FaintText.Render("Enter: Add  •  Tab: Next field  •  Esc: Cancel"))

	return placeModal(theme, width, height, formModalWidth, b.String())
}

func submitBook(in books.NewBook) tea.Cmd {
	return func() tea.Msg {
		return submitBookMsg{in: in}
	}
}

func genreList() string {
	names := make([]string, 0, len(books.Genres()))
	for _, g := range books.Genres() {
		names = append(names, string(g))
	}
	return strings.Join(names, ", ")
}
