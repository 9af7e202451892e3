package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/books"
)

// User-facing messages. They never include the underlying cause; that goes
// to the log.
const (
	msgReviewSaved    = "Review saved."
	msgReviewRejected = "Failed to save the review."
	msgReviewFailed   = "Something went wrong while saving the review."

	msgBookAdded    = "Book added."
	msgBookRejected = "Failed to add the book."
	msgBookFailed   = "Something went wrong while adding the book."

	msgLoadRejected = "The book service refused to list your books."
	msgLoadFailed   = "Could not reach the book service."
)

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeError
)

// noticeModal is a blocking message dismissed with enter or esc.
type noticeModal struct {
	title   string
	message string
	level   noticeLevel
}

func (n noticeModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(k, keys.Confirm, keys.Escape) {
			return n, nil, true
		}
	}
	return n, nil, false
}

func (n noticeModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	titleStyle := styles.SuccessText
	if n.level == noticeError {
		titleStyle = styles.DangerText
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(n.title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(n.message))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Enter: OK"))

	return placeModal(theme, width, height, noticeModalWidth, b.String())
}

// reviewNotice maps the outcome of a review save to what the user sees.
func reviewNotice(err error) noticeModal {
	if err == nil {
		return noticeModal{title: "Review", message: msgReviewSaved, level: noticeInfo}
	}
	if books.KindOf(err) == books.KindRejected {
		return noticeModal{title: "Review", message: msgReviewRejected, level: noticeError}
	}
	return noticeModal{title: "Review", message: msgReviewFailed, level: noticeError}
}

// addBookNotice maps the outcome of a create to what the user sees.
func addBookNotice(err error) noticeModal {
	if err == nil {
		return noticeModal{title: "New book", message: msgBookAdded, level: noticeInfo}
	}
	if books.KindOf(err) == books.KindRejected {
		return noticeModal{title: "New book", message: msgBookRejected, level: noticeError}
	}
	return noticeModal{title: "New book", message: msgBookFailed, level: noticeError}
}

// loadNotice describes a failed collection load.
func loadNotice(err error) noticeModal {
	if books.KindOf(err) == books.KindRejected {
		return noticeModal{title: "Books", message: msgLoadRejected, level: noticeError}
	}
	return noticeModal{title: "Books", message: msgLoadFailed, level: noticeError}
}
