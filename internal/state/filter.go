package state

import (
	"fmt"
	"strings"

	"github.com/five82/shelf/internal/books"
)

// Filter selects which books are shown by read status.
type Filter int

const (
	FilterNone Filter = iota
	FilterRead
	FilterUnread
)

// Label returns the display label for the filter.
func (f Filter) Label() string {
	switch f {
	case FilterRead:
		return "Read"
	case FilterUnread:
		return "Unread"
	default:
		return "All"
	}
}

// String returns the persisted name of the filter.
func (f Filter) String() string {
	switch f {
	case FilterRead:
		return "read"
	case FilterUnread:
		return "unread"
	default:
		return "all"
	}
}

// Next returns the filter that follows f in the All → Read → Unread cycle.
func (f Filter) Next() Filter {
	switch f {
	case FilterNone:
		return FilterRead
	case FilterRead:
		return FilterUnread
	default:
		return FilterNone
	}
}

// Matches reports whether b passes the filter.
func (f Filter) Matches(b books.Book) bool {
	switch f {
	case FilterRead:
		return b.Read
	case FilterUnread:
		return !b.Read
	default:
		return true
	}
}

// ParseFilter maps a persisted filter name back to a Filter. Empty means
// FilterNone.
func ParseFilter(value string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all", "none":
		return FilterNone, nil
	case "read":
		return FilterRead, nil
	case "unread":
		return FilterUnread, nil
	default:
		return FilterNone, fmt.Errorf("unknown filter %q", value)
	}
}

// FilterBooks returns the books matching f in their original order. The input
// is never modified.
func FilterBooks(list []books.Book, f Filter) []books.Book {
	out := make([]books.Book, 0, len(list))
	for _, b := range list {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}
