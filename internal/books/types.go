package books

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Genre is one of the fixed book categories the service accepts.
type Genre string

const (
	GenreFiction    Genre = "Fiction"
	GenreNonFiction Genre = "NonFiction"
	GenreMystery    Genre = "Mystery"
	GenreBiography  Genre = "Biography"
	GenreRomance    Genre = "Romance"
	GenreNovel      Genre = "Novel"
	GenreScientific Genre = "Scientific"
)

var genres = []Genre{
	GenreFiction,
	GenreNonFiction,
	GenreMystery,
	GenreBiography,
	GenreRomance,
	GenreNovel,
	GenreScientific,
}

// Genres returns the closed set of genres in display order.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// ParseGenre matches value against the known genres, ignoring case and
// surrounding whitespace.
func ParseGenre(value string) (Genre, error) {
	trimmed := strings.TrimSpace(value)
	for _, g := range genres {
		if strings.EqualFold(string(g), trimmed) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown genre %q", value)
}

// Book is a single record from the book service.
type Book struct {
	ID          int64  `json:"id" validate:"gt=0"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Genre       Genre  `json:"genre" validate:"required,oneof=Fiction NonFiction Mystery Biography Romance Novel Scientific"`
	CoverImage  string `json:"coverImage"`
	Read        bool   `json:"read"`
	Review      string `json:"review"`
}

// NewBook holds the fields required to create a book.
type NewBook struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Genre       Genre  `json:"genre" validate:"required,oneof=Fiction NonFiction Mystery Biography Romance Novel Scientific"`
	CoverImage  string `json:"coverImage" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports whether b is usable as an in-memory record.
func (b Book) Validate() error {
	return validate.Struct(b)
}

// Validate reports whether the creation input is complete.
func (n NewBook) Validate() error {
	return validate.Struct(n)
}

type reviewPatch struct {
	Review string `json:"review"`
}

type readPatch struct {
	Read bool `json:"read"`
}
