package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/shelf/internal/books"
)

// ErrUnknownBook is returned when an operation names a book that is not in
// the collection.
var ErrUnknownBook = errors.New("book not in collection")

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Books      []books.Book
	Filter     Filter
	Selected   *books.Book // nil when nothing is selected
	DetailOpen bool
	Loaded     bool
	LastLoaded time.Time
	LastError  error
}

// Visible returns the books that pass the snapshot's active filter.
func (s Snapshot) Visible() []books.Book {
	return FilterBooks(s.Books, s.Filter)
}

// Store owns the in-memory book collection, the active filter and the
// detail selection. Every change to a book is applied only after the service
// confirms it.
type Store struct {
	svc    books.Service
	writes writeQueue

	mu         sync.RWMutex
	books      []books.Book
	filter     Filter
	selectedID int64 // 0 means no selection; the detail view is open iff non-zero
	loaded     bool
	lastLoaded time.Time
	lastErr    error
}

// NewStore returns an empty store backed by svc.
func NewStore(svc books.Service) *Store {
	return &Store{svc: svc}
}

// Load replaces the collection with the service's full list. On failure the
// previous collection is kept and the error is recorded and returned.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.svc.ListBooks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		return fmt.Errorf("load books: %w", err)
	}
	s.books = cloneBooks(list)
	s.loaded = true
	s.lastLoaded = time.Now()
	s.lastErr = nil
	if s.selectedID != 0 && s.indexLocked(s.selectedID) < 0 {
		s.selectedID = 0
	}
	slog.Info("collection loaded", slog.Int("count", len(s.books)))
	return nil
}

// ToggleRead flips the read flag of the book with id. Unknown ids are a
// no-op that issues no request.
func (s *Store) ToggleRead(ctx context.Context, id int64) error {
	release := s.writes.acquire(id)
	defer release()

	s.mu.RLock()
	idx := s.indexLocked(id)
	var target bool
	if idx >= 0 {
		target = !s.books[idx].Read
	}
	s.mu.RUnlock()
	if idx < 0 {
		return ErrUnknownBook
	}

	if err := s.svc.UpdateReadStatus(ctx, id, target); err != nil {
		return err
	}
	s.apply(id, func(b *books.Book) { b.Read = target })
	return nil
}

// SaveReview stores review for the book with id and, once the service
// confirms, updates the in-memory record.
func (s *Store) SaveReview(ctx context.Context, id int64, review string) error {
	release := s.writes.acquire(id)
	defer release()

	if err := s.svc.UpdateReview(ctx, id, review); err != nil {
		return err
	}
	s.apply(id, func(b *books.Book) { b.Review = review })
	return nil
}

// AddBook creates a book and adds the service's record to the collection.
// A record whose id is already present replaces it in place.
func (s *Store) AddBook(ctx context.Context, in books.NewBook) (books.Book, error) {
	created, err := s.svc.CreateBook(ctx, in)
	if err != nil {
		return books.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(created.ID); idx >= 0 {
		s.books[idx] = created
	} else {
		s.books = append(s.books, created)
	}
	return created, nil
}

// RefreshBook re-fetches a single book and replaces it in place. It does
// nothing to the collection when the id is no longer present.
func (s *Store) RefreshBook(ctx context.Context, id int64) error {
	release := s.writes.acquire(id)
	defer release()

	fresh, err := s.svc.GetBook(ctx, id)
	if err != nil {
		return err
	}
	s.apply(id, func(b *books.Book) { *b = fresh })
	return nil
}

// Select targets the book with id for the detail view. It returns false and
// leaves the selection unchanged when id is not in the collection.
func (s *Store) Select(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

// CloseDetail clears the selection, which also closes the detail view.
func (s *Store) CloseDetail() {
	s.mu.Lock()
	s.selectedID = 0
	s.mu.Unlock()
}

// SetFilter changes the active filter.
func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// CycleFilter advances the active filter and returns the new value.
func (s *Store) CycleFilter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = s.filter.Next()
	return s.filter
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Filtered projects the current collection through f without changing any
// store state.
func (s *Store) Filtered(f Filter) []books.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterBooks(s.books, f)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Books:      cloneBooks(s.books),
		Filter:     s.filter,
		Loaded:     s.loaded,
		LastLoaded: s.lastLoaded,
		LastError:  s.lastErr,
	}
	if idx := s.indexLocked(s.selectedID); idx >= 0 {
		selected := s.books[idx]
		snap.Selected = &selected
		snap.DetailOpen = true
	}
	return snap
}

// apply mutates the book with id in place, keeping its position.
func (s *Store) apply(id int64, mutate func(*books.Book)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		mutate(&s.books[idx])
	}
}

func (s *Store) indexLocked(id int64) int {
	if id == 0 {
		return -1
	}
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneBooks(list []books.Book) []books.Book {
	if len(list) == 0 {
		return nil
	}
	dup := make([]books.Book, len(list))
	copy(dup, list)
	return dup
}
