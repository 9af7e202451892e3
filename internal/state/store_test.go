package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/books"
)

type call struct {
	op     string
	id     int64
	read   bool
	review string
}

// fakeService is an in-memory books.Service. Hooks, when set, replace the
// default behavior for a single operation.
type fakeService struct {
	mu    sync.Mutex
	calls []call

	list     []books.Book
	listErr  error
	get      map[int64]books.Book
	writeErr error
	created  books.Book

	onReadStatus func(id int64, read bool) error
}

func (f *fakeService) record(c call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeService) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeService) ListBooks(ctx context.Context) ([]books.Book, error) {
	f.record(call{op: "list"})
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeService) GetBook(ctx context.Context, id int64) (books.Book, error) {
	f.record(call{op: "get", id: id})
	if b, ok := f.get[id]; ok {
		return b, nil
	}
	return books.Book{}, &books.Failure{Op: "get book", ID: id, Kind: books.KindRejected, Status: 404}
}

func (f *fakeService) UpdateReview(ctx context.Context, id int64, review string) error {
	f.record(call{op: "review", id: id, review: review})
	return f.writeErr
}

func (f *fakeService) UpdateReadStatus(ctx context.Context, id int64, read bool) error {
	f.record(call{op: "read", id: id, read: read})
	if f.onReadStatus != nil {
		return f.onReadStatus(id, read)
	}
	return f.writeErr
}

func (f *fakeService) CreateBook(ctx context.Context, in books.NewBook) (books.Book, error) {
	f.record(call{op: "create"})
	if f.writeErr != nil {
		return books.Book{}, f.writeErr
	}
	return f.created, nil
}

func sampleBooks() []books.Book {
	return []books.Book{
		{ID: 1, Title: "Dune", Genre: books.GenreFiction, Read: false},
		{ID: 2, Title: "Cosmos", Genre: books.GenreScientific, Read: true},
		{ID: 3, Title: "Emma", Genre: books.GenreRomance, Read: false, Review: "witty"},
	}
}

func loadedStore(t *testing.T, svc *fakeService) *Store {
	t.Helper()
	s := NewStore(svc)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func ids(list []books.Book) []int64 {
	out := make([]int64, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}

func TestStore_LoadReplacesCollection(t *testing.T) {
	svc := &fakeService{list: sampleBooks()}
	s := loadedStore(t, svc)

	snap := s.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Nil(t, snap.LastError)
	assert.Equal(t, []int64{1, 2, 3}, ids(snap.Books))

	svc.list = nil
	require.NoError(t, s.Load(context.Background()))
	snap = s.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Empty(t, snap.Books)
}

func TestStore_LoadFailureIsDistinguishableAndKeepsBooks(t *testing.T) {
	svc := &fakeService{list: sampleBooks()}
	s := loadedStore(t, svc)

	svc.listErr = &books.Failure{Op: "list books", Kind: books.KindTransport, Err: errors.New("refused")}
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, books.KindTransport, books.KindOf(err))

	snap := s.Snapshot()
	assert.Equal(t, []int64{1, 2, 3}, ids(snap.Books))
	require.Error(t, snap.LastError)
	assert.Equal(t, books.KindTransport, books.KindOf(snap.LastError))

	fresh := NewStore(&fakeService{listErr: errors.New("down")})
	require.Error(t, fresh.Load(context.Background()))
	assert.False(t, fresh.Snapshot().Loaded)
}

func TestStore_ToggleReadUpdatesInPlace(t *testing.T) {
	svc := &fakeService{list: []books.Book{
		{ID: 1, Title: "A", Genre: books.GenreNovel, Read: false},
		{ID: 2, Title: "B", Genre: books.GenreNovel, Read: true},
	}}
	s := loadedStore(t, svc)
	before := s.Snapshot().Books

	require.NoError(t, s.ToggleRead(context.Background(), 1))

	after := s.Snapshot().Books
	require.Len(t, after, len(before))
	assert.Equal(t, ids(before), ids(after))
	assert.True(t, after[0].Read)
	assert.True(t, after[1].Read)

	expected := before[0]
	expected.Read = true
	assert.Equal(t, expected, after[0])
	assert.Equal(t, before[1], after[1])

	assert.Equal(t, []int64{1, 2}, ids(s.Filtered(FilterRead)))

	calls := svc.recorded()
	assert.Equal(t, call{op: "read", id: 1, read: true}, calls[len(calls)-1])
}

func TestStore_ToggleReadUnknownIDIsNoop(t *testing.T) {
	svc := &fakeService{list: sampleBooks()}
	s := loadedStore(t, svc)
	before := s.Snapshot().Books
	callsBefore := len(svc.recorded())

	err := s.ToggleRead(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnknownBook)
	assert.Equal(t, before, s.Snapshot().Books)
	assert.Len(t, svc.recorded(), callsBefore)
}

func TestStore_ToggleReadFailureLeavesState(t *testing.T) {
	svc := &fakeService{list: sampleBooks()}
	s := loadedStore(t, svc)
	before := s.Snapshot().Books

	svc.writeErr = &books.Failure{Op: "update read status", ID: 1, Kind: books.KindRejected, Status: 500}
	err := s.ToggleRead(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, books.KindRejected, books.KindOf(err))
	assert.Equal(t, before, s.Snapshot().Books)
}

func TestStore_SaveReview(t *testing.T) {
	svc := &fakeService{list: sampleBooks()}
	s := loadedStore(t, svc)

	require.NoError(t, s.SaveReview(context.Background(), 3, "sharp and funny"))
	snap := s.Snapshot()
	assert.Equal(t, "sharp and funny", snap.Books[2].Review)
	assert.Equal(t, []int64{1, 2, 3}, ids(snap.Books))

	svc.writeErr = &books.Failure{Op: "update review", ID: 3, Kind: books.KindTransport}
	err := s.SaveReview(context.Background(), 3, "x")
	require.Error(t, err)
	assert.Equal(t, "sharp and funny", s.Snapshot().Books[2].Review)
}

func TestStore_AddBookAdoptsServiceIDWithoutDuplicates(t *testing.T) {
	svc := &fakeService{
		list:    sampleBooks(),
		created: books.Book{ID: 99, Title: "T", Description: "D", Genre: books.GenreFiction, CoverImage: "url"},
	}
	s := loadedStore(t, svc)

	in := books.NewBook{Title: "T", Description: "D", Genre: books.GenreFiction, CoverImage: "url"}
	created, err := s.AddBook(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)

	all := s.Filtered(FilterNone)
	assert.Equal(t, []int64{1, 2, 3, 99}, ids(all))
	assert.False(t, all[3].Read)

	_, err = s.AddBook(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 99}, ids(s.Filtered(FilterNone)))

	svc.writeErr = errors.New("boom")
	_, err = s.AddBook(context.Background(), in)
	require.Error(t, err)
	assert.Len(t, s.Filtered(FilterNone), 4)
}

func TestStore_RefreshBook(t *testing.T) {
	svc := &fakeService{
		list: sampleBooks(),
		get: map[int64]books.Book{
			2: {ID: 2, Title: "Cosmos", Genre: books.GenreScientific, Read: true, Review: "vast"},
		},
	}
	s := loadedStore(t, svc)

	require.NoError(t, s.RefreshBook(context.Background(), 2))
	assert.Equal(t, "vast", s.Snapshot().Books[1].Review)

	before := s.Snapshot().Books
	require.Error(t, s.RefreshBook(context.Background(), 3))
	assert.Equal(t, before, s.Snapshot().Books)
}

func TestStore_SelectionAndDetailAreCoupled(t *testing.T) {
	svc := &fakeService{list: sampleBooks()}
	s := loadedStore(t, svc)

	snap := s.Snapshot()
	assert.Nil(t, snap.Selected)
	assert.False(t, snap.DetailOpen)

	require.True(t, s.Select(2))
	snap = s.Snapshot()
	require.NotNil(t, snap.Selected)
	assert.Equal(t, int64(2), snap.Selected.ID)
	assert.True(t, snap.DetailOpen)

	assert.False(t, s.Select(42))
	snap = s.Snapshot()
	require.NotNil(t, snap.Selected)
	assert.Equal(t, int64(2), snap.Selected.ID)

	s.CloseDetail()
	snap = s.Snapshot()
	assert.Nil(t, snap.Selected)
	assert.False(t, snap.DetailOpen)
}

func TestStore_SelectedReflectsConfirmedWrites(t *testing.T) {
	svc := &fakeService{list: sampleBooks()}
	s := loadedStore(t, svc)

	require.True(t, s.Select(3))
	require.NoError(t, s.SaveReview(context.Background(), 3, "new take"))
	assert.Equal(t, "new take", s.Snapshot().Selected.Review)
}

func TestStore_LoadDropsStaleSelection(t *testing.T) {
	svc := &fakeService{list: sampleBooks()}
	s := loadedStore(t, svc)
	require.True(t, s.Select(3))

	svc.list = sampleBooks()[:2]
	require.NoError(t, s.Load(context.Background()))
	snap := s.Snapshot()
	assert.Nil(t, snap.Selected)
	assert.False(t, snap.DetailOpen)
}

func TestStore_FilterStateIsIndependentOfProjection(t *testing.T) {
	s := loadedStore(t, &fakeService{list: sampleBooks()})

	assert.Equal(t, FilterNone, s.Filter())
	assert.Equal(t, []int64{2}, ids(s.Filtered(FilterRead)))
	assert.Equal(t, FilterNone, s.Filter())

	assert.Equal(t, FilterRead, s.CycleFilter())
	assert.Equal(t, FilterUnread, s.CycleFilter())
	assert.Equal(t, FilterNone, s.CycleFilter())

	s.SetFilter(FilterUnread)
	snap := s.Snapshot()
	assert.Equal(t, FilterUnread, snap.Filter)
	assert.Equal(t, []int64{1, 3}, ids(snap.Visible()))
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := loadedStore(t, &fakeService{list: sampleBooks()})
	require.True(t, s.Select(1))

	snap := s.Snapshot()
	snap.Books[0].Title = "mutated"
	snap.Selected.Title = "mutated"

	again := s.Snapshot()
	assert.Equal(t, "Dune", again.Books[0].Title)
	assert.Equal(t, "Dune", again.Selected.Title)
}

func TestStore_WritesToSameIDAreSerialized(t *testing.T) {
	started := make(chan int64, 4)
	unblock := make(chan struct{})
	var inFlight, maxInFlight int
	var mu sync.Mutex

	svc := &fakeService{list: sampleBooks()}
	svc.onReadStatus = func(id int64, read bool) error {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		started <- id
		<-unblock
		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	}
	s := loadedStore(t, svc)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.ToggleRead(context.Background(), 1))
		}()
	}

	<-started
	select {
	case <-started:
		require.FailNow(t, "second write to the same id started before the first finished")
	case <-time.After(50 * time.Millisecond):
	}
	close(unblock)
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
	// Two confirmed toggles flip the flag twice.
	assert.False(t, s.Snapshot().Books[0].Read)

	var reads []bool
	for _, c := range svc.recorded() {
		if c.op == "read" {
			reads = append(reads, c.read)
		}
	}
	assert.Equal(t, []bool{true, false}, reads)
}
