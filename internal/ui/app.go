package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/books"
	"github.com/five82/shelf/internal/logtail"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	LogPath   string
	APIURL    string
	ThemeName string
	PrefsPath string
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	keys      keyMap
	logPath   string
	apiURL    string
	prefsPath string
	tick      time.Duration

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	loading     bool
	pending     map[int64]int // in-flight writes per book id

	// List state
	cursor   int
	cursorID int64

	// Detail state
	detail detailState

	// Overlay: notice, help or the add-book form
	modal   Modal
	notices []noticeModal // results that arrived while another modal was open

	// Log state
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logErr      error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick == 0 {
		tick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		keys:        DefaultKeyMap(),
		logPath:     opts.LogPath,
		apiURL:      opts.APIURL,
		prefsPath:   prefsPath,
		tick:        tick,
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewList,
		loading:     opts.Store != nil,
		pending:     make(map[int64]int),
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, loadCmd(m.ctx, m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.logViewport.Width = max(0, m.width-4)
		m.logViewport.Height = max(0, m.height-5)
		return m, nil

	case tickMsg:
		m.sync()
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.currentView == ViewLogs {
			cmds = append(cmds, refreshLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case loadedMsg:
		m.loading = false
		m.sync()
		if msg.err != nil {
			m.showNotice(loadNotice(msg.err))
		}
		return m, nil

	case toggledMsg:
		m.donePending(msg.id)
		if msg.err != nil && errors.Is(msg.err, state.ErrUnknownBook) {
			slog.Warn("toggle read skipped", slog.Int64("id", msg.id), slog.String("err", msg.err.Error()))
		}
		m.sync()
		return m, nil

	case reviewSavedMsg:
		m.donePending(msg.id)
		m.sync()
		if m.detail.id == msg.id {
			m.detail.saving = false
			if msg.err == nil {
				m.detail.original = msg.review
			}
		}
		m.showNotice(reviewNotice(msg.err))
		return m, nil

	case submitBookMsg:
		return m, addBookCmd(m.ctx, m.store, msg.in)

	case bookAddedMsg:
		m.sync()
		if msg.err == nil {
			m.cursorID = msg.book.ID
			m.clampCursor()
		}
		m.showNotice(addBookNotice(msg.err))
		return m, nil

	case refreshedMsg:
		m.sync()
		if msg.err == nil {
			m.applyRefreshedReview(msg.id)
		}
		return m, nil

	case logLinesMsg:
		m.handleLogBatch(msg)
		return m, nil
	}

	// Cursor blinks and other component messages.
	if m.modal != nil {
		next, cmd, _ := m.modal.Update(msg, m.keys)
		m.modal = next
		return m, cmd
	}
	if m.detailOpen() {
		var cmd tea.Cmd
		m.detail.editor, cmd = m.detail.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	if m.detailOpen() {
		return m.renderDetail()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = m.nextNotice()
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.detailOpen() {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modal = newHelpModal(m.keys)
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.initLogViewport()
		m.logViewport.SetContent(m.renderLogContent())
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewList
			return m, nil
		}
		m.currentView = ViewLogs
		return m, refreshLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Reload):
		if m.store == nil || m.loading {
			return m, nil
		}
		m.loading = true
		return m, loadCmd(m.ctx, m.store)
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// handleListKey processes keyboard input for the book list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Top):
		m.cursorTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.cursorTo(len(m.visibleBooks()) - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight() / 2)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight() / 2)

	case key.Matches(msg, m.keys.ToggleRead):
		b := m.cursorBook()
		if b == nil || m.store == nil {
			return m, nil
		}
		m.addPending(b.ID)
		return m, toggleReadCmd(m.ctx, m.store, b.ID)

	case key.Matches(msg, m.keys.CycleFilter):
		m.setFilter(m.snapshot.Filter.Next())
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(state.FilterNone)
	case key.Matches(msg, m.keys.FilterRead):
		m.setFilter(state.FilterRead)
	case key.Matches(msg, m.keys.FilterUnread):
		m.setFilter(state.FilterUnread)

	case key.Matches(msg, m.keys.Open):
		b := m.cursorBook()
		if b == nil {
			return m, nil
		}
		return m, m.openDetail(*b)

	case key.Matches(msg, m.keys.AddBook):
		if m.store == nil {
			return m, nil
		}
		m.modal = newAddBookForm()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) setFilter(f state.Filter) {
	if m.store == nil {
		return
	}
	m.store.SetFilter(f)
	m.sync()
	m.savePrefs()
}

// sync re-reads the store and keeps the cursor on a valid row.
func (m *Model) sync() {
	if m.store == nil {
		return
	}
	m.snapshot = m.store.Snapshot()
	m.lastUpdated = time.Now()
	m.clampCursor()
	if m.detail.id != 0 && !m.detailOpen() {
		m.detail = detailState{}
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Filter: m.snapshot.Filter.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		slog.Warn("save prefs failed", slog.String("err", err.Error()))
	}
}

// showNotice displays n now, or after the open modal closes so that an
// async result never discards a form the user is filling in.
func (m *Model) showNotice(n noticeModal) {
	if m.modal == nil {
		m.modal = n
		return
	}
	m.notices = append(m.notices, n)
}

// nextNotice pops the oldest queued notice, or returns nil.
func (m *Model) nextNotice() Modal {
	if len(m.notices) == 0 {
		return nil
	}
	n := m.notices[0]
	m.notices = m.notices[1:]
	return n
}

func (m *Model) addPending(id int64) {
	m.pending[id]++
}

func (m *Model) donePending(id int64) {
	if m.pending[id] <= 1 {
		delete(m.pending, id)
		return
	}
	m.pending[id]--
}

func (m Model) pendingCount() int {
	n := 0
	for _, c := range m.pending {
		n += c
	}
	return n
}

// renderMain renders the header, command bar and the active view.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderList())
	}
	return b.String()
}

// Messages

type tickMsg time.Time

type loadedMsg struct {
	err error
}

type toggledMsg struct {
	id  int64
	err error
}

type reviewSavedMsg struct {
	id     int64
	review string
	err    error
}

type bookAddedMsg struct {
	book books.Book
	err  error
}

type refreshedMsg struct {
	id  int64
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: store.Load(ctx)}
	}
}

func toggleReadCmd(ctx context.Context, store *state.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		return toggledMsg{id: id, err: store.ToggleRead(ctx, id)}
	}
}

func saveReviewCmd(ctx context.Context, store *state.Store, id int64, review string) tea.Cmd {
	return func() tea.Msg {
		return reviewSavedMsg{id: id, review: review, err: store.SaveReview(ctx, id, review)}
	}
}

func addBookCmd(ctx context.Context, store *state.Store, in books.NewBook) tea.Cmd {
	return func() tea.Msg {
		b, err := store.AddBook(ctx, in)
		return bookAddedMsg{book: b, err: err}
	}
}

func refreshBookCmd(ctx context.Context, store *state.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{id: id, err: store.RefreshBook(ctx, id)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
