package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/TzachiGitHub/pokedex/internal/catalog"
	"github.com/TzachiGitHub/pokedex/internal/pokeapi"
	"github.com/TzachiGitHub/pokedex/internal/prefs"
	"github.com/TzachiGitHub/pokedex/internal/scroll"
	"github.com/TzachiGitHub/pokedex/internal/search"
	"github.com/TzachiGitHub/pokedex/internal/state"
)

// ErrMissingDependency is returned when the controller or store is nil.
var ErrMissingDependency = errors.New("ui: controller and store are required")

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *catalog.Controller
	Store      *state.Store
	Prefs      prefs.Store      // long-lived scope, holds the theme mode
	Restorer   *scroll.Restorer // session scope, holds the list offset
	IconURL    func(number int) string
	Logger     *zap.Logger

	// DarkBackground reports whether the terminal background is dark.
	// Defaults to lipgloss.HasDarkBackground.
	DarkBackground func() bool
}

// Result is what the UI hands back on exit.
type Result struct {
	Offset int // first visible list row
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Dependencies
	ctx        context.Context
	controller *catalog.Controller
	store      *state.Store
	prefs      prefs.Store
	restorer   *scroll.Restorer
	iconURL    func(int) string
	logger     *zap.Logger

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	snapshot    state.Snapshot
	changes     <-chan struct{}
	unsubscribe func()

	// List state
	list    viewport.Model
	spinner spinner.Model
	trigger *scroll.Trigger
	visible []pokeapi.Pokemon // records currently listed, preview applied
	cursor  int
	offset  int // first visible record

	// Search input
	search    textinput.Model
	searchSeq int
}

// New creates the root model and subscribes it to store changes.
func New(opts Options) (Model, error) {
	if opts.Controller == nil || opts.Store == nil {
		return Model{}, ErrMissingDependency
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Prefs
	if store == nil {
		store = prefs.NewMemory(nil)
	}
	iconURL := opts.IconURL
	if iconURL == nil {
		iconURL = func(int) string { return "" }
	}
	dark := opts.DarkBackground
	if dark == nil {
		dark = lipgloss.HasDarkBackground
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = textSearchPlaceholder
	input.CharLimit = 64

	changes, unsubscribe := opts.Store.Subscribe()
	m := Model{
		ctx:         ctx,
		controller:  opts.Controller,
		store:       opts.Store,
		prefs:       store,
		restorer:    opts.Restorer,
		iconURL:     iconURL,
		logger:      logger,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       GetTheme(ResolveThemeMode(store, dark)),
		snapshot:    opts.Store.Snapshot(),
		changes:     changes,
		unsubscribe: unsubscribe,
		list:        viewport.New(0, 0),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		trigger:     scroll.NewTrigger(scroll.Options{Margin: scroll.DefaultMargin, Threshold: scroll.DefaultThreshold}, nil),
		search:      input,
	}
	m.search.SetValue(m.snapshot.Query.Search)
	m.refreshVisible()
	return m, nil
}

// Init implements tea.Model. The first load starts together with the UI.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.runOp(opMount, m.controller.Mount),
		waitForChange(m.changes),
		m.spinner.Tick,
	}
	if _, ok := m.restorer.Pending(); ok {
		cmds = append(cmds, restoreTickCmd())
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
		m.ready = true
		m.search.Width = max(m.width/3, 20)
		cmd := m.syncList()
		return m, cmd

	case storeChangedMsg:
		m.snapshot = m.store.Snapshot()
		cmd := m.syncList()
		return m, tea.Batch(waitForChange(m.changes), cmd)

	case opDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.logger.Debug("operation finished with error", zap.String("op", msg.op), zap.Error(msg.err))
		}
		return m, nil

	case searchDebounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		cmd := m.commitSearch()
		return m, cmd

	case restoreTickMsg:
		return m.handleRestoreTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return textLoadingPokemon
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return strings.Join([]string{
		m.renderHeader(),
		m.renderFilterBar(),
		m.renderSortBar(),
		m.renderBody(),
		m.renderDetail(),
		m.renderFooter(),
	}, "\n")
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searchFocused() {
		return m.handleSearchKey(msg)
	}

	snap := m.snapshot
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.visible) - 1
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.rowsVisible()
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.rowsVisible()

	case key.Matches(msg, m.keys.Search):
		m.searchSeq++
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.CycleType):
		next := nextType(snap.Types, snap.Query.Type)
		m.resetPosition()
		return m, m.runOp(opSetType, func(ctx context.Context) error {
			return m.controller.SetType(ctx, next)
		})

	case key.Matches(msg, m.keys.ToggleSort):
		order := snap.Query.Sort.Toggle()
		m.resetPosition()
		return m, m.runOp(opSetSort, func(ctx context.Context) error {
			return m.controller.SetSort(ctx, order)
		})

	case key.Matches(msg, m.keys.CycleLimit):
		limit := nextPageSize(snap.Query.Limit)
		m.resetPosition()
		return m, m.runOp(opSetLimit, func(ctx context.Context) error {
			return m.controller.SetPageSize(ctx, limit)
		})

	case key.Matches(msg, m.keys.ClearFilters):
		m.searchSeq++
		m.search.SetValue("")
		m.resetPosition()
		cmd := m.syncList()
		return m, tea.Batch(cmd, m.runOp(opReset, m.controller.ResetFilters))

	case key.Matches(msg, m.keys.Capture):
		return m, m.toggleSelected()

	case key.Matches(msg, m.keys.Retry):
		if snap.Err != "" {
			return m, m.runOp(opRetry, m.controller.Retry)
		}
		return m, m.runOp(opRefresh, m.controller.Refresh)

	case key.Matches(msg, m.keys.PrevPage):
		if page := currentPage(snap); page > 1 {
			m.resetPosition()
			return m, m.setPage(page - 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if snap.HasPagination && snap.Pagination.HasNext {
			m.resetPosition()
			return m, m.setPage(currentPage(snap) + 1)
		}
		return m, nil

	default:
		return m, nil
	}

	// Navigation keys fall through to here.
	cmd := m.syncList()
	return m, cmd
}

// handleSearchKey routes keys to the focused search input.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		m.search.Blur()
		m.searchSeq++
		sync := m.syncList()
		commit := m.commitSearch()
		return m, tea.Batch(sync, commit)

	case key.Matches(msg, m.keys.Cancel):
		m.search.Blur()
		m.searchSeq++
		m.search.SetValue(m.snapshot.Query.Search)
		cmd := m.syncList()
		return m, cmd
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	m.resetPosition()
	sync := m.syncList()
	return m, tea.Batch(cmd, debounceSearch(m.searchSeq), sync)
}

// commitSearch sends the typed term to the server when it differs from the
// committed one.
func (m *Model) commitSearch() tea.Cmd {
	term := strings.TrimSpace(m.search.Value())
	if term == m.snapshot.Query.Search {
		return nil
	}
	m.resetPosition()
	return m.runOp(opSetSearch, func(ctx context.Context) error {
		return m.controller.SetSearch(ctx, term)
	})
}

func (m *Model) setPage(page int) tea.Cmd {
	return m.runOp(opSetPage, func(ctx context.Context) error {
		return m.controller.SetPage(ctx, page)
	})
}

// toggleSelected flips the captured flag of the record under the cursor.
func (m *Model) toggleSelected() tea.Cmd {
	p, ok := m.selected()
	if !ok || m.snapshot.IsPending(p.Key()) {
		return nil
	}
	return m.runOp(opToggle, func(ctx context.Context) error {
		return m.controller.ToggleCapture(ctx, p)
	})
}

func (m *Model) toggleTheme() {
	m.theme = GetTheme(m.theme.Mode.Toggle())
	if err := m.prefs.Set(prefs.KeyThemeMode, string(m.theme.Mode)); err != nil {
		m.logger.Warn("save theme mode failed", zap.Error(err))
	}
}

func (m Model) handleRestoreTick() (tea.Model, tea.Cmd) {
	snap := m.snapshot
	offset, done := m.restorer.Poll(len(snap.Records), snap.Loading || snap.LoadingMore, snap.HasData())
	if done {
		m.offset = offset
		m.cursor = offset
		m.logger.Debug("scroll position restored", zap.Int("offset", offset))
		cmd := m.syncList()
		return m, cmd
	}
	if _, pending := m.restorer.Pending(); pending {
		return m, restoreTickCmd()
	}
	return m, nil
}

func (m Model) searchFocused() bool {
	return m.search.Focused()
}

// previewing reports whether typed text has not yet been sent to the server,
// in which case the list is filtered locally.
func (m Model) previewing() bool {
	return strings.TrimSpace(m.search.Value()) != m.snapshot.Query.Search
}

// highlightTerm is the term whose matches are highlighted in names.
func (m Model) highlightTerm() string {
	if m.previewing() {
		return strings.TrimSpace(m.search.Value())
	}
	return m.snapshot.Query.Search
}

func (m *Model) refreshVisible() {
	if m.previewing() {
		m.visible = search.Filter(m.snapshot.SearchRecords, m.search.Value(), true)
		return
	}
	m.visible = m.snapshot.Records
}

func (m Model) selected() (pokeapi.Pokemon, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return pokeapi.Pokemon{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) resetPosition() {
	m.cursor = 0
	m.offset = 0
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) (Result, error) {
	m, err := New(opts)
	if err != nil {
		return Result{}, err
	}
	defer m.unsubscribe()
	defer m.trigger.Disconnect()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if err != nil && !(errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil) {
		return Result{}, err
	}
	if fm, ok := final.(Model); ok {
		return Result{Offset: fm.offset}, nil
	}
	return Result{}, nil
}
