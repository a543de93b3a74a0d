package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stickerpicker/internal/catalog"
	"github.com/five82/stickerpicker/internal/packs"
	"github.com/five82/stickerpicker/internal/prefs"
	"github.com/five82/stickerpicker/internal/state"
	"github.com/five82/stickerpicker/internal/thumbs"
)

// Sender delivers a chosen sticker to the host and reports the binding.
type Sender interface {
	SendSelection(sticker packs.Sticker) error
	Binding() (widgetID string, ok bool)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Sender    Sender
	Resolver  thumbs.Resolver
	ThemeName string
	PrefsPath string
	LogPath   string
	Listen    string // shown in the header
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	sender    Sender
	prefsPath string
	logPath   string
	listen    string
	tick      time.Duration

	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Catalog
	snapshot state.Snapshot
	query    string
	grid     grid
	cells    map[string]*stickerCell
	tracker  *thumbs.Tracker
	view     *thumbs.Viewport
	offset   int // first visible content line
	selected int // index into grid.cells

	// Chrome
	spinner   spinner.Model
	search    textinput.Model
	searching bool
	status    string
	statusErr bool

	// Overlays
	showHelp bool
	showLogs bool
	logView  viewport.Model
	logErr   string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = ThemeNames()[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = packs.NewHomeserver("")
	}

	vp := thumbs.NewViewport()

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search stickers"
	ti.CharLimit = 64

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		sender:    opts.Sender,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		listen:    opts.Listen,
		tick:      tick,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		cells:     make(map[string]*stickerCell),
		tracker:   thumbs.NewTracker(resolver, vp.Attach),
		view:      vp,
		spinner:   sp,
		search:    ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.relayout()
		m.resizeLogView()
		return m, nil

	case snapshotMsg:
		m.snapshot = msg.snapshot
		m.relayout()
		if msg.snapshot.IsTerminal() || m.store == nil {
			return m, nil
		}
		return m, waitForChangeCmd(m.ctx, m.store, msg.changed)

	case sentMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Send failed: %v", msg.err), true)
			log.Printf("[ui] send %q failed: %v", msg.name, msg.err)
		} else {
			m.setStatus(fmt.Sprintf("Sent %s", msg.name), false)
		}
		return m, nil

	case logLinesMsg:
		m.applyLogLines(msg)
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.showLogs {
			cmds = append(cmds, readLogCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.snapshot.IsTerminal() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				log.Printf("[ui] save prefs: %v", err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		m.resizeLogView()
		return m, readLogCmd(m.logPath)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.query != "" {
			m.setQuery("")
		}
		return m, nil

	case key.Matches(msg, m.keys.Send):
		return m, m.sendSelected()
	}

	m.handleNavKey(msg)
	return m, nil
}

func (m *Model) handleNavKey(msg tea.KeyMsg) {
	total := len(m.grid.cells)
	if total == 0 {
		return
	}
	cols := m.grid.columns
	pageCells := max(1, m.contentHeight()/cellHeight) * cols

	next := m.selected
	switch {
	case key.Matches(msg, m.keys.Left):
		next--
	case key.Matches(msg, m.keys.Right):
		next++
	case key.Matches(msg, m.keys.Up):
		next = m.verticalMove(-1)
	case key.Matches(msg, m.keys.Down):
		next = m.verticalMove(1)
	case key.Matches(msg, m.keys.PageUp):
		next -= pageCells
	case key.Matches(msg, m.keys.PageDown):
		next += pageCells
	case key.Matches(msg, m.keys.Top):
		next = 0
	case key.Matches(msg, m.keys.Bottom):
		next = total - 1
	default:
		return
	}
	m.selected = min(max(next, 0), total-1)
	m.ensureSelectedVisible()
	m.syncView()
}

// verticalMove returns the cell index one sticker row up or down from the
// selection, keeping the column where the target row is wide enough.
func (m Model) verticalMove(dir int) int {
	cur := m.grid.cells[m.selected]
	col := 0
	rowCells := m.grid.rows[cur.row].cells
	for i, c := range rowCells {
		if c == cur {
			col = i
			break
		}
	}
	for r := cur.row + dir; r >= 0 && r < len(m.grid.rows); r += dir {
		target := m.grid.rows[r].cells
		if len(target) == 0 {
			continue
		}
		return m.grid.indexOf(target[min(col, len(target)-1)])
	}
	return m.selected
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.setQuery("")
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.query {
		m.setQuery(v)
	}
	return m, cmd
}

func (m *Model) setQuery(q string) {
	m.query = q
	m.selected = 0
	m.offset = 0
	if q == "" {
		m.search.SetValue("")
	}
	m.relayout()
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.showLogs {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-cellHeight)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scrollBy(cellHeight)
		return m, nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
	default:
		return m, nil
	}

	line := msg.Y - headerLines
	if line < 0 || line >= m.contentHeight() {
		return m, nil
	}
	c := m.grid.cellAt(line+m.offset, msg.X)
	if c == nil {
		return m, nil
	}
	m.selected = m.grid.indexOf(c)
	return m, m.sendSelected()
}

func (m *Model) scrollBy(lines int) {
	m.offset = m.clampOffset(m.offset + lines)
	m.syncView()
}

func (m *Model) sendSelected() tea.Cmd {
	if m.sender == nil || m.selected < 0 || m.selected >= len(m.grid.cells) {
		return nil
	}
	sticker := m.grid.cells[m.selected].sticker
	m.setStatus(fmt.Sprintf("Sending %s...", sticker.Body), false)
	return sendCmd(m.sender, sticker)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// relayout rebuilds the grid from the snapshot and search query, registers
// new cells with the thumbnail tracker, and refreshes visibility.
func (m *Model) relayout() {
	list := catalog.Filter(m.snapshot.Packs, m.query)
	g, fresh := buildGrid(list, m.width, m.cells)
	m.grid = g
	for _, c := range fresh {
		m.tracker.Register(c)
	}
	if m.selected >= len(g.cells) {
		m.selected = max(0, len(g.cells)-1)
	}
	m.offset = m.clampOffset(m.offset)
	m.syncView()
}

func (m *Model) syncView() {
	if !m.ready {
		return
	}
	m.view.SetView(viewRect(m.offset, m.width, m.contentHeight()))
}

func (m Model) contentHeight() int {
	return max(1, m.height-headerLines-footerLines)
}

func (m Model) clampOffset(offset int) int {
	maxOffset := max(0, m.grid.lines-m.contentHeight())
	return min(max(offset, 0), maxOffset)
}

func (m *Model) ensureSelectedVisible() {
	if m.selected >= len(m.grid.cells) {
		return
	}
	rowIdx := m.grid.cells[m.selected].row
	row := m.grid.rows[rowIdx]
	top := row.line
	// Keep the pack title in view when scrolling up to a pack's first row.
	if rowIdx > 0 && len(m.grid.rows[rowIdx-1].cells) == 0 {
		top = m.grid.rows[rowIdx-1].line
	}
	h := m.contentHeight()
	switch {
	case top < m.offset:
		m.offset = top
	case row.line+row.height > m.offset+h:
		m.offset = row.line + row.height - h
	}
	m.offset = m.clampOffset(m.offset)
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snapshot state.Snapshot
	changed  <-chan struct{}
}

type sentMsg struct {
	name string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshotCmd captures the change channel before reading so an update
// landing in between is not missed.
func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		changed := store.Changed()
		return snapshotMsg{snapshot: store.Snapshot(), changed: changed}
	}
}

func waitForChangeCmd(ctx context.Context, store *state.Store, changed <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changed:
			return fetchSnapshotCmd(store)()
		case <-ctx.Done():
			return nil
		}
	}
}

func sendCmd(sender Sender, sticker packs.Sticker) tea.Cmd {
	return func() tea.Msg {
		err := sender.SendSelection(sticker)
		return sentMsg{name: sticker.Body, err: err}
	}
}

// Run starts the Bubble Tea program and releases thumbnails on exit.
func Run(opts Options) error {
	m := New(opts)
	defer m.tracker.UnregisterAll()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}

func phaseLabel(s state.Snapshot) string {
	return strings.ToUpper(s.Phase.String())
}
