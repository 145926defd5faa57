// Package tui implements the interactive unit browser.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trly/servicedeck/internal/binder"
	"github.com/trly/servicedeck/internal/log"
	"github.com/trly/servicedeck/internal/systemd"
	"github.com/trly/servicedeck/internal/unit"
	"github.com/trly/servicedeck/internal/unitlist"
)

// NoticeTTL is how long a notice stays on screen.
const NoticeTTL = 4 * time.Second

// nameWidth is the widest a unit name is shown before truncation.
const nameWidth = 30

type mode int

const (
	modeList mode = iota
	modeSearch
	modeDetail
	modeEdit
)

// Options configures a Model.
type Options struct {
	Source     systemd.Source
	Binder     *binder.Binder
	Logger     log.Logger
	SortColumn unitlist.Column
	Descending bool
	Title      string
}

// Model is the bubbletea model for the unit browser. The collection, view
// and binder are only touched from Update.
type Model struct {
	ctx    context.Context
	source systemd.Source
	binder *binder.Binder
	logger log.Logger
	title  string

	collection *unitlist.Collection
	view       *unitlist.View

	table  table.Model
	search textinput.Model
	detail viewport.Model
	editor textarea.Model
	help   help.Model
	keys   keyMap
	styles styles

	mode     mode
	loading  bool
	loaded   bool
	selected string
	notice   *binder.Notice
	noticeID int
	width    int
	height   int

	// editorBase is the editor value right after loading the unit file. The
	// textarea rewrites tabs, so it can differ from the file text.
	editorBase string
}

// New builds the browser model.
func New(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	if opts.Title == "" {
		opts.Title = "servicedeck"
	}
	if opts.Binder == nil {
		opts.Binder = binder.New(opts.Source, nil, nil, opts.Logger, binder.Options{})
	}

	collection := unitlist.NewCollection()
	view := unitlist.NewView(collection, unitlist.NewFilter(), unitlist.NewSorter(opts.SortColumn, opts.Descending))

	t := table.New(
		table.WithColumns(columnsFor(80, opts.SortColumn, opts.Descending)),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	t.SetStyles(tableStyles())

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "filter by name or description"
	search.CharLimit = 128

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0

	m := &Model{
		ctx:        ctx,
		source:     opts.Source,
		binder:     opts.Binder,
		logger:     opts.Logger,
		title:      opts.Title,
		collection: collection,
		view:       view,
		table:      t,
		search:     search,
		detail:     viewport.New(80, 20),
		editor:     editor,
		help:       help.New(),
		keys:       defaultKeyMap(),
		styles:     defaultStyles(),
		loading:    true,
	}
	view.Subscribe(m.syncRows)
	return m
}

type unitsLoadedMsg unitlist.LoadResult

type noticeExpiredMsg struct{ id int }

// waitForUnits drains the single-slot handoff from the listing goroutine.
func waitForUnits(ch <-chan unitlist.LoadResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return unitsLoadedMsg(res)
	}
}

// Init implements tea.Model. It starts the initial listing.
func (m *Model) Init() tea.Cmd {
	return waitForUnits(unitlist.Load(m.ctx, m.source))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case unitsLoadedMsg:
		return m, m.handleLoaded(unitlist.LoadResult(msg))

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = nil
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m, m.updateSearch(msg)
		case modeDetail:
			return m, m.updateDetail(msg)
		case modeEdit:
			return m, m.updateEditor(msg)
		default:
			return m, m.updateList(msg)
		}
	}

	return m, nil
}

func (m *Model) handleLoaded(res unitlist.LoadResult) tea.Cmd {
	first := !m.loaded
	m.loading = false
	m.loaded = true

	if res.Err != nil {
		m.logger.Error("Listing units failed", "error", res.Err)
		m.collection.ReplaceAll(nil)
		return m.setNotice(binder.Notice{
			Level:   binder.LevelError,
			Message: fmt.Sprintf("Could not list units: %v", res.Err),
			Err:     res.Err,
		})
	}

	m.logger.Debug("Units loaded", "count", len(res.Records))
	if first {
		m.collection.Append(res.Records)
		return nil
	}
	m.collection.ReplaceAll(res.Records)
	return m.setNotice(binder.Notice{Message: fmt.Sprintf("Refreshed %d units", len(res.Records))})
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m.search.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Back):
		if m.help.ShowAll {
			m.help.ShowAll = false
		}
		return nil
	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return nil
		}
		m.loading = true
		return waitForUnits(unitlist.Load(m.ctx, m.source))
	case key.Matches(msg, m.keys.Sort):
		col := unitlist.Column(msg.Runes[0] - '1')
		m.view.ToggleSort(col)
		return nil
	case key.Matches(msg, m.keys.Detail):
		return m.openDetail()
	case key.Matches(msg, m.keys.Edit):
		return m.openEditor()
	}

	for _, a := range unit.AllActions {
		if key.Matches(msg, m.keys.actionBinding(a)) {
			return m.invoke(a)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.selectCursor()
	return cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Reset()
		m.search.Blur()
		m.mode = modeList
		m.view.SetTerm("")
		return nil
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeList
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.view.SetTerm(m.search.Value())
	return cmd
}

func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back), msg.String() == "q":
		m.mode = modeList
		return nil
	case key.Matches(msg, m.keys.Edit):
		return m.openEditor()
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return cmd
}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.editor.Blur()
		m.mode = modeDetail
		return nil
	case key.Matches(msg, m.keys.Save):
		if m.editor.Value() == m.editorBase {
			c, _ := m.binder.Current()
			return m.setNotice(binder.Notice{Level: binder.LevelInfo, Message: fmt.Sprintf("No changes to %s", c.Detail.Title)})
		}
		n := m.binder.Save(m.ctx, m.editor.Value())
		if !n.IsError() {
			m.editor.Blur()
			m.refreshDetail()
			m.mode = modeDetail
		}
		return m.setNotice(n)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return cmd
}

func (m *Model) invoke(a unit.Action) tea.Cmd {
	if _, ok := m.binder.Current(); !ok {
		return nil
	}
	n := m.binder.Invoke(m.ctx, a)
	if n.Record != nil {
		m.collection.Replace(*n.Record)
	}
	return m.setNotice(n)
}

func (m *Model) openDetail() tea.Cmd {
	c, ok := m.binder.Current()
	if !ok {
		return nil
	}
	if !c.Detail.Enabled {
		return m.setNotice(binder.Notice{
			Level:   binder.LevelWarn,
			Message: fmt.Sprintf("No unit file available for %s", c.Record.Name),
			Err:     c.Detail.Err,
		})
	}
	m.refreshDetail()
	m.detail.GotoTop()
	m.mode = modeDetail
	return nil
}

func (m *Model) refreshDetail() {
	if c, ok := m.binder.Current(); ok {
		m.detail.SetContent(c.Detail.Text)
	}
}

func (m *Model) openEditor() tea.Cmd {
	c, ok := m.binder.Current()
	if !ok || !c.Detail.Enabled {
		return nil
	}
	m.editor.SetValue(c.Detail.Editable)
	m.editorBase = m.editor.Value()
	m.mode = modeEdit
	return m.editor.Focus()
}

// selectCursor hands the highlighted row to the binder when it changed.
func (m *Model) selectCursor() {
	r, ok := m.view.Row(m.table.Cursor())
	if !ok {
		if m.selected != "" {
			m.binder.Clear()
			m.selected = ""
		}
		return
	}
	if current, has := m.binder.Current(); has && r.Name == m.selected && current.Record == r {
		return
	}
	m.selected = r.Name
	m.binder.Select(m.ctx, r)
}

// syncRows rebuilds the table from the view, keeping the cursor on the
// previously selected unit when it is still visible.
func (m *Model) syncRows() {
	records := m.view.Rows()
	rows := make([]table.Row, len(records))
	cursor := 0
	for i, r := range records {
		rows[i] = table.Row{
			unit.Truncate(r.Name, nameWidth),
			r.Load.String(),
			r.State.String(),
			r.SubState,
			r.Description,
		}
		if r.Name == m.selected {
			cursor = i
		}
	}

	col, desc := m.view.Sort()
	m.table.SetColumns(columnsFor(m.width, col, desc))
	m.table.SetRows(rows)
	m.table.SetCursor(cursor)
	m.selectCursor()
}

func (m *Model) setNotice(n binder.Notice) tea.Cmd {
	m.noticeID++
	m.notice = &n
	id := m.noticeID
	return tea.Tick(NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	col, desc := m.view.Sort()
	m.table.SetColumns(columnsFor(width, col, desc))
	m.table.SetHeight(max(height-9, 3))

	m.detail.Width = max(width-4, 20)
	m.detail.Height = max(height-6, 3)
	m.editor.SetWidth(max(width-4, 20))
	m.editor.SetHeight(max(height-6, 3))
}

func columnsFor(width int, sortCol unitlist.Column, descending bool) []table.Column {
	widths := map[unitlist.Column]int{
		unitlist.ColumnName:     nameWidth + 3,
		unitlist.ColumnLoad:     10,
		unitlist.ColumnState:    12,
		unitlist.ColumnSubState: 12,
	}
	used := 0
	for _, w := range widths {
		used += w + 2
	}
	widths[unitlist.ColumnDescription] = max(width-used-2, 20)

	cols := make([]table.Column, 0, len(unitlist.Columns))
	for _, c := range unitlist.Columns {
		title := c.Title()
		if c == sortCol {
			if descending {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		cols = append(cols, table.Column{Title: title, Width: widths[c]})
	}
	return cols
}
