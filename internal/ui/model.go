package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"simple-bible/internal/api"
	"simple-bible/internal/bible"
	"simple-bible/internal/logger"
	"simple-bible/internal/state"
	"simple-bible/internal/theme"
)

type viewMode int

const (
	modeReader viewMode = iota
	modeBooks
	modeHistory
	modeGoto
	modeSearch
	modeResults
	modeCompare
)

// zoomStep is the factor one +/- key press applies.
const zoomStep = 1.1

// Searcher runs full-text searches, e.g. *api.Client.
type Searcher interface {
	SearchVerses(ctx context.Context, translation, query string, limit int) (*api.SearchResponse, error)
}

// Comparer fetches the same verses in several translations, e.g. *api.Client.
type Comparer interface {
	GetParallelVerses(ctx context.Context, req api.ParallelRequest) (map[string][]api.Verse, error)
}

// Deps are the collaborators the reader needs.
type Deps struct {
	Controller   *state.Controller
	Catalog      *bible.Catalog
	Source       bible.VerseSource
	Search       Searcher // nil disables search
	Compare      Comparer // nil disables comparison
	Translations []string
	Theme        string
	// SaveTheme persists the theme key; nil disables saving.
	SaveTheme func(key string) error
}

// verseFocus is a verse to highlight once its chapter is shown.
type verseFocus struct {
	selection state.Selection
	verse     int
}

type Model struct {
	ctx          context.Context
	ctrl         *state.Controller
	catalog      *bible.Catalog
	src          bible.VerseSource
	searcher     Searcher
	comparer     Comparer
	translations []string
	saveTheme    func(string) error

	theme  theme.Theme
	styles theme.Styles
	keys   keyMap
	help   help.Model

	viewport    viewport.Model
	input       textinput.Model
	books       list.Model
	historyList list.Model
	results     list.Model

	stateCh     <-chan state.UiState
	unsubscribe func()
	historyCh   <-chan []state.Selection
	history     []state.Selection

	// current is the last published state; it drives rendering only.
	// Key handlers read the controller directly.
	current state.UiState
	reader  *bible.Reader
	shown   state.Selection // selection the verses belong to
	book    bible.BookDetails
	verses  []string
	offsets []int // first line of each verse in the viewport
	focus   verseFocus

	comparison string

	mode    viewMode
	width   int
	height  int
	ready   bool
	loading bool
	err     error
}

type errMsg struct{ err error }
type stateMsg struct{ state state.UiState }
type historyMsg struct{ selections []state.Selection }
type readerLoadedMsg struct{ reader *bible.Reader }
type chapterLoadedMsg struct {
	selection state.Selection
	book      bible.BookDetails
	verses    []string
}

func (e errMsg) Error() string { return e.err.Error() }

// NewModel subscribes to the controller's state and history. The history
// stream ends when ctx is cancelled; Close ends the state subscription.
func NewModel(ctx context.Context, deps Deps) (Model, error) {
	historyCh, err := deps.Controller.AllHistory(ctx)
	if err != nil {
		return Model{}, fmt.Errorf("watching history: %w", err)
	}
	stateCh, unsubscribe := deps.Controller.Subscribe()

	ti := textinput.New()
	ti.CharLimit = 80
	ti.Width = 50

	t := theme.Get(deps.Theme)
	return Model{
		ctx:          ctx,
		ctrl:         deps.Controller,
		catalog:      deps.Catalog,
		src:          deps.Source,
		searcher:     deps.Search,
		comparer:     deps.Compare,
		translations: deps.Translations,
		saveTheme:    deps.SaveTheme,
		theme:        t,
		styles:       t.Styles(),
		keys:         defaultKeyMap(),
		help:         help.New(),
		input:        ti,
		books:        newList("Books"),
		historyList:  newList("History"),
		results:      newList("Search results"),
		stateCh:      stateCh,
		unsubscribe:  unsubscribe,
		historyCh:    historyCh,
		current:      deps.Controller.State(),
		mode:         modeReader,
		loading:      true,
	}, nil
}

// Close ends the state subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.stateCh),
		waitForHistory(m.historyCh),
	)
}

func waitForState(ch <-chan state.UiState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg{s}
	}
}

func waitForHistory(ch <-chan []state.Selection) tea.Cmd {
	return func() tea.Msg {
		h, ok := <-ch
		if !ok {
			return nil
		}
		return historyMsg{h}
	}
}

func loadReader(ctx context.Context, catalog *bible.Catalog, src bible.VerseSource, translation string) tea.Cmd {
	return func() tea.Msg {
		r, err := bible.Load(ctx, catalog, src, translation)
		if err != nil {
			return errMsg{err}
		}
		return readerLoadedMsg{r}
	}
}

func loadChapter(ctx context.Context, r *bible.Reader, sel state.Selection) tea.Cmd {
	return func() tea.Msg {
		book, err := r.Book(sel.BookIndex)
		if err != nil {
			return errMsg{err}
		}
		verses, err := r.Chapter(ctx, book, sel.Chapter)
		if err != nil {
			return errMsg{err}
		}
		return chapterLoadedMsg{selection: sel, book: book, verses: verses}
	}
}

func recordHistory(ctx context.Context, ctrl *state.Controller, sel state.Selection) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.InsertSelectionToHistory(ctx, sel); err != nil {
			return errMsg{fmt.Errorf("saving history: %w", err)}
		}
		return nil
	}
}

func saveTheme(save func(string) error, key string) tea.Cmd {
	return func() tea.Msg {
		if err := save(key); err != nil {
			logger.Warn("save theme: %v", err)
		}
		return nil
	}
}

// sync loads whatever the current state needs: a reader for a new
// translation or the text of a new selection.
func (m *Model) sync() tea.Cmd {
	sel := m.current.Selection
	if m.reader == nil || m.reader.Language() != sel.Translation {
		m.loading = true
		return loadReader(m.ctx, m.catalog, m.src, sel.Translation)
	}
	if sel != m.shown {
		m.loading = true
		return loadChapter(m.ctx, m.reader, sel)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.render()
		return m, nil

	case stateMsg:
		zoomChanged := msg.state.Display != m.current.Display
		m.current = msg.state
		if zoomChanged {
			m.render()
		}
		load := m.sync()
		return m, tea.Batch(waitForState(m.stateCh), load)

	case historyMsg:
		m.history = msg.selections
		cmd := m.historyList.SetItems(m.historyItems())
		return m, tea.Batch(waitForHistory(m.historyCh), cmd)

	case readerLoadedMsg:
		if msg.reader.Language() != m.current.Selection.Translation {
			return m, nil // translation changed again while loading
		}
		m.reader = msg.reader
		m.shown = state.Selection{}
		cmd := m.books.SetItems(bookItems(msg.reader))
		load := m.sync()
		return m, tea.Batch(cmd, load)

	case chapterLoadedMsg:
		if msg.selection != m.current.Selection {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.shown = msg.selection
		m.book = msg.book
		m.verses = msg.verses
		m.render()
		m.scrollToFocus()

		// history keeps the chapter that is on screen
		seen := msg.selection.WithChapter(displayedChapter(msg.book, msg.selection.Chapter))
		if n := len(m.history); n == 0 || m.history[n-1] != seen {
			return m, recordHistory(m.ctx, m.ctrl, seen)
		}
		return m, nil

	case searchResultsMsg:
		m.loading = false
		m.err = nil
		cmd := m.results.SetItems(m.resultItems(msg.verses))
		m.results.Title = fmt.Sprintf("%q: %d of %d", msg.query, len(msg.verses), msg.total)
		m.mode = modeResults
		return m, cmd

	case comparisonMsg:
		m.loading = false
		if m.mode != modeCompare {
			return m, nil
		}
		m.err = nil
		m.comparison = formatComparison(msg.translations, msg.verses, textWidth(m.current.Display.Zoom, m.viewport.Width), m.styles)
		m.viewport.SetContent(m.comparison)
		m.viewport.GotoTop()
		return m, nil

	case errMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeBooks:
			cmd := m.updateList(msg, &m.books)
			return m, cmd
		case modeHistory:
			cmd := m.updateList(msg, &m.historyList)
			return m, cmd
		case modeResults:
			cmd := m.updateList(msg, &m.results)
			return m, cmd
		case modeGoto, modeSearch:
			cmd := m.updateInput(msg)
			return m, cmd
		case modeCompare:
			if cmd, handled := m.handleCompareKey(msg); handled {
				return m, cmd
			}
		default:
			if cmd, handled := m.handleReaderKey(msg); handled {
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeBooks:
		m.books, cmd = m.books.Update(msg)
	case modeHistory:
		m.historyList, cmd = m.historyList.Update(msg)
	case modeResults:
		m.results, cmd = m.results.Update(msg)
	case modeGoto, modeSearch:
		m.input, cmd = m.input.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleReaderKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	sel := m.ctrl.State().Selection
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Next):
		m.nextChapter(sel)
	case key.Matches(msg, m.keys.Prev):
		m.prevChapter(sel)
	case key.Matches(msg, m.keys.Books):
		if m.reader != nil {
			m.mode = modeBooks
			m.books.Select(sel.BookIndex)
		}
	case key.Matches(msg, m.keys.History):
		m.mode = modeHistory
	case key.Matches(msg, m.keys.Goto):
		return m.openInput(modeGoto, "John 3:16, 1 cor 13, ps 23"), true
	case key.Matches(msg, m.keys.Search):
		if m.searcher == nil {
			m.err = errSearchUnavailable
			return nil, true
		}
		return m.openInput(modeSearch, "words to search for"), true
	case key.Matches(msg, m.keys.Compare):
		return m.startComparison(sel), true
	case key.Matches(msg, m.keys.Translation):
		m.ctrl.SetTranslation(nextTranslation(m.translations, sel.Translation))
	case key.Matches(msg, m.keys.ZoomIn):
		m.ctrl.OnZoom(zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.ctrl.OnZoom(1 / zoomStep)
	case key.Matches(msg, m.keys.Theme):
		m.theme = theme.Next(m.theme.Key)
		m.styles = m.theme.Styles()
		m.render()
		if m.saveTheme != nil {
			return saveTheme(m.saveTheme, m.theme.Key), true
		}
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.ResetApp()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
	default:
		return nil, false
	}
	return nil, true
}

// nextChapter moves forward, continuing into the next book after the last chapter.
func (m *Model) nextChapter(sel state.Selection) {
	if m.reader == nil {
		m.ctrl.SetChapter(sel.Chapter + 1)
		return
	}
	count, err := m.reader.ChapterCountAt(sel.BookIndex)
	if err == nil && sel.Chapter >= count && sel.BookIndex+1 < len(m.reader.BookNames()) {
		m.ctrl.SetBookIndex(sel.BookIndex + 1)
		return
	}
	m.ctrl.SetChapter(sel.Chapter + 1)
}

// prevChapter moves back, continuing into the last chapter of the previous book.
func (m *Model) prevChapter(sel state.Selection) {
	if sel.Chapter > 1 {
		m.ctrl.SetChapter(sel.Chapter - 1)
		return
	}
	if sel.BookIndex == 0 || m.reader == nil {
		return
	}
	count, err := m.reader.ChapterCountAt(sel.BookIndex - 1)
	if err != nil {
		return
	}
	m.ctrl.SetBookIndex(sel.BookIndex - 1)
	m.ctrl.SetChapter(count)
}

// jumpTo selects a chapter of the current translation and remembers verse
// for highlighting.
func (m *Model) jumpTo(bookIndex, chapter, verse int) {
	m.ctrl.SetBookIndex(bookIndex)
	if chapter != 1 {
		m.ctrl.SetChapter(chapter)
	}
	m.focus = verseFocus{selection: m.ctrl.State().Selection, verse: verse}
	if m.focus.selection == m.shown {
		m.render()
		m.scrollToFocus()
	}
}

func nextTranslation(list []string, current string) string {
	for i, t := range list {
		if t == current {
			return list[(i+1)%len(list)]
		}
	}
	if len(list) > 0 {
		return list[0]
	}
	return current
}

// updateList handles keys for the pickers. While the filter input is active
// every key goes to the list.
func (m *Model) updateList(msg tea.KeyMsg, l *list.Model) tea.Cmd {
	if l.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Back):
			if l.FilterState() == list.FilterApplied {
				l.ResetFilter()
				return nil
			}
			m.mode = modeReader
			return nil
		case msg.String() == "ctrl+c":
			return tea.Quit
		case key.Matches(msg, m.keys.Select):
			m.open(l.SelectedItem())
			return nil
		}
	}

	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return cmd
}

func (m *Model) open(item list.Item) {
	switch it := item.(type) {
	case bookItem:
		m.ctrl.SetBookIndex(it.book.Index)
	case historyItem:
		m.ctrl.SetTranslation(it.selection.Translation)
		m.ctrl.SetBookIndex(it.selection.BookIndex)
		m.ctrl.SetChapter(it.selection.Chapter)
	case resultItem:
		if m.reader == nil {
			return
		}
		book, err := m.reader.ByID(it.verse.Book)
		if err != nil {
			m.err = err
			return
		}
		m.jumpTo(book.Index, it.verse.Chapter, it.verse.Verse)
	}
	m.mode = modeReader
}

// historyItems lists the history newest first.
func (m Model) historyItems() []list.Item {
	items := make([]list.Item, 0, len(m.history))
	for i := len(m.history) - 1; i >= 0; i-- {
		sel := m.history[i]
		name := canonName(sel.BookIndex)
		if m.reader != nil && m.reader.Language() == sel.Translation {
			if b, err := m.reader.Book(sel.BookIndex); err == nil {
				name = b.Name
			}
		}
		items = append(items, historyItem{selection: sel, bookName: name})
	}
	return items
}

func canonName(index int) string {
	canon := bible.Canon()
	if index >= 0 && index < len(canon) {
		return canon[index].Name
	}
	return fmt.Sprintf("Book %d", index+1)
}

const (
	headerHeight = 2
	footerHeight = 2
)

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.input.Width = max(width-6, 10)

	bodyHeight := height - headerHeight - footerHeight
	if m.help.ShowAll {
		rows := 0
		for _, col := range m.keys.FullHelp() {
			rows = max(rows, len(col))
		}
		bodyHeight -= rows - 1
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, bodyHeight)
		m.viewport.YPosition = headerHeight
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = bodyHeight
	}
	for _, l := range []*list.Model{&m.books, &m.historyList, &m.results} {
		l.SetSize(width, height-footerHeight)
	}
}

func (m *Model) render() {
	if !m.ready {
		return
	}
	if m.mode == modeCompare && m.comparison != "" {
		return
	}
	highlight := 0
	if m.focus.selection == m.shown {
		highlight = m.focus.verse
	}
	width := textWidth(m.current.Display.Zoom, m.viewport.Width)
	content, offsets := formatChapter(m.verses, width, m.styles, highlight)
	m.offsets = offsets
	m.viewport.SetContent(content)
}

// scrollToFocus shows the focused verse, or the top of a newly loaded chapter.
func (m *Model) scrollToFocus() {
	if m.focus.selection == m.shown && m.focus.verse > 0 && m.focus.verse <= len(m.offsets) {
		m.viewport.SetYOffset(m.offsets[m.focus.verse-1])
		return
	}
	m.viewport.GotoTop()
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	listHelp := m.styles.Help.Render("enter: open | /: filter | esc: back")
	switch m.mode {
	case modeBooks:
		return m.books.View() + "\n" + listHelp
	case modeHistory:
		return m.historyList.View() + "\n" + listHelp
	case modeResults:
		return m.results.View() + "\n" + listHelp
	}

	var footer string
	switch {
	case m.loading:
		footer = m.styles.Help.Render("Loading...")
	case m.mode == modeGoto || m.mode == modeSearch:
		footer = m.styles.Help.Render("enter: go | esc: cancel")
	case m.mode == modeCompare:
		footer = m.styles.Help.Render("esc: back | q: quit")
	default:
		footer = m.help.View(m.keys)
	}
	if m.err != nil {
		footer += "\n" + m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return fmt.Sprintf("%s\n%s\n%s", m.header(), m.viewport.View(), footer)
}

func (m Model) header() string {
	switch m.mode {
	case modeGoto:
		return m.styles.Header.Render("Go to " + m.input.View())
	case modeSearch:
		return m.styles.Header.Render("Search " + m.current.Selection.Translation + " " + m.input.View())
	case modeCompare:
		return m.styles.Header.Render(fmt.Sprintf("Compare  %s %d", m.book.Name, displayedChapter(m.book, m.shown.Chapter)))
	}

	sel := m.current.Selection
	title := sel.Translation
	if m.book.Name != "" && m.shown == sel {
		title = fmt.Sprintf("%s  %s %d", sel.Translation, m.book.Name, displayedChapter(m.book, sel.Chapter))
	}
	status := fmt.Sprintf("zoom %.2fx  %s", m.current.Display.Zoom, m.theme.Name)

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	line := m.styles.Title.Render(title) + lipgloss.NewStyle().Width(gap).Render("") + m.styles.Help.Render(status)
	return m.styles.Header.Render(line)
}
