package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"simple-bible/internal/api"
	"simple-bible/internal/bible"
	"simple-bible/internal/state"
	"simple-bible/internal/theme"
)

const searchLimit = 64

var (
	errSearchUnavailable  = errors.New("search is not available")
	errCompareUnavailable = errors.New("comparison is not available")
)

type searchResultsMsg struct {
	query  string
	total  int
	verses []api.Verse
}

type comparisonMsg struct {
	translations []string
	verses       map[string][]api.Verse
}

func searchVerses(ctx context.Context, s Searcher, translation, query string) tea.Cmd {
	return func() tea.Msg {
		resp, err := s.SearchVerses(ctx, translation, query, searchLimit)
		if err != nil {
			return errMsg{fmt.Errorf("search %q: %w", query, err)}
		}
		return searchResultsMsg{query: query, total: resp.Total, verses: resp.Results}
	}
}

func compareVerses(ctx context.Context, c Comparer, req api.ParallelRequest) tea.Cmd {
	return func() tea.Msg {
		verses, err := c.GetParallelVerses(ctx, req)
		if err != nil {
			return errMsg{fmt.Errorf("comparing translations: %w", err)}
		}
		return comparisonMsg{translations: req.Translations, verses: verses}
	}
}

func (m *Model) openInput(mode viewMode, placeholder string) tea.Cmd {
	m.mode = mode
	m.err = nil
	m.input.Reset()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

// updateInput handles the reference and search prompts.
func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "ctrl+c":
		return tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.input.Blur()
		m.mode = modeReader
		return nil
	case key.Matches(msg, m.keys.Select):
		value := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		mode := m.mode
		m.mode = modeReader
		if value == "" {
			return nil
		}
		if mode == modeSearch {
			m.loading = true
			return searchVerses(m.ctx, m.searcher, m.ctrl.State().Selection.Translation, value)
		}
		m.gotoReference(value)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) gotoReference(input string) {
	if m.reader == nil {
		m.err = fmt.Errorf("%q: book list not loaded yet", input)
		return
	}
	ref, err := m.reader.ParseReference(input)
	if err != nil {
		m.err = err
		return
	}
	m.jumpTo(ref.Book.Index, ref.Chapter, ref.Verse)
}

func (m Model) resultItems(verses []api.Verse) []list.Item {
	items := make([]list.Item, 0, len(verses))
	for _, v := range verses {
		name := fmt.Sprintf("Book %d", v.Book)
		if m.reader != nil {
			if b, err := m.reader.ByID(v.Book); err == nil {
				name = b.Name
			}
		}
		items = append(items, resultItem{verse: v, bookName: name})
	}
	return items
}

// startComparison asks for the chapter on screen in every known translation.
func (m *Model) startComparison(sel state.Selection) tea.Cmd {
	if m.comparer == nil {
		m.err = errCompareUnavailable
		return nil
	}
	if len(m.verses) == 0 || m.shown != sel {
		return nil
	}

	translations := append([]string(nil), m.translations...)
	if !contains(translations, sel.Translation) {
		translations = append([]string{sel.Translation}, translations...)
	}
	verses := make([]int, len(m.verses))
	for i := range verses {
		verses[i] = i + 1
	}

	m.mode = modeCompare
	m.comparison = ""
	m.loading = true
	m.viewport.SetContent("")
	return compareVerses(m.ctx, m.comparer, api.ParallelRequest{
		Translations: translations,
		Book:         m.book.ID,
		Chapter:      displayedChapter(m.book, sel.Chapter),
		Verses:       verses,
	})
}

func (m *Model) handleCompareKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Compare):
		m.mode = modeReader
		m.comparison = ""
		m.loading = false
		m.render()
		m.viewport.GotoTop()
		return nil, true
	}
	return nil, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// formatComparison lists every verse once per translation, in the order
// translations were requested.
func formatComparison(translations []string, verses map[string][]api.Verse, width int, styles theme.Styles) string {
	byVerse := make(map[int]map[string]string)
	last := 0
	for tr, vs := range verses {
		for _, v := range vs {
			if byVerse[v.Verse] == nil {
				byVerse[v.Verse] = make(map[string]string)
			}
			byVerse[v.Verse][tr] = bible.CleanVerse(v.Text)
			last = max(last, v.Verse)
		}
	}

	label := 0
	for _, tr := range translations {
		label = max(label, len(tr))
	}

	var b strings.Builder
	for n := 1; n <= last; n++ {
		texts, ok := byVerse[n]
		if !ok {
			continue
		}
		b.WriteString("  ")
		b.WriteString(styles.VerseNum.Render(fmt.Sprintf("%d", n)))
		b.WriteString("\n")
		for _, tr := range translations {
			text, ok := texts[tr]
			if !ok {
				continue
			}
			prefix := fmt.Sprintf("%-*s ", label, tr)
			indent := strings.Repeat(" ", len(prefix))
			for j, line := range strings.Split(wordwrap.String(text, width-len(prefix)), "\n") {
				b.WriteString("  ")
				if j == 0 {
					b.WriteString(styles.Help.Render(prefix))
				} else {
					b.WriteString(indent)
				}
				b.WriteString(styles.Text.Render(line))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
