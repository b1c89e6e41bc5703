package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"simple-bible/internal/api"
	"simple-bible/internal/bible"
	"simple-bible/internal/state"
)

type bookItem struct {
	book bible.BookDetails
}

func (i bookItem) Title() string       { return i.book.Name }
func (i bookItem) Description() string { return fmt.Sprintf("%d chapters", i.book.Chapters) }
func (i bookItem) FilterValue() string { return i.book.Name }

type historyItem struct {
	selection state.Selection
	bookName  string
}

func (i historyItem) Title() string {
	return fmt.Sprintf("%s %d", i.bookName, i.selection.Chapter)
}
func (i historyItem) Description() string { return i.selection.Translation }
func (i historyItem) FilterValue() string { return i.Title() }

type resultItem struct {
	verse    api.Verse
	bookName string
}

func (i resultItem) Title() string {
	return fmt.Sprintf("%s %d:%d", i.bookName, i.verse.Chapter, i.verse.Verse)
}
func (i resultItem) Description() string { return bible.CleanVerse(i.verse.Text) }
func (i resultItem) FilterValue() string { return i.Title() + " " + i.Description() }

func bookItems(r *bible.Reader) []list.Item {
	names := r.BookNames()
	items := make([]list.Item, 0, len(names))
	for i := range names {
		b, err := r.Book(i)
		if err != nil {
			continue
		}
		items = append(items, bookItem{book: b})
	}
	return items
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.DisableQuitKeybindings()
	l.SetShowHelp(false)
	return l
}
