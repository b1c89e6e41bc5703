// Package state owns the reader's UI state: which translation, book and
// chapter are selected and how large the text is drawn. The Controller is the
// only writer; every change is persisted in the background and published to
// subscribers.
package state

import (
	"errors"
	"time"
)

const (
	// DefaultTranslation is selected on first start and after a reset.
	DefaultTranslation = "KJV"

	// DefaultFontSize is the fixed base size the zoom multiplies.
	DefaultFontSize = 16.0

	// LowerLimit and UpperLimit bound zoom as an open interval.
	LowerLimit = 0.5
	UpperLimit = 3.0
)

// ErrNotSet is returned by Preferences getters for a slot that was never saved.
var ErrNotSet = errors.New("preference not set")

// Selection identifies what is being read.
type Selection struct {
	Translation string
	BookIndex   int
	Chapter     int
}

// WithTranslation returns a copy of s reading translation.
func (s Selection) WithTranslation(translation string) Selection {
	s.Translation = translation
	return s
}

// WithBookIndex returns a copy of s positioned on book index.
func (s Selection) WithBookIndex(index int) Selection {
	s.BookIndex = index
	return s
}

// WithChapter returns a copy of s positioned on chapter.
func (s Selection) WithChapter(chapter int) Selection {
	s.Chapter = chapter
	return s
}

// DisplayConfig controls text size.
type DisplayConfig struct {
	FontSize float64
	Zoom     float64
}

// ZoomAllowed reports whether zoom lies strictly inside (LowerLimit, UpperLimit).
func ZoomAllowed(zoom float64) bool {
	return zoom > LowerLimit && zoom < UpperLimit
}

// UiState is the complete state observed by the UI.
type UiState struct {
	Selection Selection
	Display   DisplayConfig
}

// NewUiState returns the start-up state for translation.
func NewUiState(translation string) UiState {
	return UiState{
		Selection: Selection{Translation: translation, BookIndex: 0, Chapter: 1},
		Display:   DisplayConfig{FontSize: DefaultFontSize, Zoom: 1.0},
	}
}

// HistoryRecord is one entry of the reading history.
type HistoryRecord struct {
	ID        string
	Seq       int64
	Selection Selection
	CreatedAt time.Time
}

// Selections projects records onto their selections, keeping order.
func Selections(records []HistoryRecord) []Selection {
	out := make([]Selection, len(records))
	for i, r := range records {
		out[i] = r.Selection
	}
	return out
}
