package state

import "context"

// Preferences persists the last used selection and zoom. Each slot is
// independent; getters return ErrNotSet for a slot that was never saved.
type Preferences interface {
	SaveTranslation(ctx context.Context, translation string) error
	Translation(ctx context.Context) (string, error)

	SaveBookIndex(ctx context.Context, index int) error
	BookIndex(ctx context.Context) (int, error)

	SaveChapter(ctx context.Context, chapter int) error
	Chapter(ctx context.Context) (int, error)

	SaveZoom(ctx context.Context, zoom float64) error
	Zoom(ctx context.Context) (float64, error)
}

// HistoryLog is an append-only log of selections.
type HistoryLog interface {
	// Insert appends selection and returns the stored record.
	Insert(ctx context.Context, selection Selection) (HistoryRecord, error)

	// Watch streams the whole log in insertion order, starting with the
	// current contents and again after every insert. The channel is closed
	// once ctx is done.
	Watch(ctx context.Context) (<-chan []HistoryRecord, error)
}

// ChapterBounds reports how many chapters a book has in a translation.
type ChapterBounds interface {
	ChapterCount(translation string, bookIndex int) (int, error)
}
