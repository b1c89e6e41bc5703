package bible

import (
	"context"
	"sync"

	"simple-bible/internal/api"
	"simple-bible/internal/logger"
	"simple-bible/internal/state"
)

// BookLister fetches the book list of a translation, e.g. *api.Client.
type BookLister interface {
	GetBooks(ctx context.Context, translation string) ([]api.Book, error)
}

var _ state.ChapterBounds = (*Catalog)(nil)

// Catalog remembers the book list of every translation it was asked about.
// When a list cannot be fetched it falls back to the Protestant canon.
type Catalog struct {
	src BookLister

	mu    sync.Mutex
	books map[string][]BookDetails
}

// NewCatalog returns a catalog backed by src. A nil src serves the canon only.
func NewCatalog(src BookLister) *Catalog {
	return &Catalog{src: src, books: make(map[string][]BookDetails)}
}

// Books returns the books of translation in order. The lock is not held
// while fetching, so two callers may fetch the same list; the first one
// stored wins.
func (c *Catalog) Books(ctx context.Context, translation string) ([]BookDetails, error) {
	if books, ok := c.Peek(translation); ok {
		return books, nil
	}

	books := Canon()
	if c.src != nil {
		remote, err := c.src.GetBooks(ctx, translation)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("book list for %s: %v; using the standard canon", translation, err)
		case len(remote) > 0:
			books = fromAPI(remote)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if stored, ok := c.books[translation]; ok {
		return stored, nil
	}
	c.books[translation] = books
	return books, nil
}

// Peek returns the book list of translation if it was already fetched.
func (c *Catalog) Peek(translation string) ([]BookDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	books, ok := c.books[translation]
	return books, ok
}

func fromAPI(remote []api.Book) []BookDetails {
	books := make([]BookDetails, len(remote))
	for i, b := range remote {
		books[i] = BookDetails{Index: i, ID: b.BookID, Name: b.Name, Chapters: b.Chapters}
	}
	return books
}

// ChapterCount implements state.ChapterBounds. It never fetches: a translation
// whose book list has not been loaded yet is measured against the canon.
func (c *Catalog) ChapterCount(translation string, bookIndex int) (int, error) {
	books, ok := c.Peek(translation)
	if !ok {
		books = Canon()
	}
	return NewReader(translation, books, nil).ChapterCountAt(bookIndex)
}
