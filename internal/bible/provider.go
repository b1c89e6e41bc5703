// Package bible serves book metadata and chapter text for one translation.
package bible

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"simple-bible/internal/api"
)

var (
	// ErrUnknownBook is returned for a book name or index the translation lacks.
	ErrUnknownBook = errors.New("unknown book")

	// ErrNoVerses is returned when the source has no text for a chapter.
	ErrNoVerses = errors.New("no verses")
)

// BookDetails describes one book of a translation.
type BookDetails struct {
	Index    int // zero-based position in BookNames
	ID       int // book number used by the text source
	Name     string
	Chapters int
}

// Provider is read-only access to one translation.
type Provider interface {
	// BookNames returns display names; position i is book index i.
	BookNames() []string
	// ChapterCount and ChapterCountAt agree for the same book.
	ChapterCount(name string) (int, error)
	ChapterCountAt(index int) (int, error)
	Book(index int) (BookDetails, error)
	// Chapter returns one string per verse. A chapter outside
	// [1, book.Chapters] yields chapter 1.
	Chapter(ctx context.Context, book BookDetails, chapter int) ([]string, error)
	// Language returns the translation tag.
	Language() string
}

// VerseSource fetches raw verses, e.g. *api.Client or *cache.Cache.
type VerseSource interface {
	GetChapter(ctx context.Context, translation string, book, chapter int) ([]api.Verse, error)
}

var _ Provider = (*Reader)(nil)

// Reader is a Provider over a book list and a VerseSource.
type Reader struct {
	translation string
	books       []BookDetails
	byName      map[string]int
	src         VerseSource
}

// NewReader builds a Reader. Book indices are reassigned from list order.
func NewReader(translation string, books []BookDetails, src VerseSource) *Reader {
	r := &Reader{
		translation: translation,
		books:       make([]BookDetails, len(books)),
		byName:      make(map[string]int, len(books)),
		src:         src,
	}
	for i, b := range books {
		b.Index = i
		r.books[i] = b
		r.byName[strings.ToLower(b.Name)] = i
	}
	return r
}

// Load builds a Reader for translation using the catalog's book list.
func Load(ctx context.Context, catalog *Catalog, src VerseSource, translation string) (*Reader, error) {
	books, err := catalog.Books(ctx, translation)
	if err != nil {
		return nil, err
	}
	return NewReader(translation, books, src), nil
}

func (r *Reader) Language() string {
	return r.translation
}

func (r *Reader) BookNames() []string {
	names := make([]string, len(r.books))
	for i, b := range r.books {
		names[i] = b.Name
	}
	return names
}

func (r *Reader) Book(index int) (BookDetails, error) {
	if index < 0 || index >= len(r.books) {
		return BookDetails{}, fmt.Errorf("book index %d: %w", index, ErrUnknownBook)
	}
	return r.books[index], nil
}

func (r *Reader) ChapterCount(name string) (int, error) {
	i, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownBook)
	}
	return r.books[i].Chapters, nil
}

func (r *Reader) ChapterCountAt(index int) (int, error) {
	b, err := r.Book(index)
	if err != nil {
		return 0, err
	}
	return b.Chapters, nil
}

// Find resolves a 1-based book number, a full name or an unambiguous name
// prefix ("gen", "1 cor").
func (r *Reader) Find(query string) (BookDetails, error) {
	query = strings.TrimSpace(query)
	if n, err := strconv.Atoi(query); err == nil {
		return r.Book(n - 1)
	}

	q := strings.ToLower(query)
	if i, ok := r.byName[q]; ok {
		return r.books[i], nil
	}
	var match []BookDetails
	for _, b := range r.books {
		if strings.HasPrefix(strings.ToLower(b.Name), q) {
			match = append(match, b)
		}
	}
	if len(match) != 1 {
		return BookDetails{}, fmt.Errorf("%q matches %d books: %w", query, len(match), ErrUnknownBook)
	}
	return match[0], nil
}

func (r *Reader) Chapter(ctx context.Context, book BookDetails, chapter int) ([]string, error) {
	if chapter < 1 || chapter > book.Chapters {
		chapter = 1
	}
	verses, err := r.src.GetChapter(ctx, r.translation, book.ID, chapter)
	if err != nil {
		return nil, fmt.Errorf("%s %s %d: %w", r.translation, book.Name, chapter, err)
	}
	if len(verses) == 0 {
		return nil, fmt.Errorf("%s %s %d: %w", r.translation, book.Name, chapter, ErrNoVerses)
	}

	text := make([]string, len(verses))
	for i, v := range verses {
		text[i] = CleanVerse(v.Text)
	}
	return text, nil
}
