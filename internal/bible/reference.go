package bible

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadReference is returned for input that is not a "<book> [chapter[:verse]]" reference.
var ErrBadReference = errors.New("bad reference")

// Reference points at a chapter and optionally a verse. Verse is 0 when the
// reference names a whole chapter.
type Reference struct {
	Book    BookDetails
	Chapter int
	Verse   int
}

func (r Reference) String() string {
	if r.Verse > 0 {
		return fmt.Sprintf("%s %d:%d", r.Book.Name, r.Chapter, r.Verse)
	}
	return fmt.Sprintf("%s %d", r.Book.Name, r.Chapter)
}

var referenceRe = regexp.MustCompile(`^(.+?)\s+(\d+)(?::(\d+))?$`)

// ParseReference resolves "john 3:16", "1 cor 13", "43 3:16" or a bare book
// name (chapter 1) against the books of r.
func (r *Reader) ParseReference(input string) (Reference, error) {
	input = strings.Join(strings.Fields(input), " ")
	if input == "" {
		return Reference{}, fmt.Errorf("empty reference: %w", ErrBadReference)
	}

	bookPart, chapter, verse := input, 1, 0
	if m := referenceRe.FindStringSubmatch(input); m != nil {
		bookPart = m[1]
		chapter, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			verse, _ = strconv.Atoi(m[3])
		}
	}

	book, err := r.Find(bookPart)
	if err != nil {
		return Reference{}, err
	}
	if chapter < 1 || chapter > book.Chapters {
		return Reference{}, fmt.Errorf("%s has %d chapters: %w", book.Name, book.Chapters, ErrBadReference)
	}
	return Reference{Book: book, Chapter: chapter, Verse: verse}, nil
}

// ByID returns the book the text source numbers id.
func (r *Reader) ByID(id int) (BookDetails, error) {
	for _, b := range r.books {
		if b.ID == id {
			return b, nil
		}
	}
	return BookDetails{}, fmt.Errorf("book id %d: %w", id, ErrUnknownBook)
}
