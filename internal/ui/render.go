package ui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"simple-bible/internal/bible"
	"simple-bible/internal/theme"
)

const (
	baseTextWidth = 60
	minTextWidth  = 20
	textMargin    = 6
)

// textWidth maps the zoom factor to a wrap column. A terminal cannot change
// its font size, so zooming in narrows the column and zooming out widens it.
func textWidth(zoom float64, viewWidth int) int {
	if zoom <= 0 {
		zoom = 1
	}
	width := int(baseTextWidth / zoom)
	if max := viewWidth - textMargin; max > 0 && width > max {
		width = max
	}
	if width < minTextWidth {
		width = minTextWidth
	}
	return width
}

// displayedChapter is the chapter a provider serves for chapter.
func displayedChapter(book bible.BookDetails, chapter int) int {
	if chapter < 1 || chapter > book.Chapters {
		return 1
	}
	return chapter
}

// formatChapter wraps verses to width and numbers them. It also returns
// the line each verse starts on. Verse highlight (1-based, 0 for none) is
// drawn with the selection style.
func formatChapter(verses []string, width int, styles theme.Styles, highlight int) (string, []int) {
	if len(verses) == 0 {
		return "", nil
	}

	var b strings.Builder
	offsets := make([]int, len(verses))
	line := 0
	for i, text := range verses {
		offsets[i] = line
		num := fmt.Sprintf("%d ", i+1)
		wrapped := wordwrap.String(text, width-len(num))
		indent := strings.Repeat(" ", len(num))
		textStyle := styles.Text
		if i+1 == highlight {
			textStyle = styles.Selected
		}

		for j, l := range strings.Split(wrapped, "\n") {
			if j == 0 {
				b.WriteString("  ")
				b.WriteString(styles.VerseNum.Render(num))
			} else {
				b.WriteString("  ")
				b.WriteString(indent)
			}
			b.WriteString(textStyle.Render(l))
			b.WriteString("\n")
			line++
		}
		b.WriteString("\n")
		line++
	}
	return b.String(), offsets
}
