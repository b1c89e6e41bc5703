package bible

import (
	"regexp"
	"strings"
)

var (
	strongsRe  = regexp.MustCompile(`<S>\d+</S>`)
	footnoteRe = regexp.MustCompile(`(?s)<sup>.*?</sup>`)
	tagRe      = regexp.MustCompile(`<[^>]*>`)
)

// CleanVerse strips markup from verse text: Strong's numbers and footnotes
// are dropped with their content, other tags are removed, and whitespace is
// collapsed.
func CleanVerse(s string) string {
	s = strongsRe.ReplaceAllString(s, "")
	s = footnoteRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "<br/>", " ")
	s = tagRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
