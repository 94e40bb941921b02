package htmldoc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`[ \t\r\n]+`)
	// sentenceBoundary matches a punctuation mark directly followed by
	// a letter, e.g. "sentence.Second" — but NOT a digit, so "Item
	// 2.02" never gets a space inserted into "2.02" (§6, §8).
	sentenceBoundary = regexp.MustCompile(`([.!?,;:])([A-Za-z])`)
)

// NormalizeText collapses whitespace runs and inserts a space after
// . ! ? , ; or : only when immediately followed by a
// letter — never a digit, so multi-part item numbers like "Item 2.02"
// survive unchanged (the regression §8 calls out explicitly).
func NormalizeText(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = sentenceBoundary.ReplaceAllString(s, "$1 $2")
	return strings.TrimSpace(s)
}
