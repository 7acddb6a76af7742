// Package extract turns raw decision-document text into named sections and an
// outcome flag. The section locator matches literal substrings, so all text
// goes through Normalize first to fold typographic variants and encoding
// noise that would otherwise cause spurious heading-match misses.
package extract

import "strings"

// glyphFolds folds the typographic characters the decision template is known
// to contain. The right single quote is removed outright, not folded: the
// heading "What Ive decided - and why" only matches once the apostrophe in
// "I've" is gone.
var glyphFolds = strings.NewReplacer(
	"\uf0b7", "", // private-use bullet glyph from the PDF exporter
	"’", "", // right single quote / apostrophe
	"‘", "", // left single quote
	"–", "-", // en-dash
	"“", `"`, // left double quote
	"”", `"`, // right double quote
)

// Normalize cleans raw extracted document text before segmentation. Known
// typographic glyphs are folded to ASCII, and every residual rune outside the
// printable ASCII range becomes a single space to absorb bytes mangled by the
// source encoding. Newlines are preserved; the section locator works on
// lines. Normalize is idempotent.
func Normalize(text string) string {
	folded := glyphFolds.Replace(text)

	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}

		if r < 0x20 || r > 0x7e {
			return ' '
		}

		return r
	}, folded)
}
