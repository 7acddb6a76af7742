// Package nlp provides the product-phrase extraction capability used to
// guess a product name from a search result's free-text description.
package nlp

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
)

// ProductExtractor guesses the product name mentioned in free text. An empty
// string means no guess.
type ProductExtractor interface {
	ExtractProduct(text string) string
}

// anchorWord is the noun the phrase scan anchors on.
const anchorWord = "insurance"

// closedClass lists the pronouns, determiners and common verbs that bound a
// product phrase on the left. Closed-class words stand in for part-of-speech
// tags here.
var closedClass = map[string]bool{
	"a": true, "an": true, "the": true,
	"my": true, "your": true, "his": true, "her": true, "its": true,
	"our": true, "their": true,
	"this": true, "that": true, "these": true, "those": true,
	"i": true, "he": true, "she": true, "it": true, "we": true, "they": true, "you": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"has": true, "have": true, "had": true,
	"took": true, "take": true, "takes": true, "taken": true,
	"bought": true, "buy": true, "buys": true,
	"held": true, "hold": true, "holds": true,
	"made": true, "make": true, "makes": true,
	"sold": true, "sell": true, "sells": true,
	"provided": true, "arranged": true, "cancelled": true, "declined": true,
}

// KeywordExtractor is the default ProductExtractor. It segments the text into
// words, finds the anchor noun, and scans leftward for the nearest
// closed-class token or possessive; the phrase in between is the guess. An
// anchor occurrence with nothing bounding it on the left is passed over in
// favor of any later occurrence.
type KeywordExtractor struct{}

// NewKeywordExtractor creates the default product extractor.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// ExtractProduct returns the best-guess product phrase preceding the word
// "insurance", or an empty string when there is no match.
func (e *KeywordExtractor) ExtractProduct(text string) string {
	tokens := tokenize(text)

	for i, token := range tokens {
		if token != anchorWord {
			continue
		}

		for j := i - 1; j >= 0; j-- {
			if !isBoundary(tokens[j]) {
				continue
			}

			phrase := strings.Join(tokens[j+1:i], " ")

			return strings.ReplaceAll(phrase, "’", "")
		}
		// No boundary left of this occurrence; a later one may still have one.
	}

	return ""
}

// tokenize splits text into word tokens, dropping whitespace and punctuation
// segments.
func tokenize(text string) []string {
	var tokens []string

	segments := words.FromString(text)
	for segments.Next() {
		token := strings.TrimSpace(segments.Value())
		if token == "" || !hasLetterOrDigit(token) {
			continue
		}

		tokens = append(tokens, token)
	}

	return tokens
}

func isBoundary(token string) bool {
	if closedClass[strings.ToLower(token)] {
		return true
	}

	// Possessives like "Mr B’s" also bound the phrase.
	return strings.Contains(token, "’s") || strings.Contains(token, "'s")
}

func hasLetterOrDigit(token string) bool {
	for _, r := range token {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') || r > 0x7f {
			return true
		}
	}

	return false
}
