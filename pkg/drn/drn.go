// Package drn provides helpers for decision reference numbers, the
// identifiers decision documents are keyed by.
package drn

import (
	"path"
	"regexp"
	"strings"
)

// Pattern matches a decision reference number anywhere in a string. Reference
// numbers carry a DRN prefix followed by digits, with or without a hyphen.
var Pattern = regexp.MustCompile(`DRN-?\d+`)

// IsValid reports whether id contains a decision reference number.
func IsValid(id string) bool {
	return Pattern.MatchString(id)
}

// FromLocation derives the decision ID from a document's storage location:
// the final path element without its extension.
func FromLocation(location string) string {
	base := path.Base(location)

	return strings.TrimSuffix(base, path.Ext(base))
}
