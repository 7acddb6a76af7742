package models

// SectionNames are the named spans produced by the section extractor, in
// document order. Only ProvisionalDecision may legitimately be absent.
var SectionNames = []string{
	"complaint",
	"what_happened",
	"provisional_decision",
	"decided_and_why",
	"final_decision",
}

// Sections holds the text spans between consecutive heading markers for one
// document. A nil entry means the corresponding heading was absent. Sections
// are computed once per fetch, joined into a DatasetRow, then discarded.
type Sections struct {
	Complaint           *string
	WhatHappened        *string
	ProvisionalDecision *string
	DecidedAndWhy       *string
	FinalDecision       *string
}

// FromSpans builds Sections from the extractor's positional output.
// The slice must have exactly len(SectionNames) entries.
func FromSpans(spans []*string) *Sections {
	return &Sections{
		Complaint:           spans[0],
		WhatHappened:        spans[1],
		ProvisionalDecision: spans[2],
		DecidedAndWhy:       spans[3],
		FinalDecision:       spans[4],
	}
}
