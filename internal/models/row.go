package models

import "strconv"

// Decision label codes for the encoded decision column.
const (
	LabelUpheld          = 0
	LabelNotUpheld       = 1
	LabelPartiallyUpheld = 2
)

// Raw decision categories as scraped from the search index.
const (
	DecisionUpheld          = "Upheld"
	DecisionNotUpheld       = "Not upheld"
	DecisionPartiallyUpheld = "Partially upheld"
)

// labelMap encodes the three known raw categories.
var labelMap = map[string]int{
	DecisionUpheld:          LabelUpheld,
	DecisionNotUpheld:       LabelNotUpheld,
	DecisionPartiallyUpheld: LabelPartiallyUpheld,
}

// EncodeDecision maps a raw decision category to its label code. The second
// return value is false for categories outside the three known ones (for
// example "withdrawn"); such rows keep an empty label in the raw table and
// are dropped by the validated-dataset filter.
func EncodeDecision(raw string) (int, bool) {
	label, ok := labelMap[raw]

	return label, ok
}

// DatasetRow is the join of a DocumentRecord and its extracted Sections,
// with the decision label already encoded. Rows are append-only.
type DatasetRow struct {
	DecisionID string
	Date       string
	Company    string
	Product    string
	Label      *int
	Sections   *Sections
}

// DatasetColumns is the fixed column order of the output table.
var DatasetColumns = []string{
	"decision_id",
	"date",
	"company",
	"product",
	"decision_label",
	"complaint",
	"what_happened",
	"provisional_decision",
	"decided_and_why",
	"final_decision",
}

// ToCSVRow returns the row's fields in DatasetColumns order. Nil sections and
// an unmapped label serialize as empty cells.
func (r *DatasetRow) ToCSVRow() []string {
	label := ""
	if r.Label != nil {
		label = strconv.Itoa(*r.Label)
	}

	return []string{
		r.DecisionID,
		r.Date,
		r.Company,
		r.Product,
		label,
		deref(r.Sections.Complaint),
		deref(r.Sections.WhatHappened),
		deref(r.Sections.ProvisionalDecision),
		deref(r.Sections.DecidedAndWhy),
		deref(r.Sections.FinalDecision),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
