// Package models defines data structures for the harvester and ingestion pipeline.
package models

// DocumentRecord represents one decision document discovered via search.
// Records are immutable once written to the metadata table.
type DocumentRecord struct {
	DecisionID string `json:"decisionId"`
	Location   string `json:"location"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Company    string `json:"company"`
	Product    string `json:"product"`
	Decision   string `json:"decision"`
	Extras     string `json:"extras"`
	Tag        string `json:"tag"`
}

// MetadataColumns is the column order of the metadata table.
var MetadataColumns = []string{
	"decision_id",
	"location",
	"title",
	"date",
	"company",
	"product",
	"decision",
	"extras",
	"tag",
}

// ToCSVRow returns the record's fields in MetadataColumns order.
func (r *DocumentRecord) ToCSVRow() []string {
	return []string{
		r.DecisionID,
		r.Location,
		r.Title,
		r.Date,
		r.Company,
		r.Product,
		r.Decision,
		r.Extras,
		r.Tag,
	}
}
