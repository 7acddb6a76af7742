package extract

import (
	"fmt"

	"fosdata/internal/models"
)

// Result is the extractor's output for one document.
type Result struct {
	Sections        *models.Sections
	PartiallyUpheld bool
}

// Extractor runs the full per-document chain: normalize, segment, classify.
type Extractor struct {
	segmenter *Segmenter
}

// NewExtractor creates an extractor using the default decision-report
// markers.
func NewExtractor() *Extractor {
	return &Extractor{segmenter: NewSegmenter()}
}

// NewExtractorWithSegmenter creates an extractor with an injected segmenter.
// The segmenter must produce exactly one span per named section.
func NewExtractorWithSegmenter(segmenter *Segmenter) *Extractor {
	return &Extractor{segmenter: segmenter}
}

// Extract normalizes raw document text, partitions it into the named
// sections, and derives the partial-upheld flag from the final section.
func (e *Extractor) Extract(text string) (*Result, error) {
	spans, err := e.segmenter.Split(Normalize(text))
	if err != nil {
		return nil, fmt.Errorf("section extraction failed: %w", err)
	}

	if len(spans) != len(models.SectionNames) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSectionCountMismatch, len(spans), len(models.SectionNames))
	}

	sections := models.FromSpans(spans)

	partial := false
	if sections.FinalDecision != nil {
		partial = PartiallyUpheld(*sections.FinalDecision)
	}

	return &Result{Sections: sections, PartiallyUpheld: partial}, nil
}
