package extract

import (
	"errors"
	"strings"
)

// Section extraction errors. A document that trips any of these is malformed
// for the extractor's purposes and is excluded from the batch output; it
// never aborts the run.
var (
	ErrTooFewMarkers          = errors.New("at least two heading markers are required")
	ErrDocumentTooShort       = errors.New("document too short to locate the end boundary")
	ErrFirstHeadingNotFound   = errors.New("first heading marker not found")
	ErrTooManyMissingHeadings = errors.New("more than one interior heading marker not found")
	ErrSectionCountMismatch   = errors.New("unexpected section count")
)

// DefaultMarkers are the heading markers of the decision-report template, in
// document order. The final entry is a sentinel: its textual match is ignored
// in favor of a computed near-end offset, because the word appears in footer
// boilerplate too. The "provisional" marker is the only one a well-formed
// document may omit.
var DefaultMarkers = []string{
	"The complaint",
	"What happened",
	"provisional",
	"What Ive decided - and why",
	"My final decision",
	"Ombudsman",
}

// sentinelOffset is the forced distance of the end boundary from the last
// line of the document.
const sentinelOffset = 2

// Segmenter partitions normalized document text into the spans between an
// ordered list of heading markers.
type Segmenter struct {
	markers []string
}

// NewSegmenter creates a segmenter for the given markers, the last of which
// is treated as the end-of-content sentinel. With no arguments the default
// decision-report markers are used.
func NewSegmenter(markers ...string) *Segmenter {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}

	return &Segmenter{markers: markers}
}

// Split locates each marker's first containing line and returns the K-1 spans
// between consecutive markers, joined with single spaces. A missing interior
// marker yields a nil span in its position, with the preceding span extended
// to bridge the gap. At most one interior marker may be missing; a missing
// first marker or a document too short to carry the end boundary fails the
// whole document.
func (s *Segmenter) Split(text string) ([]*string, error) {
	if len(s.markers) < 2 {
		return nil, ErrTooFewMarkers
	}

	// A terminating newline must not add a phantom empty line, or the end
	// boundary would sit one line past the last real one.
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	end := len(lines) - sentinelOffset
	if end < 0 {
		return nil, ErrDocumentTooShort
	}

	indices := make([]int, len(s.markers))
	for i, marker := range s.markers {
		indices[i] = firstLineContaining(lines, marker)
	}

	if indices[0] == -1 {
		return nil, ErrFirstHeadingNotFound
	}

	// The sentinel's literal match is not trusted: the true end of usable
	// content is a fixed offset from the last line.
	indices[len(indices)-1] = end

	missing := 0
	for _, idx := range indices[1 : len(indices)-1] {
		if idx == -1 {
			missing++
		}
	}

	if missing > 1 {
		return nil, ErrTooManyMissingHeadings
	}

	spans := make([]*string, 0, len(s.markers)-1)

	for i := 1; i < len(indices); i++ {
		switch {
		case indices[i] == -1:
			// Closed out when the next marker bridges the gap.
		case indices[i-1] == -1:
			spans = append(spans, joinLines(lines, indices[i-2], indices[i]), nil)
		default:
			spans = append(spans, joinLines(lines, indices[i-1], indices[i]))
		}
	}

	if len(spans) != len(s.markers)-1 {
		return nil, ErrSectionCountMismatch
	}

	return spans, nil
}

// firstLineContaining returns the index of the first line containing marker
// as a case-sensitive substring, or -1.
func firstLineContaining(lines []string, marker string) int {
	for i, line := range lines {
		if strings.Contains(line, marker) {
			return i
		}
	}

	return -1
}

// joinLines joins lines (start, end] exclusive of the start boundary line,
// with single spaces. Inverted boundaries yield an empty span.
func joinLines(lines []string, start, end int) *string {
	if start+1 > end {
		empty := ""

		return &empty
	}

	joined := strings.Join(lines[start+1:end], " ")

	return &joined
}
