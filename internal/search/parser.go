// Package search implements the metadata source: paginated querying of the
// ombudsman decision index and parsing of its search result pages into
// DocumentRecords.
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fosdata/internal/models"
	"fosdata/internal/nlp"
	"fosdata/pkg/drn"
	"fosdata/pkg/utils"
)

// Search result parsing errors.
var (
	ErrNoResultsList        = errors.New("no search results list found in page")
	ErrEntryMissingAnchor   = errors.New("result entry has no anchor")
	ErrEntryMissingLocation = errors.New("result entry anchor has no href")
	ErrEntryShortMetadata   = errors.New("result entry metadata has fewer than three fields")
)

// Parser extracts DocumentRecords from search result HTML.
type Parser struct {
	products nlp.ProductExtractor
}

// NewParser creates a parser using the given product extractor.
func NewParser(products nlp.ProductExtractor) *Parser {
	return &Parser{products: products}
}

// ParsePage parses one search result page. A page with a results list but no
// entries returns an empty slice; that is how pagination terminates. Records
// that parsed cleanly are returned even when other entries on the page fail;
// the joined per-entry errors come back alongside them.
func (p *Parser) ParsePage(html string) ([]*models.DocumentRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page HTML: %w", err)
	}

	list := doc.Find("div.search-results-holder ul.search-results")
	if list.Length() == 0 {
		return nil, ErrNoResultsList
	}

	var records []*models.DocumentRecord

	var entryErr error

	list.Find("li").Each(func(i int, s *goquery.Selection) {
		record, err := p.parseEntry(s)
		if err != nil {
			entryErr = errors.Join(entryErr, fmt.Errorf("entry %d: %w", i, err))

			return
		}

		records = append(records, record)
	})

	return records, entryErr
}

// parseEntry converts one result list item into a DocumentRecord. The
// info-main block carries date, company and decision on separate lines, with
// any further lines collapsed into extras.
func (p *Parser) parseEntry(s *goquery.Selection) (*models.DocumentRecord, error) {
	anchor := s.Find("a").First()
	if anchor.Length() == 0 {
		return nil, ErrEntryMissingAnchor
	}

	location, ok := anchor.Attr("href")
	if !ok || location == "" {
		return nil, ErrEntryMissingLocation
	}

	title := utils.NormalizeWhitespace(anchor.Find("h4").Text())
	tag := strings.TrimSpace(anchor.Find("span.search-result__tag").Text())
	description := anchor.Find("div.search-result__desc").Text()

	fields := utils.CleanLines(anchor.Find("div.search-result__info-main").Text())
	if len(fields) < 3 {
		return nil, ErrEntryShortMetadata
	}

	return &models.DocumentRecord{
		DecisionID: drn.FromLocation(location),
		Location:   location,
		Title:      title,
		Date:       fields[0],
		Company:    fields[1],
		Product:    p.products.ExtractProduct(description),
		Decision:   fields[2],
		Extras:     strings.Join(fields[3:], ","),
		Tag:        tag,
	}, nil
}
