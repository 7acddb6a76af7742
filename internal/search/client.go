package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"fosdata/internal/logger"
	"fosdata/internal/models"
	"fosdata/pkg/utils"
)

// SectorIDs maps industry sector slugs to the index's numeric IDs.
var SectorIDs = map[string]int{
	"banking-credit-mortgages":              1,
	"investment-pensions":                   2,
	"insurance":                             3,
	"payment-protection-insurance":          4,
	"claims-management-ombudsman-decisions": 5,
	"funeral-plans":                         6,
}

// defaultPageSize is the number of entries the index returns per page.
const defaultPageSize = 10

// maxOffset bounds pagination in case the index never returns an empty page.
const maxOffset = 1_000_000

// maxConsecutiveFailures aborts the search when successive pages keep
// failing; a broken session would otherwise walk the whole offset range.
const maxConsecutiveFailures = 3

// Query holds the search filters.
type Query struct {
	Keyword string
	From    time.Time
	To      time.Time
	Upheld  *bool
	Sectors []string
}

// Client pages through the decision index, emitting one DocumentRecord per
// result entry.
type Client struct {
	http       *resty.Client
	parser     *Parser
	log        *logger.Logger
	baseURL    string
	pageSize   int
	retryDelay time.Duration
}

// NewClient creates a search client. retryDelay is the fixed wait before
// re-attempting a failed page fetch.
func NewClient(baseURL string, parser *Parser, log *logger.Logger, retryDelay time.Duration) *Client {
	http := resty.New().
		SetTimeout(30 * time.Second).
		SetHeaders(utils.BuildHeaders(nil))

	return &Client{
		http:       http,
		parser:     parser,
		log:        log,
		baseURL:    baseURL,
		pageSize:   defaultPageSize,
		retryDelay: retryDelay,
	}
}

// Search pages through results for the query, calling fn for every record in
// index order, until the first empty page. A page that still fails after one
// fixed-delay re-attempt is skipped; pagination continues with the next
// offset. Returns the number of records emitted.
func (c *Client) Search(ctx context.Context, query Query, fn func(*models.DocumentRecord) error) (int, error) {
	params := c.buildParams(query)

	total := 0
	failures := 0

	for start := 0; start < maxOffset; start += c.pageSize {
		params.Set("Start", strconv.Itoa(start))

		records, err := c.fetchPage(ctx, params)
		if err != nil {
			failures++
			if failures >= maxConsecutiveFailures {
				return total, fmt.Errorf("giving up after %d consecutive page failures: %w", failures, err)
			}

			c.log.Warn("search page failed, skipping", "start", start, "error", err)

			continue
		}

		failures = 0

		if len(records) == 0 {
			c.log.Info("finished scraping", "start", start)

			break
		}

		c.log.Info("scraped entries", "count", len(records), "start", start)

		for _, record := range records {
			if err := fn(record); err != nil {
				return total, err
			}

			total++
		}
	}

	return total, nil
}

// fetchPage gets and parses one result page, re-attempting once after the
// fixed delay on transport or status failure. A page whose entries partially
// fail to parse still yields its clean records; the page itself only fails
// when nothing on it was salvageable.
func (c *Client) fetchPage(ctx context.Context, params url.Values) ([]*models.DocumentRecord, error) {
	var records []*models.DocumentRecord

	backoff := retry.WithMaxRetries(1, retry.NewConstant(c.retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParamsFromValues(params).
			Get(c.baseURL)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("search request failed: %w", err))
		}

		if resp.IsError() {
			return retry.RetryableError(fmt.Errorf("search request returned status %d", resp.StatusCode()))
		}

		records, err = c.parser.ParsePage(resp.String())
		if err != nil {
			// Parse failures are not transient; do not burn a retry on them.
			// Entries that parsed cleanly despite malformed siblings are kept.
			if len(records) == 0 {
				return err
			}

			c.log.Warn("dropping malformed result entries", "kept", len(records), "error", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// buildParams translates the query into the index's parameter scheme.
func (c *Client) buildParams(query Query) url.Values {
	params := url.Values{}
	params.Set("Sort", "date")

	sectors := query.Sectors
	if len(sectors) == 0 {
		for slug := range SectorIDs {
			sectors = append(sectors, slug)
		}
	}

	for _, slug := range sectors {
		if id, ok := SectorIDs[slug]; ok {
			params.Set(fmt.Sprintf("IndustrySectorID[%d]", id), strconv.Itoa(id))
		}
	}

	switch {
	case query.Upheld == nil:
		params.Set("IsUpheld[0]", "0")
		params.Set("IsUpheld[1]", "1")
	case *query.Upheld:
		params.Set("IsUpheld[1]", "1")
	default:
		params.Set("IsUpheld[0]", "0")
	}

	params.Set("DateFrom", query.From.Format("2006-01-02"))
	params.Set("DateTo", query.To.Format("2006-01-02"))

	if query.Keyword != "" {
		params.Set("Keyword", query.Keyword)
	}

	return params
}
