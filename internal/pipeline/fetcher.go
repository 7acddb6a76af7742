// Package pipeline drives end-to-end dataset construction: bounded batches of
// metadata records are fetched, extracted, joined, appended to the output
// table, and cleaned up, so peak disk and memory usage stay bounded to one
// batch regardless of total dataset size.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"fosdata/internal/logger"
	"fosdata/internal/models"
	"fosdata/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Fetcher downloads decision documents into the batch directory. Fetching is
// idempotent: a file already present at the destination is a no-op success,
// which is what makes an interrupted run resumable. Transient failures get
// one re-attempt after a fixed delay, then the item is skipped for this run;
// a later run picks it up through the skip-if-exists check.
type Fetcher struct {
	http       *resty.Client
	log        *logger.Logger
	baseURL    string
	dir        string
	retryDelay time.Duration
}

// NewFetcher creates a fetcher that resolves record locations against
// baseURL and stores documents under dir.
func NewFetcher(baseURL, dir string, log *logger.Logger, retryDelay time.Duration) *Fetcher {
	http := resty.New().
		SetTimeout(60 * time.Second).
		SetHeaders(utils.BuildHeaders(nil))

	return &Fetcher{
		http:       http,
		log:        log,
		baseURL:    baseURL,
		dir:        dir,
		retryDelay: retryDelay,
	}
}

// Destination is the computed download path for a decision ID.
func (f *Fetcher) Destination(decisionID string) string {
	return filepath.Join(f.dir, decisionID+".pdf")
}

// Fetch downloads the record's document and returns the local path. If the
// destination file already exists the fetch is a no-op success.
func (f *Fetcher) Fetch(ctx context.Context, record *models.DocumentRecord) (string, error) {
	dest := f.Destination(record.DecisionID)

	if _, err := os.Stat(dest); err == nil {
		f.log.Debug("skipping fetch, file exists", "decision_id", record.DecisionID)

		return dest, nil
	}

	url := joinURL(f.baseURL, record.Location)
	backoff := retry.WithMaxRetries(1, retry.NewConstant(f.retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := f.http.R().
			SetContext(ctx).
			SetOutput(dest).
			Get(url)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("fetch failed: %w", err))
		}

		if resp.IsError() {
			statusErr := fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode())
			if isRetryableStatus(resp.StatusCode()) {
				return retry.RetryableError(statusErr)
			}

			return statusErr
		}

		return nil
	})
	if err != nil {
		// A failed attempt may leave a partial file behind; remove it so the
		// skip-if-exists check cannot mistake it for a completed download.
		_ = os.Remove(dest)

		return "", err
	}

	return dest, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusTooManyRequests: // 429
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}

// joinURL concatenates a base URL and a location path with exactly one slash.
func joinURL(base, location string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(location, "/")
}
