// Package fetcher retrieves open-data resources over HTTP with per-attempt
// progress display, exponential-backoff retries, and records extraction.
package fetcher

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dharti-cli/internal/table"
)

// Fetcher defines the interface for retrieving a remote record set.
type Fetcher interface {
	// FetchRecords performs up to req.Retries GET attempts and returns the
	// records array of the first successful response.
	FetchRecords(ctx context.Context, req Request) (*Result, error)
}

// Request describes one fetch. It is immutable once built.
type Request struct {
	// URL is the fully-formed request URL, query string included.
	URL string
	// Topic is the human-readable label used in progress and error output.
	Topic string
	// Retries is the total number of attempts. Must be at least 1.
	Retries int
	// BackoffFactor is the exponential base for waits between attempts:
	// attempt i (0-based) is followed by BackoffFactor^i seconds.
	BackoffFactor float64
}

// Validate checks the request before any network activity.
func (r Request) Validate() error {
	if r.URL == "" {
		return eris.New("fetcher: request URL is required")
	}
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return eris.Errorf("fetcher: invalid request URL %s", RedactURL(r.URL))
	}
	if r.Retries < 1 {
		return eris.Errorf("fetcher: retries must be at least 1, got %d", r.Retries)
	}
	if r.BackoffFactor < 1 {
		return eris.Errorf("fetcher: backoff factor must be at least 1, got %g", r.BackoffFactor)
	}
	return nil
}

// Result is a successful fetch: the records in response order plus the
// column order advertised by the response, if any.
type Result struct {
	FetchID  string
	Records  []table.Record
	Fields   []string
	Attempts int
}

// Table converts the result to a table, honoring the advertised field order.
func (r *Result) Table() *table.Table {
	return table.FromRecords(r.Records, r.Fields)
}

// ExhaustedError is returned when every attempt failed. Err is the cause of
// the final attempt.
type ExhaustedError struct {
	Topic    string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed to fetch %s data after %d attempts: %v", e.Topic, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
