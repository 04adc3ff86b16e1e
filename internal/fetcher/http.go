package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/dharti-cli/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	// RatePerSec paces requests to the API host. Zero disables pacing.
	RatePerSec float64
	// MaxBackoff caps the wait between attempts. Zero means 5 minutes.
	MaxBackoff time.Duration
	Progress   ProgressOptions
	// Out receives user-facing status lines and the progress bar.
	Out io.Writer
	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// AdaptiveLimiter wraps a rate.Limiter with adaptive rate adjustment.
// On success it increases the rate by 20% (up to 2x initial).
// On 429 it halves the rate (down to initial/4 minimum).
type AdaptiveLimiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	initialRate rate.Limit
	currentRate rate.Limit
}

// NewAdaptiveLimiter creates an adaptive rate limiter. A non-positive rate
// yields a limiter that never blocks.
func NewAdaptiveLimiter(perSec float64) *AdaptiveLimiter {
	r := rate.Limit(perSec)
	if perSec <= 0 {
		r = rate.Inf
	}
	return &AdaptiveLimiter{
		limiter:     rate.NewLimiter(r, 1),
		initialRate: r,
		currentRate: r,
	}
}

// Wait blocks until the limiter allows an event.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// OnSuccess increases the rate by 20%, up to 2x initial.
func (a *AdaptiveLimiter) OnSuccess() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialRate == rate.Inf {
		return
	}
	a.currentRate = min(a.currentRate*1.2, a.initialRate*2)
	a.limiter.SetLimit(a.currentRate)
}

// OnRateLimit halves the rate after a 429 response.
func (a *AdaptiveLimiter) OnRateLimit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialRate == rate.Inf {
		return
	}
	a.currentRate = max(a.currentRate*0.5, a.initialRate/4)
	a.limiter.SetLimit(a.currentRate)
	zap.L().Warn("adaptive rate limit: reducing rate after 429",
		zap.Float64("new_rate", float64(a.currentRate)),
	)
}

// Limit returns the current rate limit.
func (a *AdaptiveLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentRate
}

// HTTPFetcher implements Fetcher using net/http, one GET per attempt.
type HTTPFetcher struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *AdaptiveLimiter

	// progress goroutines currently alive
	running atomic.Int64
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "dharti-cli/1.0"
	}
	if opts.MaxBackoff == 0 {
		opts.MaxBackoff = 5 * time.Minute
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:    opts,
		limiter: NewAdaptiveLimiter(opts.RatePerSec),
	}
}

// FetchRecords implements Fetcher.
func (f *HTTPFetcher) FetchRecords(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fetchID := uuid.NewString()
	log := zap.L().With(
		zap.String("component", "fetcher"),
		zap.String("topic", req.Topic),
		zap.String("fetch_id", fetchID),
	)
	fmt.Fprintf(f.opts.Out, "Initiating %s data fetch from %s...\n", req.Topic, hostOf(req.URL))

	cfg := resilience.FromFetchConfig(req.Retries, req.BackoffFactor, 0)
	cfg.MaxBackoff = f.opts.MaxBackoff
	cfg.ShouldRetry = resilience.RetryUnlessPermanent
	cfg.Sleep = f.opts.Sleep
	logRetry := resilience.RetryLogger(hostOf(req.URL), "fetch "+req.Topic)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		fmt.Fprintf(f.opts.Out, "Attempt %d failed: %v. Retrying in %s seconds...\n", attempt, err, formatSeconds(delay))
		logRetry(attempt, err, delay)
	}

	start := time.Now()
	attempts := 0
	res, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*Result, error) {
		attempts++
		return f.attempt(ctx, req, start, log.With(zap.Int("attempt", attempts)))
	})
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("fetch cancelled", zap.Int("attempts", attempts), zap.Error(err))
			return nil, eris.Wrapf(ctx.Err(), "fetcher: %s fetch cancelled after %d attempts", req.Topic, attempts)
		}
		fmt.Fprintf(f.opts.Out, "Failed to fetch %s data after %d attempts: %v\n", req.Topic, attempts, err)
		log.Error("fetch failed",
			zap.Int("attempts", attempts),
			zap.Bool("transient", resilience.IsTransient(err)),
			zap.Error(err),
		)
		return nil, &ExhaustedError{Topic: req.Topic, Attempts: attempts, Err: err}
	}

	res.FetchID = fetchID
	res.Attempts = attempts
	log.Info("fetch complete",
		zap.Int("records", len(res.Records)),
		zap.Int("attempts", attempts),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// attempt performs a single GET while the progress bar animates. The bar is
// stopped on every path before attempt returns.
func (f *HTTPFetcher) attempt(ctx context.Context, req Request, start time.Time, log *zap.Logger) (*Result, error) {
	prog := startProgress(ctx, f.opts.Out, f.opts.Progress, start, &f.running)
	defer prog.Stop()

	if err := f.limiter.Wait(ctx); err != nil {
		prog.Clear()
		return nil, eris.Wrap(err, "fetcher: rate limiter wait")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		prog.Clear()
		return nil, resilience.Permanent(eris.Wrap(err, "fetcher: create request"))
	}
	httpReq.Header.Set("User-Agent", f.opts.UserAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		prog.Clear()
		// url.Error repeats the full URL, api key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, eris.Wrapf(err, "fetcher: get %s", RedactURL(req.URL))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		prog.Clear()
		if resp.StatusCode == http.StatusTooManyRequests {
			f.limiter.OnRateLimit()
		}
		log.Debug("unexpected status", zap.Int("status", resp.StatusCode))
		statusErr := eris.Errorf("failed to fetch %s data: HTTP %d", req.Topic, resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		// Client errors are retried too, but are not reported as transient.
		return nil, statusErr
	}

	records, fields, err := DecodeRecords(resp.Body)
	if err != nil {
		prog.Clear()
		return nil, err
	}

	prog.Complete()
	f.limiter.OnSuccess()
	return &Result{Records: records, Fields: fields}, nil
}

// RedactURL returns rawURL with any api-key query value masked.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("api-key") {
		q.Set("api-key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
