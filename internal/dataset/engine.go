package dataset

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dharti-cli/internal/config"
	"github.com/sells-group/dharti-cli/internal/fetcher"
	"github.com/sells-group/dharti-cli/internal/table"
)

// SyncResult holds the outcome of fetching one dataset into the store.
type SyncResult struct {
	Dataset  string
	Path     string
	Rows     int
	FetchID  string
	Attempts int
	// Valid is false when the fetched file has no usable rows or no state
	// column; such a file must not be promoted.
	Valid bool
}

// Outcome pairs a dataset with the result of syncing it.
type Outcome struct {
	Dataset  Dataset
	Result   *SyncResult
	Promoted string // saved path when promoted
	Err      error
}

// RunOpts configures which datasets to sync and how.
type RunOpts struct {
	Datasets []string // restrict to specific dataset names
	Promote  bool     // copy each valid fetch over the saved copy
}

// Engine fetches datasets from the API into the flat-file store.
type Engine struct {
	fetcher fetcher.Fetcher
	store   *Store
	reg     *Registry
	api     config.APIConfig
	fetch   config.FetchConfig
}

// NewEngine creates a new sync engine.
func NewEngine(f fetcher.Fetcher, store *Store, reg *Registry, api config.APIConfig, fetch config.FetchConfig) *Engine {
	return &Engine{
		fetcher: f,
		store:   store,
		reg:     reg,
		api:     api,
		fetch:   fetch,
	}
}

// Store returns the engine's flat-file store.
func (e *Engine) Store() *Store {
	return e.store
}

// URL builds the resource URL for ds:
// <base>/resource/<id>?api-key=<key>&format=json&limit=<n>.
func (e *Engine) URL(ds Dataset) string {
	q := url.Values{}
	q.Set("api-key", e.api.Key)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(e.api.Limit))
	return strings.TrimRight(e.api.BaseURL, "/") + "/resource/" + ds.ResourceID() + "?" + q.Encode()
}

// Sync fetches ds and writes it to the API directory of the store.
func (e *Engine) Sync(ctx context.Context, ds Dataset) (*SyncResult, error) {
	log := zap.L().With(zap.String("component", "dataset.engine"), zap.String("dataset", ds.Name()))

	rawURL := e.URL(ds)
	start := time.Now()
	res, err := e.fetcher.FetchRecords(ctx, fetcher.Request{
		URL:           rawURL,
		Topic:         ds.Topic(),
		Retries:       e.fetch.Retries,
		BackoffFactor: e.fetch.BackoffFactor,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "engine: fetch %s", ds.Name())
	}

	t := res.Table()
	path, err := e.store.SaveFetched(ds, t, Manifest{
		FetchID:   res.FetchID,
		SourceURL: fetcher.RedactURL(rawURL),
		Attempts:  res.Attempts,
	})
	if err != nil {
		return nil, err
	}

	valid := table.Valid(ctx, path)
	if valid && !t.HasColumn(ds.StateColumn()) {
		log.Warn("fetched table lacks state column", zap.String("column", ds.StateColumn()))
		valid = false
	}
	log.Info("sync complete",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Bool("valid", valid),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &SyncResult{
		Dataset:  ds.Name(),
		Path:     path,
		Rows:     t.Len(),
		FetchID:  res.FetchID,
		Attempts: res.Attempts,
		Valid:    valid,
	}, nil
}

// Run syncs the selected datasets one after another. A failed dataset does
// not stop the others; the returned error reports how many failed.
func (e *Engine) Run(ctx context.Context, opts RunOpts) ([]Outcome, error) {
	log := zap.L().With(zap.String("component", "dataset.engine"))

	datasets, err := e.reg.Select(opts.Datasets)
	if err != nil {
		return nil, err
	}

	var outcomes []Outcome
	var synced, failed int
	for _, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return outcomes, eris.Wrap(err, "engine: run cancelled")
		}

		out := Outcome{Dataset: ds}
		out.Result, out.Err = e.Sync(ctx, ds)
		if out.Err == nil && opts.Promote {
			if out.Result.Valid {
				out.Promoted, out.Err = e.store.Promote(ctx, ds)
			} else {
				out.Err = eris.Errorf("engine: fetched %s data is empty or invalid, not promoted", ds.Topic())
			}
		}

		if out.Err != nil {
			log.Error("sync failed", zap.String("dataset", ds.Name()), zap.Error(out.Err))
			failed++
		} else {
			synced++
		}
		outcomes = append(outcomes, out)
	}

	log.Info("engine run complete",
		zap.Int("synced", synced),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		return outcomes, eris.Errorf("engine: %d of %d datasets failed", failed, len(datasets))
	}
	return outcomes, nil
}
