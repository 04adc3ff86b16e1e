package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sells-group/dharti-cli/internal/config"
	"github.com/sells-group/dharti-cli/internal/dataset"
	"github.com/sells-group/dharti-cli/internal/fetcher"
	"github.com/sells-group/dharti-cli/internal/plot"
	"github.com/sells-group/dharti-cli/internal/predict"
)

// appEnv holds the components shared by the interactive menu and the
// subcommands.
type appEnv struct {
	Registry *dataset.Registry
	Store    *dataset.Store
	Engine   *dataset.Engine
	Renderer *plot.Renderer
}

// initEnv builds the store, fetcher, sync engine, and chart renderer from
// cfg. User-facing fetch output goes to out.
func initEnv(out io.Writer) (*appEnv, error) {
	store := dataset.NewStore(cfg.Data.APIPath(), cfg.Data.SavedPath())
	if err := store.Init(); err != nil {
		return nil, err
	}

	reg := dataset.NewRegistry()
	f := newFetcher(cfg, out)
	return &appEnv{
		Registry: reg,
		Store:    store,
		Engine:   dataset.NewEngine(f, store, reg, cfg.API, cfg.Fetch),
		Renderer: plot.NewRenderer(cfg.Plot),
	}, nil
}

// PredictParams returns the plastic waste and BOD projection parameters.
func (e *appEnv) PredictParams() (plastic, bod predict.Params) {
	return predict.ParamsFromConfig(cfg.Predict)
}

func newFetcher(c *config.Config, out io.Writer) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  c.API.UserAgent,
		Timeout:    c.API.Timeout(),
		RatePerSec: c.API.RatePerSec,
		MaxBackoff: time.Duration(c.Fetch.MaxBackoffSecs) * time.Second,
		Out:        out,
		Progress: fetcher.ProgressOptions{
			Enabled:  c.Fetch.Progress && isTerminal(out),
			Interval: time.Duration(c.Fetch.ProgressIntervalMs) * time.Millisecond,
			Step:     c.Fetch.ProgressStep,
		},
	})
}

// isTerminal reports whether w is an interactive terminal. The progress
// bar rewrites its line with carriage returns, which only makes sense there.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// resolveDataset looks up name and the cached file for the source flag.
func resolveDataset(ctx context.Context, env *appEnv, name, source string) (dataset.Dataset, string, error) {
	ds, err := env.Registry.Get(name)
	if err != nil {
		return nil, "", err
	}
	src, err := dataset.ParseSource(source)
	if err != nil {
		return nil, "", err
	}
	path, err := env.Store.Resolve(ctx, ds, src)
	if err != nil {
		return nil, "", err
	}
	return ds, path, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
