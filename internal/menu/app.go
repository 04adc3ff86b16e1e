// Package menu drives the interactive, numbered-menu session.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/dharti-cli/internal/dataset"
	"github.com/sells-group/dharti-cli/internal/fetcher"
	"github.com/sells-group/dharti-cli/internal/plot"
	"github.com/sells-group/dharti-cli/internal/predict"
	"github.com/sells-group/dharti-cli/internal/table"
)

// Syncer fetches a dataset into the API cache directory.
type Syncer interface {
	Sync(ctx context.Context, ds dataset.Dataset) (*dataset.SyncResult, error)
}

// Deps holds everything the menu needs.
type Deps struct {
	In       io.Reader
	Out      io.Writer
	Registry *dataset.Registry
	Store    *dataset.Store
	Syncer   Syncer
	Renderer *plot.Renderer
	Plastic  predict.Params
	BOD      predict.Params
	// DataSource is shown in the welcome banner.
	DataSource string
}

// App is one interactive session.
type App struct {
	out      io.Writer
	prompt   *Prompter
	reg      *dataset.Registry
	store    *dataset.Store
	syncer   Syncer
	renderer *plot.Renderer
	session  plot.Session
	plastic  predict.Params
	bod      predict.Params
	source   string
	log      *zap.Logger
}

// New creates a menu session.
func New(d Deps) *App {
	return &App{
		out:      d.Out,
		prompt:   NewPrompter(d.In, d.Out),
		reg:      d.Registry,
		store:    d.Store,
		syncer:   d.Syncer,
		renderer: d.Renderer,
		plastic:  d.Plastic,
		bod:      d.BOD,
		source:   d.DataSource,
		log:      zap.L().With(zap.String("component", "menu")),
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Run shows the main menu until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, Banner(a.source))

	err := a.mainLoop(ctx)
	if err == nil || errors.Is(err, io.EOF) {
		a.printf("\n🌱 Exiting DhartiMetrics. Goodbye! 🌱\n")
		return nil
	}
	return err
}

func (a *App) mainLoop(ctx context.Context) error {
	datasets := a.reg.All()
	choices := numbered(len(datasets))

	for {
		a.printf("\n🔍 Select a topic to explore:\n")
		for i, ds := range datasets {
			a.printf("  %d. %s\n", i+1, topicFor(ds).main)
		}
		a.printf("  0. Exit\n")
		a.printf("\n💡 Enter the number (e.g., %s):\n", strings.Join(choices, ", "))

		choice, err := a.prompt.Choice("> ", choices...)
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}
		idx, _ := strconv.Atoi(choice)
		if err := a.topicLoop(ctx, datasets[idx-1]); err != nil {
			return err
		}
	}
}

// numbered returns "1".."n" followed by "0".
func numbered(n int) []string {
	out := make([]string, 0, n+1)
	for i := 1; i <= n; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return append(out, "0")
}

func (a *App) topicLoop(ctx context.Context, ds dataset.Dataset) error {
	t := topicFor(ds)
	for {
		a.printf("\n🔍 %s Analysis Options:\n", ds.Topic())
		a.printf("  1. Fetch %s Data\n", ds.Topic())
		a.printf("  2. %s\n", t.predictItem)
		a.printf("  3. Plot Graphs\n")
		a.printf("  0. Back to Main Menu\n")
		a.printf("\n💡 Enter the number (e.g., 1, 2, 3, 0):\n")

		choice, err := a.prompt.Choice("> ", "1", "2", "3", "0")
		if err != nil {
			return err
		}

		switch choice {
		case "0":
			return nil
		case "1":
			err = a.fetch(ctx, ds)
		case "2":
			err = a.predict(ctx, ds)
		case "3":
			err = a.plot(ctx, ds)
		}
		if err != nil {
			return err
		}
	}
}

// fetch syncs ds and offers to promote the result. Fetch failures are
// reported and the menu continues; only input errors and cancellation end
// the session.
func (a *App) fetch(ctx context.Context, ds dataset.Dataset) error {
	res, err := a.syncer.Sync(ctx, ds)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.log.Warn("fetch failed", zap.String("dataset", ds.Name()), zap.Error(err))
		a.printf("❌ Failed to fetch %s data: %s\n\n", ds.Topic(), fetchFailure(err))
		return nil
	}
	a.printf("✅ Data fetched from data.gov.in API and saved to %s\n\n", res.Path)

	if !res.Valid {
		a.printf("❌ Fetched %s data at %s is empty or invalid. Cannot use this data.\n\n", ds.Topic(), res.Path)
		return nil
	}

	ok, err := a.prompt.Confirm(fmt.Sprintf("\n💡 Would you like to update the Saved %s Data with this newly fetched data? (y/n):", ds.Topic()))
	if err != nil || !ok {
		return err
	}
	saved, err := a.store.Promote(ctx, ds)
	if err != nil {
		a.printf("❌ Could not update Saved %s Data: %v\n\n", ds.Topic(), err)
		return nil
	}
	a.printf("✅ Saved %s Data updated with new data at %s\n\n", ds.Topic(), saved)
	return nil
}

// fetchFailure returns the message of the exhausted-retries error when
// there is one, so the user sees the final cause without wrapping noise.
func fetchFailure(err error) string {
	var exhausted *fetcher.ExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Error()
	}
	return err.Error()
}

// chooseFile asks for a data source and returns a usable cached file, or
// "" when the user cancels or the file cannot be used.
func (a *App) chooseFile(ctx context.Context, ds dataset.Dataset) (string, error) {
	a.printf("\n🔍 Choose data source for %s:\n", ds.Topic())
	a.printf("  1. %s\n", dataset.SourceAPI.Label())
	a.printf("  2. %s\n", dataset.SourceSaved.Label())
	a.printf("  0. Cancel\n")
	a.printf("\n💡 Enter the number (e.g., 1, 2, 0):\n")

	choice, err := a.prompt.Choice("> ", "1", "2", "0")
	if err != nil || choice == "0" {
		return "", err
	}
	src := dataset.SourceAPI
	if choice == "2" {
		src = dataset.SourceSaved
	}

	path, err := a.store.Resolve(ctx, ds, src)
	if err != nil {
		a.printf("❌ %s\n\n", fileProblem(err, a.store.Path(ds, src), ds.Topic()))
		return "", nil
	}
	return path, nil
}

func fileProblem(err error, path, topic string) string {
	switch {
	case errors.Is(err, table.ErrNotFound):
		return fmt.Sprintf("Data file not found at %s. Please fetch %s data first (Option 1).", path, topic)
	case errors.Is(err, table.ErrEmptyFile):
		return fmt.Sprintf("Data file at %s is empty. Please fetch %s data again (Option 1).", path, topic)
	case errors.Is(err, table.ErrNoRows):
		return fmt.Sprintf("Data file at %s contains no valid data. Please fetch %s data again (Option 1).", path, topic)
	default:
		return fmt.Sprintf("Error reading data from %s: %v. Please fetch %s data again (Option 1).", path, err, topic)
	}
}

func (a *App) predict(ctx context.Context, ds dataset.Dataset) error {
	path, err := a.chooseFile(ctx, ds)
	if err != nil || path == "" {
		return err
	}

	var states []string
	var params predict.Params
	var run func(state string, year int) (*predict.Prediction, error)

	switch ds.(type) {
	case *dataset.PlasticWaste:
		rows, err := dataset.LoadPlasticWaste(path)
		if err != nil {
			a.printf("❌ %s\n\n", fileProblem(err, path, ds.Topic()))
			return nil
		}
		states = dataset.States(rows, dataset.PlasticWasteState)
		params = a.plastic
		run = func(state string, year int) (*predict.Prediction, error) {
			return predict.PlasticWaste(rows, state, year, a.plastic)
		}
	case *dataset.Wastewater:
		rows, err := dataset.LoadWastewater(path)
		if err != nil {
			a.printf("❌ %s\n\n", fileProblem(err, path, ds.Topic()))
			return nil
		}
		states = dataset.States(rows, dataset.WastewaterState)
		params = a.bod
		run = func(state string, year int) (*predict.Prediction, error) {
			return predict.BODLoad(rows, state, year, a.bod)
		}
	default:
		a.printf("❌ Predictions are not available for %s.\n\n", ds.Topic())
		return nil
	}

	return a.predictLoop(topicFor(ds), states, params.BaseYear, run)
}

func (a *App) predictLoop(t topic, states []string, baseYear int, run func(string, int) (*predict.Prediction, error)) error {
	for {
		a.printf("\nAvailable %s: %s\n", t.statesNoun, strings.Join(states, ", "))
		state, err := a.prompt.Line(fmt.Sprintf("Enter %s name (e.g., %s): ", t.stateNoun, t.stateExample))
		if err != nil {
			return err
		}
		yearText, err := a.prompt.Line(fmt.Sprintf("Enter year to predict %s (e.g., 2025): ", t.predictNoun))
		if err != nil {
			return err
		}
		year, err := strconv.Atoi(yearText)
		if err != nil {
			a.printf("❌ Please enter a valid year (e.g., 2025).\n\n")
			continue
		}

		pred, err := run(state, year)
		switch {
		case errors.Is(err, predict.ErrNotFutureYear):
			a.printf("❌ Please enter a future year (after %d).\n\n", baseYear)
			continue
		case errors.Is(err, predict.ErrStateNotFound):
			a.printf("❌ No data found for state: %s\n\n", predict.TitleCase(state))
		case errors.Is(err, predict.ErrNoValidData):
			a.printf("❌ No valid data available for %s to make a prediction.\n\n", predict.TitleCase(state))
		case err != nil:
			a.printf("❌ %v\n\n", err)
		default:
			a.printf("\n%s\n", pred.Summary())
			a.printf("Impacts:\n")
			for _, impact := range pred.Impacts {
				a.printf("  - %s\n", impact)
			}
		}

		again, err := a.prompt.Confirm(fmt.Sprintf("\n💡 Would you like to predict for another %s? (y/n):", t.stateNoun))
		if err != nil || !again {
			return err
		}
	}
}

func (a *App) plot(ctx context.Context, ds dataset.Dataset) error {
	path, err := a.chooseFile(ctx, ds)
	if err != nil || path == "" {
		return err
	}

	var files []string
	switch ds.(type) {
	case *dataset.PlasticWaste:
		files, err = a.plotPlasticWaste(ctx, ds, path)
	case *dataset.Wastewater:
		files, err = a.plotWastewater(ctx, ds, path)
	default:
		a.printf("❌ Plots are not available for %s.\n\n", ds.Topic())
		return nil
	}
	if err != nil || len(files) == 0 {
		return err
	}

	if prev := a.session.Record(ds.Topic(), files); prev != "" {
		a.log.Debug("charts superseded", zap.String("previous", prev), zap.String("current", ds.Topic()))
		a.printf("\n📊 Replacing the previous %s plots.\n", prev)
	}
	a.printf("\n✅ %s plots saved to the '%s/' directory:\n", ds.Topic(), a.renderer.Dir())
	for _, f := range files {
		a.printf("  - %s\n", f)
	}
	return nil
}

func (a *App) plotPlasticWaste(ctx context.Context, ds dataset.Dataset, path string) ([]string, error) {
	rows, err := dataset.LoadPlasticWaste(path)
	if err != nil {
		a.printf("❌ %s\n\n", fileProblem(err, path, ds.Topic()))
		return nil, nil
	}

	a.printf("\nAvailable states/UTs: %s\n", strings.Join(dataset.States(rows, dataset.PlasticWasteState), ", "))
	state, err := a.prompt.Line("Enter state/UT name for time-series plots (e.g., Andhra Pradesh): ")
	if err != nil {
		return nil, err
	}
	row, ok := dataset.FindState(rows, state, dataset.PlasticWasteState)
	if !ok {
		a.printf("❌ No data found for state: %s\n\n", predict.TitleCase(state))
		return nil, nil
	}

	files, err := a.renderer.PlasticWasteState(ctx, row)
	if errors.Is(err, plot.ErrNoValidData) {
		a.printf("❌ No valid data available for %s to plot.\n\n", row.StateName())
		return nil, nil
	}
	if err != nil {
		return nil, a.renderFailed(ctx, err)
	}

	a.printf("\nAvailable years: %s\n", strings.Join(dataset.YearLabels(), ", "))
	year, err := a.prompt.Line("Enter year for comparison across states (e.g., 2020-21): ")
	if err != nil {
		return files, err
	}
	if !dataset.ValidYearLabel(year) {
		a.printf("❌ Invalid year. Skipping comparison plot.\n\n")
		return files, nil
	}
	cmp, err := a.renderer.PlasticWasteComparison(ctx, rows, year)
	switch {
	case errors.Is(err, plot.ErrNoValidData):
		a.printf("❌ No valid data for %s. Skipping comparison plot.\n\n", year)
	case err != nil:
		return files, a.renderFailed(ctx, err)
	default:
		files = append(files, cmp)
	}
	return files, nil
}

func (a *App) plotWastewater(ctx context.Context, ds dataset.Dataset, path string) ([]string, error) {
	rows, err := dataset.LoadWastewater(path)
	if err != nil {
		a.printf("❌ %s\n\n", fileProblem(err, path, ds.Topic()))
		return nil, nil
	}
	files, err := a.renderer.Wastewater(ctx, rows)
	if errors.Is(err, plot.ErrNoValidData) {
		a.printf("❌ No valid data available for plotting.\n\n")
		return nil, nil
	}
	if err != nil {
		return nil, a.renderFailed(ctx, err)
	}
	return files, nil
}

// renderFailed reports a chart error and keeps the session alive unless
// the context is done.
func (a *App) renderFailed(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	a.log.Error("plot failed", zap.Error(err))
	a.printf("❌ Could not render plots: %v\n\n", err)
	return nil
}
