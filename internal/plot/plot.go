// Package plot renders the cached datasets as PNG charts.
package plot

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/dharti-cli/internal/config"
)

var (
	// ErrNoValidData is returned when nothing in the input can be plotted.
	ErrNoValidData = eris.New("plot: no valid data to plot")
	// ErrUnknownYear is returned for a year label outside the reporting years.
	ErrUnknownYear = eris.New("plot: unknown reporting year")
)

var (
	colorBlue   = drawing.ColorBlue
	colorPurple = drawing.ColorPurple
	colorTeal   = drawing.ColorTeal
	colorOrange = drawing.ColorFromHex("ffa500")
)

// Renderer writes charts into one output directory.
type Renderer struct {
	dir    string
	width  int
	height int
}

// NewRenderer creates a renderer from the plot configuration.
func NewRenderer(cfg config.PlotConfig) *Renderer {
	r := &Renderer{dir: cfg.Dir, width: cfg.Width, height: cfg.Height}
	if r.dir == "" {
		r.dir = "plots"
	}
	if r.width <= 0 {
		r.width = 1024
	}
	if r.height <= 0 {
		r.height = 640
	}
	return r
}

// Dir returns the output directory.
func (r *Renderer) Dir() string {
	return r.dir
}

// job is one chart to draw into one file.
type job struct {
	name string
	draw func(w *bytes.Buffer) error
}

// renderAll draws every job concurrently and returns the written paths in
// job order. Jobs share no state; each owns its file.
func (r *Renderer) renderAll(ctx context.Context, jobs []job) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "plot: create %s", r.dir)
	}

	paths := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := j.draw(&buf); err != nil {
				return eris.Wrapf(err, "plot: render %s", j.name)
			}
			path := filepath.Join(r.dir, j.name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return eris.Wrapf(err, "plot: write %s", path)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Debug("charts rendered",
		zap.String("component", "plot"),
		zap.Strings("paths", paths),
	)
	return paths, nil
}

// SnakeName turns a state name into a file-name fragment:
// "Andhra Pradesh" becomes "andhra_pradesh".
func SnakeName(s string) string {
	var b strings.Builder
	underscore := false
	for _, c := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(c)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// valueRange spans zero to a little above the largest value so single
// points and equal values still get a drawable axis.
func valueRange(values ...[]float64) *chart.ContinuousRange {
	maxV := 0.0
	for _, vs := range values {
		for _, v := range vs {
			maxV = math.Max(maxV, v)
		}
	}
	if maxV <= 0 {
		maxV = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: maxV * 1.1}
}

func titleStyle() chart.Style {
	return chart.Style{FontSize: 14}
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

func gridStyle() chart.Style {
	return chart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1}
}

// barWidthFor widens a bar chart so every category keeps a readable label.
func (r *Renderer) barWidthFor(n int) int {
	return max(r.width, n*48)
}
