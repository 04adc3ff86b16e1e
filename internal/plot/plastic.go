package plot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sells-group/dharti-cli/internal/dataset"
)

const plasticAxis = "Plastic Waste (tonnes)"

// yearTicks labels x positions 0..n-1 with every reporting year so a state
// with gaps still plots on the full time axis.
func yearTicks() []chart.Tick {
	ticks := make([]chart.Tick, len(dataset.PlasticWasteYears))
	for i, y := range dataset.PlasticWasteYears {
		ticks[i] = chart.Tick{Value: float64(i), Label: y.Label}
	}
	return ticks
}

func yearIndex(label string) float64 {
	for i, y := range dataset.PlasticWasteYears {
		if y.Label == label {
			return float64(i)
		}
	}
	return -1
}

// PlasticWasteState writes the line, scatter, bar, and area charts of one
// state's plastic waste over the reporting years.
func (r *Renderer) PlasticWasteState(ctx context.Context, row dataset.PlasticWasteRow) ([]string, error) {
	state := row.StateName()
	series := row.Series()
	if len(series) == 0 {
		return nil, eris.Wrapf(ErrNoValidData, "plot: %s", state)
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	bars := make([]chart.Value, len(series))
	for i, yv := range series {
		xs[i] = yearIndex(yv.Label)
		ys[i] = yv.Value
		bars[i] = chart.Value{
			Label: yv.Label,
			Value: yv.Value,
			Style: chart.Style{FillColor: colorBlue, StrokeColor: drawing.ColorBlack, StrokeWidth: 1},
		}
	}

	prefix := "plastic_waste_" + SnakeName(state)
	title := func(kind string) string { return fmt.Sprintf("Plastic Waste in %s: %s", state, kind) }

	timeChart := func(kind string, style chart.Style) func(*bytes.Buffer) error {
		return func(w *bytes.Buffer) error {
			ch := chart.Chart{
				Title:      title(kind),
				TitleStyle: titleStyle(),
				Width:      r.width,
				Height:     r.height,
				Background: background(),
				XAxis:      chart.XAxis{Name: "Years", Ticks: yearTicks(), GridMajorStyle: gridStyle()},
				YAxis:      chart.YAxis{Name: plasticAxis, Range: valueRange(ys), GridMajorStyle: gridStyle()},
				Series: []chart.Series{chart.ContinuousSeries{
					Name:    plasticAxis,
					XValues: xs,
					YValues: ys,
					Style:   style,
				}},
			}
			ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}
			return ch.Render(chart.PNG, w)
		}
	}

	jobs := []job{
		{name: prefix + "_line.png", draw: timeChart("Line Plot", chart.Style{
			StrokeColor: colorBlue,
			StrokeWidth: 2,
		})},
		{name: prefix + "_scatter.png", draw: timeChart("Scatter Plot", chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    6,
			DotColor:    colorBlue,
		})},
		{name: prefix + "_bar.png", draw: func(w *bytes.Buffer) error {
			bc := chart.BarChart{
				Title:      title("Bar Plot"),
				TitleStyle: titleStyle(),
				Width:      r.width,
				Height:     r.height,
				Background: background(),
				BarWidth:   60,
				YAxis:      chart.YAxis{Name: plasticAxis, Range: valueRange(ys)},
				Bars:       bars,
			}
			return bc.Render(chart.PNG, w)
		}},
		{name: prefix + "_area.png", draw: timeChart("Area Plot", chart.Style{
			StrokeColor: colorBlue,
			StrokeWidth: 1,
			FillColor:   colorBlue.WithAlpha(128),
		})},
	}
	return r.renderAll(ctx, jobs)
}

// PlasticWasteComparison writes one bar per state for a reporting year.
// States without a valid figure for that year are left out.
func (r *Renderer) PlasticWasteComparison(ctx context.Context, rows []dataset.PlasticWasteRow, yearLabel string) (string, error) {
	if !dataset.ValidYearLabel(yearLabel) {
		return "", eris.Wrapf(ErrUnknownYear, "plot: %q", yearLabel)
	}

	var bars []chart.Value
	var values []float64
	for _, row := range rows {
		v, ok := row.Value(yearLabel)
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{
			Label: row.StateName(),
			Value: v,
			Style: chart.Style{FillColor: colorPurple, StrokeColor: drawing.ColorBlack, StrokeWidth: 1},
		})
		values = append(values, v)
	}
	if len(bars) == 0 {
		return "", eris.Wrapf(ErrNoValidData, "plot: year %s", yearLabel)
	}

	name := "plastic_waste_comparison_" + strings.ReplaceAll(yearLabel, "-", "_") + ".png"
	paths, err := r.renderAll(ctx, []job{{name: name, draw: func(w *bytes.Buffer) error {
		bc := chart.BarChart{
			Title:      "Plastic Waste Across States in " + yearLabel,
			TitleStyle: titleStyle(),
			Width:      r.barWidthFor(len(bars)),
			Height:     r.height,
			Background: background(),
			BarWidth:   32,
			XAxis:      chart.Style{FontSize: 7},
			YAxis:      chart.YAxis{Name: plasticAxis, Range: valueRange(values)},
			Bars:       bars,
		}
		return bc.Render(chart.PNG, w)
	}}})
	if err != nil {
		return "", err
	}
	return paths[0], nil
}
