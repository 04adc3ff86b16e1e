package plot

import (
	"bytes"
	"context"

	"github.com/rotisserie/eris"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/sells-group/dharti-cli/internal/dataset"
)

const (
	dischargeAxis = "Wastewater Discharge (MLD)"
	bodAxis       = "BOD Load (tonnes/day)"
)

// Wastewater writes the discharge bar chart, the BOD load bar chart, and a
// combined chart of both measures per state. The summary row is skipped,
// as are cells that do not parse.
func (r *Renderer) Wastewater(ctx context.Context, rows []dataset.WastewaterRow) ([]string, error) {
	var states []string
	var discharge, bod []chart.Value
	var dx, dy, bx, by []float64
	for _, row := range rows {
		if row.IsTotal() || row.StateName() == "" {
			continue
		}
		x := float64(len(states))
		states = append(states, row.StateName())
		if v, ok := row.DischargeMLD(); ok {
			discharge = append(discharge, chart.Value{
				Label: row.StateName(),
				Value: v,
				Style: chart.Style{FillColor: colorTeal, StrokeColor: drawing.ColorBlack, StrokeWidth: 1},
			})
			dx, dy = append(dx, x), append(dy, v)
		}
		if v, ok := row.BODTonnesPerDay(); ok {
			bod = append(bod, chart.Value{
				Label: row.StateName(),
				Value: v,
				Style: chart.Style{FillColor: colorOrange, StrokeColor: drawing.ColorBlack, StrokeWidth: 1},
			})
			bx, by = append(bx, x), append(by, v)
		}
	}
	if len(discharge) == 0 && len(bod) == 0 {
		return nil, ErrNoValidData
	}

	barChart := func(title, axis string, bars []chart.Value, values []float64) func(*bytes.Buffer) error {
		return func(w *bytes.Buffer) error {
			bc := chart.BarChart{
				Title:      title,
				TitleStyle: titleStyle(),
				Width:      r.barWidthFor(len(bars)),
				Height:     r.height,
				Background: background(),
				BarWidth:   40,
				XAxis:      chart.Style{FontSize: 8},
				YAxis:      chart.YAxis{Name: axis, Range: valueRange(values)},
				Bars:       bars,
			}
			return bc.Render(chart.PNG, w)
		}
	}

	var jobs []job
	if len(discharge) > 0 {
		jobs = append(jobs, job{
			name: "wastewater_discharge_bar.png",
			draw: barChart("Wastewater Discharge into Ganga by State (2020-21)", dischargeAxis, discharge, dy),
		})
	} else {
		zap.L().Warn("no discharge figures to plot", zap.String("component", "plot"))
	}
	if len(bod) > 0 {
		jobs = append(jobs, job{
			name: "bod_load_bar.png",
			draw: barChart("BOD Load into Ganga by State (2020-21)", bodAxis, bod, by),
		})
	} else {
		zap.L().Warn("no BOD figures to plot", zap.String("component", "plot"))
	}
	jobs = append(jobs, job{
		name: "wastewater_bod_combined.png",
		draw: func(w *bytes.Buffer) error {
			return r.combined(w, states, dx, dy, bx, by)
		},
	})

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "plot: wastewater")
	}
	return r.renderAll(ctx, jobs)
}

// combined draws discharge on the left axis and BOD load on the right one,
// since the two differ by orders of magnitude.
func (r *Renderer) combined(w *bytes.Buffer, states []string, dx, dy, bx, by []float64) error {
	// Padding ticks keep the x range non-empty for a single state.
	ticks := []chart.Tick{{Value: -0.5}}
	for i, s := range states {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: s})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(states)) - 0.5})

	var series []chart.Series
	if len(dx) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    dischargeAxis,
			XValues: dx,
			YValues: dy,
			Style: chart.Style{
				StrokeColor: colorTeal,
				StrokeWidth: 2,
				DotColor:    colorTeal,
				DotWidth:    5,
			},
		})
	}
	if len(bx) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    bodAxis,
			YAxis:   chart.YAxisSecondary,
			XValues: bx,
			YValues: by,
			Style: chart.Style{
				StrokeColor: colorOrange,
				StrokeWidth: 2,
				DotColor:    colorOrange,
				DotWidth:    5,
			},
		})
	}

	ch := chart.Chart{
		Title:      "Wastewater Discharge and BOD Load by State (2020-21)",
		TitleStyle: titleStyle(),
		Width:      r.barWidthFor(len(states)),
		Height:     r.height + 120,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 120}},
		XAxis: chart.XAxis{
			Name:      "States",
			Ticks:     ticks,
			TickStyle: chart.Style{TextRotationDegrees: 45, FontSize: 8},
		},
		YAxis:          chart.YAxis{Name: dischargeAxis, Range: valueRange(dy)},
		YAxisSecondary: chart.YAxis{Name: bodAxis, Range: valueRange(by)},
		Series:         series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}
