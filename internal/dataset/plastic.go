package dataset

import (
	"strings"

	"github.com/sells-group/dharti-cli/internal/table"
)

// PlasticWaste is the state/UT-wise plastic waste generation table.
type PlasticWaste struct{}

func (p *PlasticWaste) Name() string        { return "plastic_waste" }
func (p *PlasticWaste) Topic() string       { return "Plastic Waste" }
func (p *PlasticWaste) ResourceID() string  { return "ad39c33f-9d07-41a8-9a7d-06081e01617f" }
func (p *PlasticWaste) Filename() string    { return "plastic_waste_data.csv" }
func (p *PlasticWaste) StateColumn() string { return "state_ut_wise" }
func (p *PlasticWaste) Description() string {
	return "Plastic waste generation by State/UT, 2016-17 to 2020-21 (tonnes per annum)"
}

// YearColumn pairs a reporting-year label with its API column.
type YearColumn struct {
	Label  string
	Column string
}

// PlasticWasteYears lists the reporting years in chronological order.
var PlasticWasteYears = []YearColumn{
	{Label: "2016-17", Column: "__2016_17"},
	{Label: "2017-18", Column: "_2017_18"},
	{Label: "2018-19", Column: "_2018_19"},
	{Label: "2019-20", Column: "_2019_20"},
	{Label: "2020-21", Column: "_2020_21"},
}

// YearLabels returns the reporting-year labels in order.
func YearLabels() []string {
	out := make([]string, len(PlasticWasteYears))
	for i, y := range PlasticWasteYears {
		out[i] = y.Label
	}
	return out
}

// ValidYearLabel reports whether label names a reporting year.
func ValidYearLabel(label string) bool {
	for _, y := range PlasticWasteYears {
		if y.Label == label {
			return true
		}
	}
	return false
}

// PlasticWasteRow is one state's row of the cached plastic waste table.
// Year cells stay text so the NA sentinel survives decoding; Y2016 holds
// the 2016-17 figure and so on.
type PlasticWasteRow struct {
	State string `csv:"state_ut_wise"`
	Y2016 string `csv:"__2016_17"`
	Y2017 string `csv:"_2017_18"`
	Y2018 string `csv:"_2018_19"`
	Y2019 string `csv:"_2019_20"`
	Y2020 string `csv:"_2020_21"`
}

// StateName returns the row's state with surrounding whitespace removed.
func (r PlasticWasteRow) StateName() string {
	return strings.TrimSpace(r.State)
}

// Value returns the tonnage for a year label; ok is false for missing,
// NA, or non-numeric cells and for unknown labels.
func (r PlasticWasteRow) Value(label string) (float64, bool) {
	var cell string
	switch label {
	case "2016-17":
		cell = r.Y2016
	case "2017-18":
		cell = r.Y2017
	case "2018-19":
		cell = r.Y2018
	case "2019-20":
		cell = r.Y2019
	case "2020-21":
		cell = r.Y2020
	default:
		return 0, false
	}
	return table.ParseNumber(strings.TrimSpace(cell))
}

// YearValue is one valid observation of a time series.
type YearValue struct {
	Label string
	Value float64
}

// Series returns the row's valid observations in chronological order.
func (r PlasticWasteRow) Series() []YearValue {
	var out []YearValue
	for _, y := range PlasticWasteYears {
		if v, ok := r.Value(y.Label); ok {
			out = append(out, YearValue{Label: y.Label, Value: v})
		}
	}
	return out
}

// LoadPlasticWaste decodes a cached plastic waste file.
func LoadPlasticWaste(path string) ([]PlasticWasteRow, error) {
	return loadRows[PlasticWasteRow](path, (&PlasticWaste{}).StateColumn())
}

// PlasticWasteState returns a row's state; used with FindState and States.
func PlasticWasteState(r PlasticWasteRow) string { return r.State }
