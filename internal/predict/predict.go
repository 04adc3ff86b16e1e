// Package predict projects a state's figures to a future year with a
// constant compound growth rate and classifies the projected impact.
package predict

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/dharti-cli/internal/config"
	"github.com/sells-group/dharti-cli/internal/dataset"
)

var (
	// ErrNotFutureYear is returned when the target year is not after the base year.
	ErrNotFutureYear = eris.New("predict: year must be after the base year")
	// ErrStateNotFound is returned when no row matches the requested state.
	ErrStateNotFound = eris.New("predict: state not found")
	// ErrNoValidData is returned when the state's row has no usable numbers.
	ErrNoValidData = eris.New("predict: no valid data")
)

// Level grades a projected value.
type Level int

const (
	LevelLow Level = iota + 1
	LevelModerate
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelModerate:
		return "moderate"
	case LevelHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Params holds the growth assumption of one projection.
type Params struct {
	BaseYear   int
	GrowthRate float64
}

// ParamsFromConfig returns the plastic waste and BOD load parameters.
func ParamsFromConfig(cfg config.PredictConfig) (plastic, bod Params) {
	plastic = Params{BaseYear: cfg.BaseYear, GrowthRate: cfg.PlasticGrowthRate}
	bod = Params{BaseYear: cfg.BaseYear, GrowthRate: cfg.BODGrowthRate}
	return plastic, bod
}

// Prediction is a projected value with its impact assessment.
type Prediction struct {
	Subject string // "plastic waste" or "BOD load"
	State   string // title-cased display name
	Year    int
	Value   float64
	Unit    string
	Level   Level
	Impacts []string
	// Grouped formats Value with thousands separators.
	Grouped bool
}

var printer = message.NewPrinter(language.English)

// Summary renders the headline, e.g.
// "Predicted plastic waste for Kerala in 2025: 12,345.68 tonnes".
func (p *Prediction) Summary() string {
	value := strconv.FormatFloat(p.Value, 'f', 2, 64)
	if p.Grouped {
		value = printer.Sprintf("%.2f", p.Value)
	}
	return fmt.Sprintf("Predicted %s for %s in %d: %s %s", p.Subject, p.State, p.Year, value, p.Unit)
}

// Compound grows value at rate for the given number of years.
func Compound(value, rate float64, years int) float64 {
	return value * math.Pow(1+rate, float64(years))
}

// TitleCase formats a state name the way results display it.
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

func checkYear(year int, p Params) error {
	if year <= p.BaseYear {
		return eris.Wrapf(ErrNotFutureYear, "predict: %d is not after %d", year, p.BaseYear)
	}
	return nil
}

// PlasticWaste projects the state's average annual plastic waste over the
// reporting years with valid figures.
func PlasticWaste(rows []dataset.PlasticWasteRow, state string, year int, p Params) (*Prediction, error) {
	if err := checkYear(year, p); err != nil {
		return nil, err
	}
	name := TitleCase(state)
	row, ok := dataset.FindState(rows, state, dataset.PlasticWasteState)
	if !ok {
		return nil, eris.Wrapf(ErrStateNotFound, "predict: %s", name)
	}

	series := row.Series()
	if len(series) == 0 {
		return nil, eris.Wrapf(ErrNoValidData, "predict: %s", name)
	}
	var sum float64
	for _, yv := range series {
		sum += yv.Value
	}
	value := Compound(sum/float64(len(series)), p.GrowthRate, year-p.BaseYear)

	pred := &Prediction{
		Subject: "plastic waste",
		State:   name,
		Year:    year,
		Value:   value,
		Unit:    "tonnes",
		Grouped: true,
	}
	switch {
	case value < 50000:
		pred.Level = LevelLow
		pred.Impacts = []string{
			"Environmental: Low land and water pollution risk.",
			"Economic: Manageable waste management costs.",
		}
	case value <= 200000:
		pred.Level = LevelModerate
		pred.Impacts = []string{
			"Environmental: Moderate pollution risk, affecting local ecosystems.",
			"Economic: Increased costs for waste management and recycling.",
		}
	default:
		pred.Level = LevelHigh
		pred.Impacts = []string{
			"Environmental: High pollution risk, severe impact on land and water bodies.",
			"Economic: Significant costs for waste management, cleanup, and policy enforcement.",
		}
	}
	return pred, nil
}

// BODLoad projects the biochemical oxygen demand load the state discharges
// into the river.
func BODLoad(rows []dataset.WastewaterRow, state string, year int, p Params) (*Prediction, error) {
	if err := checkYear(year, p); err != nil {
		return nil, err
	}
	name := TitleCase(state)
	row, ok := dataset.FindState(rows, state, dataset.WastewaterState)
	if !ok {
		return nil, eris.Wrapf(ErrStateNotFound, "predict: %s", name)
	}
	bod, ok := row.BODTonnesPerDay()
	if !ok {
		return nil, eris.Wrapf(ErrNoValidData, "predict: %s", name)
	}
	value := Compound(bod, p.GrowthRate, year-p.BaseYear)

	pred := &Prediction{
		Subject: "BOD load",
		State:   name,
		Year:    year,
		Value:   value,
		Unit:    "tonnes/day",
	}
	switch {
	case value < 2:
		pred.Level = LevelLow
		pred.Impacts = []string{
			"Ecological: Low impact on river ecosystem health.",
			"Social: Minimal impact on community well-being.",
		}
	case value <= 5:
		pred.Level = LevelModerate
		pred.Impacts = []string{
			"Ecological: Moderate impact, reduced oxygen levels affecting aquatic life.",
			"Social: Potential health risks for communities relying on the river.",
		}
	default:
		pred.Level = LevelHigh
		pred.Impacts = []string{
			"Ecological: Severe impact, significant harm to aquatic ecosystems.",
			"Social: Major health and livelihood risks for river-dependent communities.",
		}
	}
	return pred, nil
}
