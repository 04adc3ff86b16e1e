package dataset

import (
	"strings"

	"github.com/sells-group/dharti-cli/internal/table"
)

// Wastewater is the wastewater discharge and BOD load into the Ganga table.
type Wastewater struct{}

func (w *Wastewater) Name() string        { return "wastewater" }
func (w *Wastewater) Topic() string       { return "Wastewater" }
func (w *Wastewater) ResourceID() string  { return "e374f644-b9d4-4e2a-b55f-f3888859abd6" }
func (w *Wastewater) Filename() string    { return "wastewater_data.csv" }
func (w *Wastewater) StateColumn() string { return "state" }
func (w *Wastewater) Description() string {
	return "Wastewater discharge (MLD) and BOD load (tonnes/day) into the Ganga by state"
}

// WastewaterRow is one state's row of the cached wastewater table.
type WastewaterRow struct {
	State     string `csv:"state"`
	Discharge string `csv:"wastewater_discharge__mld_"`
	BODLoad   string `csv:"bod_load__tpd_"`
}

// StateName returns the row's state with surrounding whitespace removed.
func (r WastewaterRow) StateName() string {
	return strings.TrimSpace(r.State)
}

// IsTotal reports whether the row is the table's summary row.
func (r WastewaterRow) IsTotal() bool {
	return strings.EqualFold(r.StateName(), "Total")
}

// DischargeMLD returns the wastewater discharge in million litres per day.
func (r WastewaterRow) DischargeMLD() (float64, bool) {
	return table.ParseNumber(strings.TrimSpace(r.Discharge))
}

// BODTonnesPerDay returns the biochemical oxygen demand load.
func (r WastewaterRow) BODTonnesPerDay() (float64, bool) {
	return table.ParseNumber(strings.TrimSpace(r.BODLoad))
}

// LoadWastewater decodes a cached wastewater file.
func LoadWastewater(path string) ([]WastewaterRow, error) {
	return loadRows[WastewaterRow](path, (&Wastewater{}).StateColumn())
}

// WastewaterState returns a row's state; used with FindState and States.
func WastewaterState(r WastewaterRow) string { return r.State }
