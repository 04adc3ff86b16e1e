// Package table holds the flat tabular model shared by the fetcher, the
// flat-file store, and the exporters.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// NA is the missing-value sentinel used by the upstream data platform.
const NA = "NA"

// Record is one row as decoded from the API: field name to raw value.
type Record map[string]any

// Table is an ordered set of columns plus the records that fill them.
type Table struct {
	Columns []string
	Records []Record
}

// FromRecords builds a table from API records. Columns follow fieldOrder
// first; keys that fieldOrder does not mention are appended in sorted order.
func FromRecords(records []Record, fieldOrder []string) *Table {
	seen := make(map[string]bool, len(fieldOrder))
	var cols []string
	for _, f := range fieldOrder {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		cols = append(cols, f)
	}

	var extra []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)

	return &Table{Columns: append(cols, extra...), Records: records}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Empty reports whether the table has no records.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Row returns the formatted cells of record i in column order.
func (t *Table) Row(i int) []string {
	rec := t.Records[i]
	cells := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		cells[j] = FormatCell(rec[col])
	}
	return cells
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// FormatCell renders a raw value the way it is written to flat files.
// Missing values become empty cells.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// ParseNumber parses a cell as a float. Empty cells, the NA sentinel, and
// non-numeric text report ok=false, as do NaN and infinities.
func ParseNumber(s string) (float64, bool) {
	if s == "" || s == NA {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
