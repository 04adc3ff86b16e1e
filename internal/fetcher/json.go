package fetcher

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dharti-cli/internal/table"
)

// ErrNoRecords is returned when a response body lacks the records field.
var ErrNoRecords = eris.New("fetcher: response has no records field")

// envelope is the subset of an api.data.gov.in response that matters here.
type envelope struct {
	Message string            `json:"message"`
	Fields  []fieldDef        `json:"field"`
	Records *[]map[string]any `json:"records"`
}

type fieldDef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// DecodeRecords parses a response body and extracts its records array.
// Numbers are kept as json.Number so values reach the flat file verbatim.
// A malformed body or a missing records field is an error; an empty array
// is not.
func DecodeRecords(r io.Reader) ([]table.Record, []string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, nil, eris.Wrap(err, "fetcher: decode response")
	}
	if env.Records == nil {
		if env.Message != "" {
			return nil, nil, eris.Wrapf(ErrNoRecords, "fetcher: api message %q", env.Message)
		}
		return nil, nil, ErrNoRecords
	}

	records := make([]table.Record, len(*env.Records))
	for i, rec := range *env.Records {
		records[i] = table.Record(rec)
	}

	var fields []string
	for _, f := range env.Fields {
		fields = append(fields, f.ID)
	}
	return records, fields, nil
}
