package menu

import (
	"strings"

	"github.com/sells-group/dharti-cli/internal/dataset"
)

// topic holds the menu wording of one dataset.
type topic struct {
	main         string
	predictItem  string
	stateNoun    string
	statesNoun   string
	stateExample string
	predictNoun  string
}

var topics = map[string]topic{
	"plastic_waste": {
		main:         "Plastic Waste Generation (State/UT)",
		predictItem:  "Predict Future Plastic Waste",
		stateNoun:    "state/UT",
		statesNoun:   "states/UTs",
		stateExample: "Andhra Pradesh",
		predictNoun:  "plastic waste",
	},
	"wastewater": {
		main:         "Wastewater Discharge into Ganga (BOD Load)",
		predictItem:  "Predict Future BOD Load",
		stateNoun:    "state",
		statesNoun:   "states",
		stateExample: "Uttar Pradesh",
		predictNoun:  "BOD load",
	},
}

func topicFor(ds dataset.Dataset) topic {
	if t, ok := topics[ds.Name()]; ok {
		return t
	}
	return topic{
		main:         ds.Topic(),
		predictItem:  "Predict Future " + ds.Topic(),
		stateNoun:    "state",
		statesNoun:   "states",
		stateExample: "Assam",
		predictNoun:  strings.ToLower(ds.Topic()),
	}
}
