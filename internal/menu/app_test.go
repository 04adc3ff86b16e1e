package menu

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dharti-cli/internal/config"
	"github.com/sells-group/dharti-cli/internal/dataset"
	"github.com/sells-group/dharti-cli/internal/fetcher"
	"github.com/sells-group/dharti-cli/internal/menu/mocks"
	"github.com/sells-group/dharti-cli/internal/plot"
	"github.com/sells-group/dharti-cli/internal/predict"
	"github.com/sells-group/dharti-cli/internal/table"
)

const plasticCSV = `state_ut_wise,__2016_17,_2017_18,_2018_19,_2019_20,_2020_21
Kerala,10000,NA,20000,,30000
Ladakh,NA,NA,NA,NA,NA
`

const wastewaterCSV = `state,wastewater_discharge__mld_,bod_load__tpd_
Uttarakhand,120,1.5
Uttar Pradesh,3500,250.5
Total,3620,252
`

type harness struct {
	store  *dataset.Store
	syncer *mocks.MockSyncer
	out    *bytes.Buffer
	plots  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	store := dataset.NewStore(filepath.Join(root, "api_data"), filepath.Join(root, "SavedData"))
	require.NoError(t, store.Init())
	return &harness{
		store:  store,
		syncer: mocks.NewMockSyncer(t),
		out:    &bytes.Buffer{},
		plots:  filepath.Join(root, "plots"),
	}
}

func (h *harness) run(t *testing.T, input string) string {
	t.Helper()
	app := New(Deps{
		In:         strings.NewReader(input),
		Out:        h.out,
		Registry:   dataset.NewRegistry(),
		Store:      h.store,
		Syncer:     h.syncer,
		Renderer:   plot.NewRenderer(config.PlotConfig{Dir: h.plots, Width: 640, Height: 400}),
		Plastic:    predict.Params{BaseYear: 2021, GrowthRate: 0.02},
		BOD:        predict.Params{BaseYear: 2021, GrowthRate: 0.01},
		DataSource: "https://api.data.gov.in",
	})
	require.NoError(t, app.Run(context.Background()))
	return h.out.String()
}

func (h *harness) seed(t *testing.T, ds dataset.Dataset, src dataset.Source, content string) string {
	t.Helper()
	path := h.store.Path(ds, src)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func named(name string) any {
	return mock.MatchedBy(func(ds dataset.Dataset) bool { return ds.Name() == name })
}

func TestRun_ExitAndEOF(t *testing.T) {
	out := newHarness(t).run(t, "0\n")
	assert.Contains(t, out, "DhartiMetrics")
	assert.Contains(t, out, "1. Plastic Waste Generation (State/UT)")
	assert.Contains(t, out, "2. Wastewater Discharge into Ganga (BOD Load)")
	assert.Contains(t, out, "Goodbye!")

	out = newHarness(t).run(t, "")
	assert.Contains(t, out, "Goodbye!")

	// EOF inside a submenu ends the session too.
	out = newHarness(t).run(t, "1\n")
	assert.Contains(t, out, "Plastic Waste Analysis Options")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_InvalidChoiceReprompts(t *testing.T) {
	out := newHarness(t).run(t, "9\nabc\n2\n7\n0\n0\n")
	assert.Equal(t, 2, strings.Count(out, "❌ Invalid choice. Please select one of: 1, 2, 0."))
	assert.Contains(t, out, "❌ Invalid choice. Please select one of: 1, 2, 3, 0.")
	assert.Contains(t, out, "Predict Future BOD Load")
}

func TestFetch_PromoteOnConfirm(t *testing.T) {
	h := newHarness(t)
	ds := &dataset.PlasticWaste{}
	h.syncer.On("Sync", mock.Anything, named("plastic_waste")).Return(
		func(ctx context.Context, ds dataset.Dataset) (*dataset.SyncResult, error) {
			path := h.seed(t, ds, dataset.SourceAPI, plasticCSV)
			return &dataset.SyncResult{Dataset: ds.Name(), Path: path, Rows: 2, Valid: true}, nil
		}, nil).Once()

	out := h.run(t, "1\n1\ny\n0\n0\n")
	assert.Contains(t, out, "✅ Data fetched from data.gov.in API and saved to "+h.store.Path(ds, dataset.SourceAPI))
	assert.Contains(t, out, "Would you like to update the Saved Plastic Waste Data")
	assert.Contains(t, out, "✅ Saved Plastic Waste Data updated with new data at "+h.store.Path(ds, dataset.SourceSaved))

	saved, err := os.ReadFile(h.store.Path(ds, dataset.SourceSaved))
	require.NoError(t, err)
	assert.Equal(t, plasticCSV, string(saved))
}

func TestFetch_DeclinePromote(t *testing.T) {
	h := newHarness(t)
	ds := &dataset.Wastewater{}
	h.syncer.On("Sync", mock.Anything, named("wastewater")).Return(
		func(ctx context.Context, ds dataset.Dataset) (*dataset.SyncResult, error) {
			path := h.seed(t, ds, dataset.SourceAPI, wastewaterCSV)
			return &dataset.SyncResult{Dataset: ds.Name(), Path: path, Rows: 3, Valid: true}, nil
		}, nil).Once()

	out := h.run(t, "2\n1\nn\n0\n0\n")
	assert.NotContains(t, out, "Saved Wastewater Data updated")
	_, err := os.Stat(h.store.Path(ds, dataset.SourceSaved))
	assert.True(t, os.IsNotExist(err))
}

func TestFetch_InvalidResultNotOffered(t *testing.T) {
	h := newHarness(t)
	h.syncer.On("Sync", mock.Anything, named("wastewater")).
		Return(&dataset.SyncResult{Path: "data/api_data/wastewater_data.csv"}, nil).Once()

	out := h.run(t, "2\n1\n0\n0\n")
	assert.Contains(t, out, "❌ Fetched Wastewater data at data/api_data/wastewater_data.csv is empty or invalid. Cannot use this data.")
	assert.NotContains(t, out, "Would you like to update")
}

func TestFetch_FailureKeepsMenu(t *testing.T) {
	h := newHarness(t)
	cause := &fetcher.ExhaustedError{Topic: "Plastic Waste", Attempts: 3, Err: eris.New("HTTP 503")}
	h.syncer.On("Sync", mock.Anything, named("plastic_waste")).
		Return(nil, eris.Wrap(cause, "engine: fetch plastic_waste")).Once()

	out := h.run(t, "1\n1\n0\n0\n")
	assert.Contains(t, out, "❌ Failed to fetch Plastic Waste data: failed to fetch Plastic Waste data after 3 attempts: HTTP 503")
	assert.Equal(t, 2, strings.Count(out, "Plastic Waste Analysis Options"))
}

func TestPredict_PlasticWaste(t *testing.T) {
	h := newHarness(t)
	h.seed(t, &dataset.PlasticWaste{}, dataset.SourceSaved, plasticCSV)

	input := strings.Join([]string{
		"1", "2", "2", // topic, predict, saved data
		"kerala", "soon", // invalid year
		"kerala", "2020", // not a future year
		"kerala", "2025",
		"y",
		"atlantis", "2025",
		"y",
		"ladakh", "2030",
		"n",
		"0", "0",
	}, "\n") + "\n"
	out := h.run(t, input)

	assert.Contains(t, out, "Available states/UTs: Kerala, Ladakh")
	assert.Contains(t, out, "❌ Please enter a valid year (e.g., 2025).")
	assert.Contains(t, out, "❌ Please enter a future year (after 2021).")
	assert.Contains(t, out, "Predicted plastic waste for Kerala in 2025: 21,648.64 tonnes")
	assert.Contains(t, out, "  - Environmental: Low land and water pollution risk.")
	assert.Contains(t, out, "❌ No data found for state: Atlantis")
	assert.Contains(t, out, "❌ No valid data available for Ladakh to make a prediction.")
}

func TestPredict_Wastewater(t *testing.T) {
	h := newHarness(t)
	h.seed(t, &dataset.Wastewater{}, dataset.SourceAPI, wastewaterCSV)

	out := h.run(t, "2\n2\n1\nuttar pradesh\n2023\nn\n0\n0\n")
	assert.Contains(t, out, "Available states: Uttarakhand, Uttar Pradesh, Total")
	assert.Contains(t, out, "Predicted BOD load for Uttar Pradesh in 2023: 255.54 tonnes/day")
	assert.Contains(t, out, "Would you like to predict for another state? (y/n):")
}

func TestPredict_FileProblems(t *testing.T) {
	h := newHarness(t)
	ds := &dataset.PlasticWaste{}

	out := h.run(t, "1\n2\n1\n0\n0\n")
	assert.Contains(t, out, "❌ Data file not found at "+h.store.Path(ds, dataset.SourceAPI)+". Please fetch Plastic Waste data first (Option 1).")

	h = newHarness(t)
	h.seed(t, ds, dataset.SourceSaved, "")
	out = h.run(t, "1\n2\n2\n0\n0\n")
	assert.Contains(t, out, "is empty. Please fetch Plastic Waste data again (Option 1).")

	h = newHarness(t)
	h.seed(t, ds, dataset.SourceSaved, "state_ut_wise,_2020_21\n")
	out = h.run(t, "1\n2\n2\n0\n0\n")
	assert.Contains(t, out, "contains no valid data. Please fetch Plastic Waste data again (Option 1).")
}

func TestPredict_CancelSource(t *testing.T) {
	out := newHarness(t).run(t, "1\n2\n0\n0\n0\n")
	assert.Contains(t, out, "Choose data source for Plastic Waste")
	assert.NotContains(t, out, "Available states")
}

func TestPlot_PlasticWaste(t *testing.T) {
	h := newHarness(t)
	h.seed(t, &dataset.PlasticWaste{}, dataset.SourceSaved, plasticCSV)

	out := h.run(t, "1\n3\n2\nKerala\n2020-21\n0\n0\n")
	assert.Contains(t, out, "✅ Plastic Waste plots saved to the '"+h.plots+"/' directory:")
	for _, name := range []string{
		"plastic_waste_kerala_line.png",
		"plastic_waste_kerala_scatter.png",
		"plastic_waste_kerala_bar.png",
		"plastic_waste_kerala_area.png",
		"plastic_waste_comparison_2020_21.png",
	} {
		path := filepath.Join(h.plots, name)
		assert.Contains(t, out, "  - "+path)
		assert.FileExists(t, path)
	}
}

func TestPlot_PlasticWasteEdgeCases(t *testing.T) {
	h := newHarness(t)
	h.seed(t, &dataset.PlasticWaste{}, dataset.SourceAPI, plasticCSV)

	out := h.run(t, "1\n3\n1\nKerala\n2030-31\n3\n1\nLadakh\n3\n1\nGoa\n0\n0\n")
	assert.Contains(t, out, "❌ Invalid year. Skipping comparison plot.")
	assert.Contains(t, out, "❌ No valid data available for Ladakh to plot.")
	assert.Contains(t, out, "❌ No data found for state: Goa")
	assert.NoFileExists(t, filepath.Join(h.plots, "plastic_waste_comparison_2020_21.png"))
}

func TestPlot_WastewaterAfterPlasticWaste(t *testing.T) {
	h := newHarness(t)
	h.seed(t, &dataset.PlasticWaste{}, dataset.SourceSaved, plasticCSV)
	h.seed(t, &dataset.Wastewater{}, dataset.SourceSaved, wastewaterCSV)

	out := h.run(t, "1\n3\n2\nKerala\nskip\n0\n2\n3\n2\n0\n0\n")
	assert.Contains(t, out, "📊 Replacing the previous Plastic Waste plots.")
	assert.Contains(t, out, "✅ Wastewater plots saved")
	for _, name := range []string{"wastewater_discharge_bar.png", "bod_load_bar.png", "wastewater_bod_combined.png"} {
		assert.FileExists(t, filepath.Join(h.plots, name))
	}
}

func TestFileProblem(t *testing.T) {
	assert.Contains(t, fileProblem(table.ErrNotFound, "p.csv", "Wastewater"), "Data file not found at p.csv")
	assert.Contains(t, fileProblem(eris.New("boom"), "p.csv", "Wastewater"), "Error reading data from p.csv: boom")
}
