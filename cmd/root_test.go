package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dharti-cli/internal/dataset"
	"github.com/sells-group/dharti-cli/internal/fetcher"
	"github.com/sells-group/dharti-cli/internal/table"
)

const wastewaterCSV = `state,wastewater_discharge__mld_,bod_load__tpd_
Uttarakhand,120,1.5
Bihar,600,4
Total,720,5.5
`

// execute runs the root command with args in a fresh working directory
// and returns its stdout.
func execute(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, dir, sub, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, "data", sub, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"fetch", "predict", "plot", "datasets", "export"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "dharti-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCommandFlags(t *testing.T) {
	flag := fetchCmd.Flags().Lookup("promote")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)

	for _, cmd := range []string{"predict", "plot", "export"} {
		c, _, err := rootCmd.Find([]string{cmd})
		require.NoError(t, err)
		src := c.Flags().Lookup("source")
		require.NotNil(t, src, "%s should have --source", cmd)
		assert.Equal(t, "api", src.DefValue)
	}

	assert.NotNil(t, predictCmd.Flags().Lookup("state"))
	assert.NotNil(t, predictCmd.Flags().Lookup("year"))
	assert.NotNil(t, plotCmd.Flags().Lookup("year"))
	assert.NotNil(t, exportCmd.Flags().Lookup("out"))
}

func TestInteractiveMenu_Exit(t *testing.T) {
	out, err := execute(t, t.TempDir(), "0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "DhartiMetrics")
	assert.Contains(t, out, "Goodbye!")
}

func TestDatasetsCommand(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "SavedData", "wastewater_data.csv", wastewaterCSV)

	out, err := execute(t, dir, "", "datasets")
	require.NoError(t, err)
	assert.Contains(t, out, "DATASET")
	assert.Contains(t, out, (&dataset.PlasticWaste{}).Description())
	assert.Contains(t, out, (&dataset.Wastewater{}).Description())
	assert.Contains(t, out, "plastic_waste")
	assert.Contains(t, out, "dataset: api file")

	var wastewaterSaved string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "wastewater") && strings.Contains(line, "saved") {
			wastewaterSaved = line
		}
	}
	require.NotEmpty(t, wastewaterSaved)
	assert.Contains(t, wastewaterSaved, " ok ")
}

func TestPredictCommand(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "SavedData", "wastewater_data.csv", wastewaterCSV)

	out, err := execute(t, dir, "", "predict", "wastewater", "--state", "bihar", "--year", "2022", "--source", "saved")
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted BOD load for Bihar in 2022: 4.04 tonnes/day")
	assert.Contains(t, out, "Impact level: moderate")
}

func TestPredictCommand_MissingFile(t *testing.T) {
	_, err := execute(t, t.TempDir(), "", "predict", "plastic_waste", "--state", "Goa", "--year", "2025", "--source", "api")
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrNotFound)
}

func TestPlotCommand_Wastewater(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "api_data", "wastewater_data.csv", wastewaterCSV)

	out, err := execute(t, dir, "", "plot", "wastewater", "--source", "api")
	require.NoError(t, err)
	assert.Contains(t, out, "Wastewater plots saved to plots")
	for _, name := range []string{"wastewater_discharge_bar.png", "bod_load_bar.png", "wastewater_bod_combined.png"} {
		assert.FileExists(t, filepath.Join(dir, "plots", name))
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "SavedData", "wastewater_data.csv", wastewaterCSV)

	out, err := execute(t, dir, "", "export", "wastewater", "--source", "saved", "--out", "ww.xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 Wastewater rows to ww.xlsx")

	got, err := table.ReadXLSX(filepath.Join(dir, "ww.xlsx"), "wastewater")
	require.NoError(t, err)
	assert.Equal(t, []string{"state", "wastewater_discharge__mld_", "bod_load__tpd_"}, got.Columns)
	assert.Equal(t, 3, got.Len())
}

func TestFetchCommand_Promote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, (&dataset.Wastewater{}).ResourceID()):
			_, _ = w.Write([]byte(`{"field":[{"id":"state"},{"id":"bod_load__tpd_"}],"records":[{"state":"Bihar","bod_load__tpd_":"4"}]}`))
		default:
			_, _ = w.Write([]byte(`{"records":[{"state_ut_wise":"Goa","_2020_21":"42"}]}`))
		}
	}))
	defer srv.Close()

	t.Setenv("DHARTI_API_BASE_URL", srv.URL)
	t.Setenv("DHARTI_API_KEY", "test-key")
	t.Setenv("DHARTI_API_RATE_PER_SEC", "0")

	dir := t.TempDir()
	start := time.Now()
	out, err := execute(t, dir, "", "fetch", "--promote")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)

	assert.Contains(t, out, "Initiating Wastewater data fetch from")
	assert.Contains(t, out, "promoted to")
	assert.NotContains(t, out, "test-key")

	saved, err := os.ReadFile(filepath.Join(dir, "data", "SavedData", "wastewater_data.csv"))
	require.NoError(t, err)
	assert.Equal(t, "state,bod_load__tpd_\nBihar,4\n", string(saved))
	assert.FileExists(t, filepath.Join(dir, "data", "SavedData", "plastic_waste_data.csv"))
}

func TestFormatOutcomes(t *testing.T) {
	var buf bytes.Buffer
	formatOutcomes(&buf, []dataset.Outcome{
		{
			Dataset:  &dataset.Wastewater{},
			Result:   &dataset.SyncResult{Rows: 3, Attempts: 1, Path: "data/api_data/wastewater_data.csv"},
			Promoted: "data/SavedData/wastewater_data.csv",
		},
		{
			Dataset: &dataset.PlasticWaste{},
			Err:     &fetcher.ExhaustedError{Topic: "Plastic Waste", Attempts: 3, Err: eris.New("HTTP 503")},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "promoted to data/SavedData/wastewater_data.csv")
	assert.Contains(t, out, "failed to fetch Plastic Waste data after 3 attempts")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestFetchCommand_RejectsUnknownDataset(t *testing.T) {
	_, err := execute(t, t.TempDir(), "", "fetch", "air_quality")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid argument "air_quality"`)
}
