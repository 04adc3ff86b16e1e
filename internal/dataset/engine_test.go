package dataset

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dharti-cli/internal/config"
	"github.com/sells-group/dharti-cli/internal/fetcher"
	"github.com/sells-group/dharti-cli/internal/fetcher/mocks"
	"github.com/sells-group/dharti-cli/internal/table"
)

func testAPIConfig() config.APIConfig {
	return config.APIConfig{
		BaseURL: "https://api.data.gov.in/",
		Key:     "secret-key",
		Limit:   100,
	}
}

func testFetchConfig() config.FetchConfig {
	return config.FetchConfig{Retries: 3, BackoffFactor: 2}
}

func newTestEngine(t *testing.T) (*Engine, *mocks.MockFetcher) {
	t.Helper()
	f := mocks.NewMockFetcher(t)
	return NewEngine(f, newTestStore(t), NewRegistry(), testAPIConfig(), testFetchConfig()), f
}

func forTopic(topic string) any {
	return mock.MatchedBy(func(req fetcher.Request) bool { return req.Topic == topic })
}

func wastewaterResult() *fetcher.Result {
	return &fetcher.Result{
		FetchID:  "fetch-1",
		Attempts: 1,
		Fields:   []string{"state", "wastewater_discharge__mld_", "bod_load__tpd_"},
		Records: []table.Record{
			{"state": "Uttarakhand", "wastewater_discharge__mld_": "120", "bod_load__tpd_": "1.5"},
		},
	}
}

func TestEngine_URL(t *testing.T) {
	e, _ := newTestEngine(t)
	got := e.URL(&Wastewater{})
	assert.Equal(t,
		"https://api.data.gov.in/resource/e374f644-b9d4-4e2a-b55f-f3888859abd6?api-key=secret-key&format=json&limit=100",
		got)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "json", u.Query().Get("format"))
}

func TestEngine_Sync(t *testing.T) {
	e, f := newTestEngine(t)
	ds := &Wastewater{}

	f.On("FetchRecords", mock.Anything, mock.MatchedBy(func(req fetcher.Request) bool {
		return req.Topic == "Wastewater" &&
			req.Retries == 3 &&
			req.BackoffFactor == 2 &&
			strings.Contains(req.URL, "api-key=secret-key")
	})).Return(wastewaterResult(), nil).Once()

	res, err := e.Sync(context.Background(), ds)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, "fetch-1", res.FetchID)
	assert.Equal(t, e.Store().Path(ds, SourceAPI), res.Path)

	m, err := e.Store().Manifest(ds, SourceAPI)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.NotContains(t, m.SourceURL, "secret-key")
	assert.Contains(t, m.SourceURL, "api-key=REDACTED")
	assert.Equal(t, []string{"state", "wastewater_discharge__mld_", "bod_load__tpd_"}, m.Columns)
}

func TestEngine_SyncEmptyRecords(t *testing.T) {
	e, f := newTestEngine(t)
	ds := &Wastewater{}

	f.On("FetchRecords", mock.Anything, forTopic("Wastewater")).
		Return(&fetcher.Result{FetchID: "empty", Attempts: 1}, nil).Once()

	res, err := e.Sync(context.Background(), ds)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, 0, res.Rows)
}

func TestEngine_SyncMissingStateColumn(t *testing.T) {
	e, f := newTestEngine(t)
	ds := &Wastewater{}

	f.On("FetchRecords", mock.Anything, forTopic("Wastewater")).
		Return(&fetcher.Result{
			FetchID:  "no-state",
			Attempts: 1,
			Records:  []table.Record{{"region": "North", "bod_load__tpd_": "2"}},
		}, nil).Once()

	res, err := e.Sync(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.False(t, res.Valid)
	assert.FileExists(t, res.Path)
}

func TestEngine_SyncFetchError(t *testing.T) {
	e, f := newTestEngine(t)
	ds := &PlasticWaste{}

	// A previous fetch must survive a failed one.
	prev := e.Store().Path(ds, SourceAPI)
	require.NoError(t, os.WriteFile(prev, []byte("state_ut_wise\nGoa\n"), 0o644))

	cause := &fetcher.ExhaustedError{Topic: "Plastic Waste", Attempts: 3, Err: eris.New("HTTP 503")}
	f.On("FetchRecords", mock.Anything, forTopic("Plastic Waste")).Return(nil, cause).Once()

	_, err := e.Sync(context.Background(), ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")

	data, readErr := os.ReadFile(prev)
	require.NoError(t, readErr)
	assert.Equal(t, "state_ut_wise\nGoa\n", string(data))
}

func TestEngine_RunPromote(t *testing.T) {
	e, f := newTestEngine(t)
	ds := &Wastewater{}

	f.On("FetchRecords", mock.Anything, forTopic("Wastewater")).Return(wastewaterResult(), nil).Once()

	outcomes, err := e.Run(context.Background(), RunOpts{Datasets: []string{"wastewater"}, Promote: true})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, e.Store().Path(ds, SourceSaved), outcomes[0].Promoted)

	api, err := os.ReadFile(e.Store().Path(ds, SourceAPI))
	require.NoError(t, err)
	saved, err := os.ReadFile(outcomes[0].Promoted)
	require.NoError(t, err)
	assert.Equal(t, api, saved)
}

func TestEngine_RunDoesNotPromoteEmpty(t *testing.T) {
	e, f := newTestEngine(t)
	ds := &Wastewater{}

	f.On("FetchRecords", mock.Anything, forTopic("Wastewater")).
		Return(&fetcher.Result{FetchID: "empty", Attempts: 1}, nil).Once()

	outcomes, err := e.Run(context.Background(), RunOpts{Datasets: []string{"wastewater"}, Promote: true})
	require.Error(t, err)
	require.Len(t, outcomes, 1)
	assert.Error(t, outcomes[0].Err)
	assert.Empty(t, outcomes[0].Promoted)

	_, statErr := os.Stat(e.Store().Path(ds, SourceSaved))
	assert.True(t, os.IsNotExist(statErr))
}

func TestEngine_RunCountsFailures(t *testing.T) {
	e, f := newTestEngine(t)

	f.On("FetchRecords", mock.Anything, forTopic("Plastic Waste")).
		Return(nil, eris.New("boom")).Once()
	f.On("FetchRecords", mock.Anything, forTopic("Wastewater")).
		Return(wastewaterResult(), nil).Once()

	outcomes, err := e.Run(context.Background(), RunOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 datasets failed")
	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
	assert.Empty(t, outcomes[1].Promoted)
}

func TestEngine_RunUnknownDataset(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Run(context.Background(), RunOpts{Datasets: []string{"nope"}})
	assert.Error(t, err)
}

func TestEngine_RunCancelled(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := e.Run(ctx, RunOpts{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, outcomes)
}

func TestEngine_SyncWritesIntoDataDir(t *testing.T) {
	e, f := newTestEngine(t)
	ds := &Wastewater{}
	f.On("FetchRecords", mock.Anything, forTopic("Wastewater")).Return(wastewaterResult(), nil).Once()

	start := time.Now().Add(-time.Second)
	res, err := e.Sync(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, "api_data", filepath.Base(filepath.Dir(res.Path)))

	info, err := os.Stat(res.Path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(start))
}
