package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/error_helpers"
	"github.com/turbot/brewery-pipeline/events"
	"github.com/turbot/brewery-pipeline/filepaths"
	"github.com/turbot/brewery-pipeline/observable"
	"github.com/turbot/brewery-pipeline/stage"
)

const snapshot = `[{"id": 1, "name": "A", "brewery_type": "micro", "city": "X", "state": "CA", "country": "US"}]`

func newConfig(t *testing.T, status int) *config.PipelineConfig {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(snapshot))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return &config.PipelineConfig{
		SourceURL:  srv.URL,
		RawPath:    filepath.Join(dir, "raw", "breweries_raw.json"),
		SilverRoot: filepath.Join(dir, "silver"),
		GoldRoot:   filepath.Join(dir, "gold"),
	}
}

func TestParseRunState(t *testing.T) {
	tests := []struct {
		in      string
		want    RunState
		wantErr bool
	}{
		{in: "", want: StatePending},
		{in: "PENDING", want: StatePending},
		{in: "fetch", want: StateFetched},
		{in: "Fetched", want: StateFetched},
		{in: "transform", want: StateCleaned},
		{in: "cleaned", want: StateCleaned},
		{in: "aggregate", want: StateAggregated},
		{in: "publish", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRunState(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunner_Run(t *testing.T) {
	c := newConfig(t, http.StatusOK)
	var executionIds []string
	var stages []string
	observer := observable.ObserverFunc(func(_ context.Context, e events.Event) error {
		if _, ok := e.(*events.Started); ok {
			stages = append(stages, e.GetStage())
			executionIds = append(executionIds, e.GetExecutionId())
		}
		return nil
	})

	state, err := NewRunner(c, stage.WithObserver(observer)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAggregated, state)
	assert.FileExists(t, filepaths.AggregatePath(c.GoldRoot))

	assert.Equal(t, []string{"fetch", "transform", "aggregate"}, stages)
	require.Len(t, executionIds, 3)
	assert.Equal(t, executionIds[0], executionIds[1])
	assert.Equal(t, executionIds[0], executionIds[2])
}

func TestRunner_HaltsOnFailure(t *testing.T) {
	c := newConfig(t, http.StatusServiceUnavailable)

	state, err := NewRunner(c).Run(context.Background())
	assert.Equal(t, StatePending, state)
	assert.True(t, error_helpers.IsKind(err, error_helpers.KindSourceUnavailable))
	assert.NoDirExists(t, c.SilverRoot)
	assert.NoFileExists(t, filepaths.AggregatePath(c.GoldRoot))
}

func TestRunner_RunFrom(t *testing.T) {
	tests := []struct {
		name      string
		from      RunState
		rawExists bool
		wantState RunState
		wantKind  error_helpers.ErrorKind
	}{
		{name: "from fetched", from: StateFetched, rawExists: true, wantState: StateAggregated},
		{name: "from fetched without raw", from: StateFetched, wantState: StateFetched, wantKind: error_helpers.KindArtifactMissing},
		{name: "from cleaned without silver", from: StateCleaned, wantState: StateCleaned, wantKind: error_helpers.KindArtifactMissing},
		{name: "already aggregated", from: StateAggregated, wantState: StateAggregated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the source fails, so any attempt to fetch would halt the run
			c := newConfig(t, http.StatusServiceUnavailable)
			if tt.rawExists {
				require.NoError(t, os.MkdirAll(filepath.Dir(c.RawPath), 0755))
				require.NoError(t, os.WriteFile(c.RawPath, []byte(snapshot), 0644))
			}

			state, err := NewRunner(c).RunFrom(context.Background(), tt.from)
			assert.Equal(t, tt.wantState, state)
			if tt.wantKind != "" {
				assert.True(t, error_helpers.IsKind(err, tt.wantKind), err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRunner_RunFromInvalidState(t *testing.T) {
	_, err := NewRunner(newConfig(t, http.StatusOK)).RunFrom(context.Background(), RunState("BOGUS"))
	assert.Error(t, err)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := NewRunner(newConfig(t, http.StatusOK)).Run(ctx)
	assert.Equal(t, StatePending, state)
	assert.ErrorIs(t, err, context.Canceled)
}
