package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/brewery-pipeline/artifact"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/error_helpers"
	"github.com/turbot/brewery-pipeline/filepaths"
	"github.com/turbot/brewery-pipeline/stage"
	"github.com/turbot/brewery-pipeline/types"
)

const snapshot = `[
  {"id": "a", "name": "A", "brewery_type": "micro", "city": "X", "state": "CA", "country": "US"},
  {"id": "b", "name": "B", "brewery_type": "micro", "city": "Y", "state": "CA", "country": "US"},
  {"id": "c", "name": "C", "brewery_type": "brewpub", "city": "Z", "state": "O'Higgins", "country": "Chile"},
  {"id": "d", "name": "D", "brewery_type": null, "city": "W", "state": "Cork", "country": "Ireland"},
  {"id": null, "name": "E", "brewery_type": "nano", "city": "V", "state": "Cork", "country": "Ireland"},
  {"id": "f", "name": "F", "brewery_type": "micro", "city": "U", "state": null, "country": "US"}
]`

func testConfig(t *testing.T) *config.PipelineConfig {
	dir := t.TempDir()
	c := &config.PipelineConfig{
		SourceURL:  "http://localhost",
		RawPath:    filepath.Join(dir, "raw", "breweries_raw.json"),
		SilverRoot: filepath.Join(dir, "silver"),
		GoldRoot:   filepath.Join(dir, "gold"),
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(c.RawPath), 0755))
	require.NoError(t, os.WriteFile(c.RawPath, []byte(snapshot), 0644))
	return c
}

func build(t *testing.T, c *config.PipelineConfig) {
	ctx := context.Background()
	_, err := stage.Transform(ctx, c)
	require.NoError(t, err)
	_, err = stage.Aggregate(ctx, c)
	require.NoError(t, err)
}

func TestVerify_RoundTrip(t *testing.T) {
	c := testConfig(t)
	build(t, c)

	report, err := Verify(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, report.OK(), report.Mismatches)
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, 2, report.Groups)
}

func TestVerify_DetectsMismatch(t *testing.T) {
	tests := []struct {
		name           string
		gold           []types.BreweryAggregate
		wantMismatches []Mismatch
		wantSorted     bool
	}{
		{
			name: "wrong count",
			gold: []types.BreweryAggregate{
				{Country: "Chile", State: "O'Higgins", BreweryType: "brewpub", BreweryCount: 1},
				{Country: "US", State: "CA", BreweryType: "micro", BreweryCount: 3},
			},
			wantMismatches: []Mismatch{
				{Key: types.AggregateKey{Country: "US", State: "CA", BreweryType: "micro"}, Expected: 2, Actual: 3},
			},
			wantSorted: true,
		},
		{
			name: "missing and extra groups",
			gold: []types.BreweryAggregate{
				{Country: "Ireland", State: "Cork", BreweryType: "nano", BreweryCount: 1},
				{Country: "US", State: "CA", BreweryType: "micro", BreweryCount: 2},
			},
			wantMismatches: []Mismatch{
				{Key: types.AggregateKey{Country: "Chile", State: "O'Higgins", BreweryType: "brewpub"}, Expected: 1},
				{Key: types.AggregateKey{Country: "Ireland", State: "Cork", BreweryType: "nano"}, Actual: 1},
			},
			wantSorted: true,
		},
		{
			name: "unsorted",
			gold: []types.BreweryAggregate{
				{Country: "US", State: "CA", BreweryType: "micro", BreweryCount: 2},
				{Country: "Chile", State: "O'Higgins", BreweryType: "brewpub", BreweryCount: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testConfig(t)
			build(t, c)
			_, err := artifact.WriteParquet(filepaths.AggregatePath(c.GoldRoot), tt.gold)
			require.NoError(t, err)

			report, err := Verify(context.Background(), c)
			require.NoError(t, err)
			assert.False(t, report.OK())
			assert.Equal(t, tt.wantSorted, report.Sorted)
			assert.Equal(t, tt.wantMismatches, report.Mismatches)
		})
	}
}

func TestVerify_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, c *config.PipelineConfig)
		wantKind error_helpers.ErrorKind
	}{
		{
			name:     "no silver root",
			setup:    func(*testing.T, *config.PipelineConfig) {},
			wantKind: error_helpers.KindArtifactMissing,
		},
		{
			name: "empty silver root",
			setup: func(t *testing.T, c *config.PipelineConfig) {
				require.NoError(t, os.MkdirAll(c.SilverRoot, 0755))
			},
			wantKind: error_helpers.KindEmptyInput,
		},
		{
			name: "no gold",
			setup: func(t *testing.T, c *config.PipelineConfig) {
				_, err := stage.Transform(context.Background(), c)
				require.NoError(t, err)
			},
			wantKind: error_helpers.KindArtifactMissing,
		},
		{
			name: "gold has the wrong columns",
			setup: func(t *testing.T, c *config.PipelineConfig) {
				build(t, c)
				// a partition file in place of the aggregate
				_, err := artifact.WriteParquet(filepaths.AggregatePath(c.GoldRoot), []types.Brewery{{State: "CA", Country: "US"}})
				require.NoError(t, err)
			},
			wantKind: error_helpers.KindMalformedInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testConfig(t)
			tt.setup(t, c)

			_, err := Verify(context.Background(), c)
			require.Error(t, err)
			assert.True(t, error_helpers.IsKind(err, tt.wantKind), err.Error())
		})
	}
}

func TestParquetSource(t *testing.T) {
	assert.Equal(t, `read_parquet(['/a/b.parquet', '/it''s/c.parquet'])`, parquetSource("/a/b.parquet", "/it's/c.parquet"))
}
