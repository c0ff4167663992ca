package filepaths

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/brewery-pipeline/types"
)

func TestPartitionPath(t *testing.T) {
	tests := []struct {
		name string
		key  types.PartitionKey
		want string
	}{
		{
			name: "plain",
			key:  types.PartitionKey{Country: "US", State: "CA"},
			want: "/silver/US/CA/breweries.parquet",
		},
		{
			name: "spaces kept",
			key:  types.PartitionKey{Country: "United States", State: "New York"},
			want: "/silver/United States/New York/breweries.parquet",
		},
		{
			name: "separator escaped",
			key:  types.PartitionKey{Country: "Scotland/UK", State: "Highland"},
			want: "/silver/Scotland%2FUK/Highland/breweries.parquet",
		},
		{
			name: "traversal escaped",
			key:  types.PartitionKey{Country: "..", State: ""},
			want: "/silver/%2E%2E/%/breweries.parquet",
		},
		{
			name: "underscore kept",
			key:  types.PartitionKey{Country: "_", State: "CA"},
			want: "/silver/_/CA/breweries.parquet",
		},
		{
			name: "percent escaped",
			key:  types.PartitionKey{Country: "US", State: "a%2Fb"},
			want: "/silver/US/a%252Fb/breweries.parquet",
		},
		{
			name: "escaped dot literal",
			key:  types.PartitionKey{Country: "%2E", State: "%"},
			want: "/silver/%252E/%25/breweries.parquet",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), PartitionPath(filepath.FromSlash("/silver"), tt.key))
		})
	}
}

func TestPartitionPath_Distinct(t *testing.T) {
	tests := []struct {
		name string
		a, b types.PartitionKey
	}{
		{name: "empty and underscore", a: types.PartitionKey{Country: "", State: "CA"}, b: types.PartitionKey{Country: "_", State: "CA"}},
		{name: "empty and percent", a: types.PartitionKey{Country: "", State: "CA"}, b: types.PartitionKey{Country: "%", State: "CA"}},
		{name: "slash and escaped slash", a: types.PartitionKey{Country: "US", State: "a/b"}, b: types.PartitionKey{Country: "US", State: "a%2Fb"}},
		{name: "dot and escaped dot", a: types.PartitionKey{Country: ".", State: "CA"}, b: types.PartitionKey{Country: "%2E", State: "CA"}},
		{name: "nul and escaped nul", a: types.PartitionKey{Country: "US", State: "\x00"}, b: types.PartitionKey{Country: "US", State: "%00"}},
		{name: "empty and nul", a: types.PartitionKey{Country: "", State: "CA"}, b: types.PartitionKey{Country: "\x00", State: "CA"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, PartitionPath("/silver", tt.a), PartitionPath("/silver", tt.b))
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "raw", "breweries_raw.json")

	size, err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("[]"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)

	// a failed write leaves the previous content in place and no temp files behind
	_, err = WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("[{"))
		return errors.New("boom")
	})
	require.Error(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(content))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
