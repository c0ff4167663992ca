package filepaths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/turbot/brewery-pipeline/constants"
	"github.com/turbot/brewery-pipeline/types"
)

// EnsureDir ensures the given directory exists, creating any missing parents
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}
	return nil
}

// PartitionDir returns <silverRoot>/<country>/<state>
func PartitionDir(silverRoot string, key types.PartitionKey) string {
	return filepath.Join(silverRoot, pathSegment(key.Country), pathSegment(key.State))
}

// PartitionPath returns the path of the parquet file for the given partition
func PartitionPath(silverRoot string, key types.PartitionKey) string {
	return filepath.Join(PartitionDir(silverRoot, key), constants.PartitionFileName)
}

// AggregatePath returns the path of the gold artifact
func AggregatePath(goldRoot string) string {
	return filepath.Join(goldRoot, constants.AggregateFileName)
}

// segmentEscaper escapes '%' along with the separators, so distinct values never share a segment
var segmentEscaper = strings.NewReplacer("%", "%25", "/", "%2F", "\\", "%5C", "\x00", "%00")

// pathSegment makes a partition value safe to use as a single directory name.
// Values are used verbatim unless they contain '%', a separator, or would resolve outside the partition root.
// The mapping is one to one: an escaped value only contains '%' as part of a %XX sequence,
// so the bare "%" used for the empty value cannot be produced by any other value.
func pathSegment(value string) string {
	switch value {
	case "":
		return "%"
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return segmentEscaper.Replace(value)
}
