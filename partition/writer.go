package partition

import (
	"log/slog"

	"github.com/turbot/brewery-pipeline/artifact"
	"github.com/turbot/brewery-pipeline/filepaths"
	"github.com/turbot/brewery-pipeline/types"
)

// Writer materialises partitions under a silver root as <root>/<country>/<state>/breweries.parquet
type Writer struct {
	root string
}

func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Write replaces the partition file for p.Key with p.Rows.
// Partitions not written in a run are left as they are.
func (w *Writer) Write(p *Partition) (*types.ArtifactInfo, error) {
	path := filepaths.PartitionPath(w.root, p.Key)
	info, err := artifact.WriteParquet(path, p.Rows)
	if err != nil {
		return nil, err
	}
	slog.Debug("Wrote partition", "partition", p.Key.String(), "path", path, "rows", info.Rows)
	return info, nil
}
