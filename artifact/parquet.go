package artifact

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/turbot/brewery-pipeline/filepaths"
	"github.com/turbot/brewery-pipeline/types"
)

// WriteParquet writes rows to a parquet file at path, replacing any existing file
func WriteParquet[T any](path string, rows []T) (*types.ArtifactInfo, error) {
	size, err := filepaths.WriteFileAtomic(path, func(w io.Writer) error {
		return parquet.Write(w, rows, parquet.Compression(&parquet.Snappy))
	})
	if err != nil {
		return nil, err
	}
	return types.NewArtifactInfo(path, len(rows), size), nil
}

// ReadParquet reads every row of the parquet file at path
func ReadParquet[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	return rows, nil
}
