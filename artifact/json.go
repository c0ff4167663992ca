package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/turbot/brewery-pipeline/constants"
	"github.com/turbot/brewery-pipeline/filepaths"
	"github.com/turbot/brewery-pipeline/types"
)

// WriteRawJSON writes the snapshot body to path, indented.
// A body which is not valid JSON is written verbatim - it is the transform stage which rejects it.
func WriteRawJSON(path string, body []byte) (*types.ArtifactInfo, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", constants.RawJSONIndent); err != nil {
		slog.Warn("snapshot body is not valid JSON, writing verbatim", "path", path, "error", err)
		buf.Reset()
		buf.Write(body)
	}

	size, err := filepaths.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	})
	if err != nil {
		return nil, err
	}
	return types.NewArtifactInfo(path, 0, size), nil
}

// ReadRawJSON decodes the snapshot at path
func ReadRawJSON(path string) ([]types.RawBrewery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res []types.RawBrewery
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return res, nil
}
