package stage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/turbot/brewery-pipeline/artifact"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/error_helpers"
	"github.com/turbot/brewery-pipeline/events"
	"github.com/turbot/brewery-pipeline/filepaths"
	"github.com/turbot/brewery-pipeline/partition"
	"github.com/turbot/brewery-pipeline/types"
)

// TransformResult summarises a transform run
type TransformResult struct {
	// Total is the number of records in the raw snapshot
	Total int
	Kept  int
	// Dropped is the number of records removed because state or country was null
	Dropped    int
	Partitions []*types.ArtifactInfo
}

// TransformStage cleans the raw snapshot and writes it as one parquet file per (country, state)
type TransformStage struct {
	StageImpl
}

func NewTransformStage(c *config.PipelineConfig, opts ...StageOption) *TransformStage {
	s := &TransformStage{}
	s.init(c, opts...)
	return s
}

func (s *TransformStage) Identifier() string {
	return TransformStageIdentifier
}

func (s *TransformStage) Run(ctx context.Context) error {
	_, err := s.Transform(ctx)
	return err
}

func (s *TransformStage) Transform(ctx context.Context) (*TransformResult, error) {
	var res *TransformResult
	err := s.execute(ctx, s.Identifier(), func() error {
		var err error
		res, err = s.transform(ctx)
		return err
	})
	return res, err
}

func (s *TransformStage) transform(ctx context.Context) (*TransformResult, error) {
	rawPath := s.Config.RawPath
	if _, err := os.Stat(rawPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, error_helpers.NewArtifactMissingError(s.Identifier(), rawPath, err)
		}
		return nil, fmt.Errorf("failed to stat raw snapshot %s: %w", rawPath, err)
	}

	raw, err := artifact.ReadRawJSON(rawPath)
	if err != nil {
		slog.Error("Failed to parse raw snapshot", "path", rawPath, "error", err)
		return nil, error_helpers.NewMalformedInputError(s.Identifier(), rawPath, err)
	}

	res := &TransformResult{Total: len(raw)}
	cleaned := make([]*types.Brewery, 0, len(raw))
	for i := range raw {
		if b, ok := raw[i].Clean(); ok {
			cleaned = append(cleaned, b)
		}
	}
	res.Kept = len(cleaned)
	res.Dropped = res.Total - res.Kept
	slog.Info("Filtered raw records", "total", res.Total, "kept", res.Kept, "dropped", res.Dropped)
	s.notify(ctx, events.NewRowsFilteredEvent(s.Identifier(), s.ExecutionId, res.Total, res.Kept, res.Dropped))

	// the silver root exists after every successful transform, even one which produced no partitions
	if err := filepaths.EnsureDir(s.Config.SilverRoot); err != nil {
		return nil, err
	}

	writer := partition.NewWriter(s.Config.SilverRoot)
	for _, p := range partition.Group(cleaned) {
		info, err := writer.Write(p)
		if err != nil {
			return nil, fmt.Errorf("failed to write partition %s: %w", p.Key, err)
		}
		res.Partitions = append(res.Partitions, info)
		s.notify(ctx, events.NewArtifactWrittenEvent(s.Identifier(), s.ExecutionId, info))
	}
	slog.Info("Wrote partitions", "silver_root", s.Config.SilverRoot, "partitions", len(res.Partitions))

	return res, nil
}

// Transform runs a transform stage with the given config
func Transform(ctx context.Context, c *config.PipelineConfig, opts ...StageOption) (*TransformResult, error) {
	return NewTransformStage(c, opts...).Transform(ctx)
}
