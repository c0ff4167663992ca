package stage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/turbot/brewery-pipeline/artifact"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/constants"
	"github.com/turbot/brewery-pipeline/error_helpers"
	"github.com/turbot/brewery-pipeline/events"
	"github.com/turbot/brewery-pipeline/filepaths"
	"github.com/turbot/brewery-pipeline/publish"
	"github.com/turbot/brewery-pipeline/types"
	"golang.org/x/exp/maps"
)

// AggregateResult summarises an aggregate run
type AggregateResult struct {
	// Files is the number of partition files read
	Files int
	// Rows is the number of cleaned records read across all files
	Rows     int
	Artifact *types.ArtifactInfo
	// PublishedTo is set if the gold artifact was published
	PublishedTo string
}

// AggregateStage counts breweries per (country, state, brewery_type) across every silver partition
type AggregateStage struct {
	StageImpl
}

func NewAggregateStage(c *config.PipelineConfig, opts ...StageOption) *AggregateStage {
	s := &AggregateStage{}
	s.init(c, opts...)
	return s
}

func (s *AggregateStage) Identifier() string {
	return AggregateStageIdentifier
}

func (s *AggregateStage) Run(ctx context.Context) error {
	_, err := s.Aggregate(ctx)
	return err
}

func (s *AggregateStage) Aggregate(ctx context.Context) (*AggregateResult, error) {
	var res *AggregateResult
	err := s.execute(ctx, s.Identifier(), func() error {
		var err error
		res, err = s.aggregate(ctx)
		return err
	})
	return res, err
}

func (s *AggregateStage) aggregate(ctx context.Context) (*AggregateResult, error) {
	silverRoot := s.Config.SilverRoot
	info, err := os.Stat(silverRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, error_helpers.NewArtifactMissingError(s.Identifier(), silverRoot, err)
		}
		return nil, fmt.Errorf("failed to stat silver root %s: %w", silverRoot, err)
	}
	if !info.IsDir() {
		return nil, error_helpers.NewArtifactMissingError(s.Identifier(), silverRoot, fmt.Errorf("%s is not a directory", silverRoot))
	}

	// directory names are not trusted - keys are re-derived from the rows themselves
	files, err := artifact.DiscoverFiles(silverRoot, types.NewSuffixFilter(constants.ParquetExtension))
	if err != nil {
		return nil, fmt.Errorf("failed to discover partition files under %s: %w", silverRoot, err)
	}
	if len(files) == 0 {
		return nil, error_helpers.NewEmptyInputError(s.Identifier(), silverRoot)
	}

	var rows []types.Brewery
	for _, f := range files {
		fileRows, err := artifact.ReadParquet[types.Brewery](f)
		if err != nil {
			return nil, error_helpers.NewMalformedInputError(s.Identifier(), f, err)
		}
		rows = append(rows, fileRows...)
	}
	slog.Info("Loaded partitions", "files", len(files), "rows", len(rows))

	aggregated := aggregateBreweries(rows)

	goldPath := filepaths.AggregatePath(s.Config.GoldRoot)
	written, err := artifact.WriteParquet(goldPath, aggregated)
	if err != nil {
		return nil, fmt.Errorf("failed to write aggregate: %w", err)
	}
	s.notify(ctx, events.NewArtifactWrittenEvent(s.Identifier(), s.ExecutionId, written))
	slog.Info("Wrote aggregate", "path", goldPath, "groups", written.Rows)

	res := &AggregateResult{
		Files:    len(files),
		Rows:     len(rows),
		Artifact: written,
	}

	if res.PublishedTo, err = s.publish(ctx, goldPath); err != nil {
		return nil, error_helpers.NewPublishFailedError(s.Identifier(), goldPath, err)
	}
	return res, nil
}

// publish uploads the gold artifact if a publisher is configured
func (s *AggregateStage) publish(ctx context.Context, goldPath string) (string, error) {
	p := s.publisher
	if p == nil {
		if s.Config.Publish == nil {
			return "", nil
		}
		var err error
		p, err = publish.New(ctx, s.Config.Publish)
		if err != nil {
			return "", err
		}
		defer p.Close()
	}

	dest, err := p.Publish(ctx, goldPath)
	if err != nil {
		return "", err
	}
	s.notify(ctx, events.NewArtifactPublishedEvent(s.Identifier(), s.ExecutionId, p.Identifier(), dest))
	return dest, nil
}

// aggregateBreweries counts rows per (country, state, brewery_type), sorted by key.
// Rows with a null brewery_type or id are not counted, so every group has a count of at least 1.
func aggregateBreweries(rows []types.Brewery) []types.BreweryAggregate {
	counts := make(map[types.AggregateKey]int64)
	for _, r := range rows {
		if r.BreweryType == nil || r.Id == nil {
			continue
		}
		counts[types.AggregateKey{Country: r.Country, State: r.State, BreweryType: *r.BreweryType}]++
	}

	keys := maps.Keys(counts)
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	res := make([]types.BreweryAggregate, len(keys))
	for i, k := range keys {
		res[i] = types.BreweryAggregate{
			Country:      k.Country,
			State:        k.State,
			BreweryType:  k.BreweryType,
			BreweryCount: counts[k],
		}
	}
	return res
}

// Aggregate runs an aggregate stage with the given config
func Aggregate(ctx context.Context, c *config.PipelineConfig, opts ...StageOption) (*AggregateResult, error) {
	return NewAggregateStage(c, opts...).Aggregate(ctx)
}
