package stage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/turbot/brewery-pipeline/artifact"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/events"
	"github.com/turbot/brewery-pipeline/rate_limiter"
	"github.com/turbot/brewery-pipeline/source"
	"github.com/turbot/brewery-pipeline/types"
)

// FetchResult describes the raw snapshot written by a fetch
type FetchResult struct {
	Artifact *types.ArtifactInfo
}

// FetchStage retrieves a full snapshot from the source URL and writes it to the raw path
type FetchStage struct {
	StageImpl
}

func NewFetchStage(c *config.PipelineConfig, opts ...StageOption) *FetchStage {
	s := &FetchStage{}
	s.init(c, opts...)
	return s
}

func (s *FetchStage) Identifier() string {
	return FetchStageIdentifier
}

func (s *FetchStage) Run(ctx context.Context) error {
	_, err := s.Fetch(ctx)
	return err
}

// Fetch performs a single GET against the source. The raw artifact is only replaced once a
// complete 200 response has been received - any other outcome leaves it untouched.
func (s *FetchStage) Fetch(ctx context.Context) (*FetchResult, error) {
	var res *FetchResult
	err := s.execute(ctx, s.Identifier(), func() error {
		src := s.source()
		slog.Info("Fetching snapshot", "source", src.Identifier(), "url", src.URL())
		body, err := src.Fetch(ctx, s.Identifier())
		if err != nil {
			return err
		}

		info, err := artifact.WriteRawJSON(s.Config.RawPath, body)
		if err != nil {
			return fmt.Errorf("failed to write raw snapshot: %w", err)
		}
		s.notify(ctx, events.NewArtifactWrittenEvent(s.Identifier(), s.ExecutionId, info))

		res = &FetchResult{Artifact: info}
		return nil
	})
	return res, err
}

func (s *FetchStage) source() *source.HttpSource {
	var opts []source.HttpSourceOption
	if s.httpClient != nil {
		opts = append(opts, source.WithHttpClient(s.httpClient))
	}
	if timeout := s.Config.GetHttpTimeout(); timeout > 0 {
		opts = append(opts, source.WithTimeout(timeout))
	}
	if s.Config.RateLimit != nil {
		opts = append(opts, source.WithRateLimiter(rate_limiter.NewLimiter(s.Config.RateLimit)))
	}
	return source.NewHttpSource(s.Config.SourceURL, opts...)
}

// Fetch runs a fetch stage with the given config
func Fetch(ctx context.Context, c *config.PipelineConfig, opts ...StageOption) (*FetchResult, error) {
	return NewFetchStage(c, opts...).Fetch(ctx)
}
