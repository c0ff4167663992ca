package stage

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/events"
	"github.com/turbot/brewery-pipeline/observable"
	"github.com/turbot/brewery-pipeline/publish"
)

const (
	FetchStageIdentifier     = "fetch"
	TransformStageIdentifier = "transform"
	AggregateStageIdentifier = "aggregate"
)

// Stage is one of the three pipeline operations. Each stage reads only the on-disk
// output of its predecessor and fully regenerates its own artifacts, so any stage may be re-run on its own.
type Stage interface {
	observable.Observable
	Identifier() string
	Run(ctx context.Context) error
}

type StageOption func(*StageImpl)

// WithObserver adds an observer which receives the stage events
func WithObserver(o observable.Observer) StageOption {
	return func(s *StageImpl) {
		s.AddObserver(o)
	}
}

// WithExecutionId sets the id attached to every event and log line; by default a new uuid is used
func WithExecutionId(id string) StageOption {
	return func(s *StageImpl) {
		s.ExecutionId = id
	}
}

// WithHttpClient sets the client the fetch stage uses
func WithHttpClient(c *http.Client) StageOption {
	return func(s *StageImpl) {
		s.httpClient = c
	}
}

// WithPublisher sets the publisher the aggregate stage uploads the gold artifact with,
// in place of one built from the publish config block
func WithPublisher(p publish.Publisher) StageOption {
	return func(s *StageImpl) {
		s.publisher = p
	}
}

// StageImpl provides the behaviour common to all stages, and is embedded in each of them
type StageImpl struct {
	observable.ObservableImpl

	Config      *config.PipelineConfig
	ExecutionId string

	httpClient *http.Client
	publisher  publish.Publisher
}

func (s *StageImpl) init(c *config.PipelineConfig, opts ...StageOption) {
	s.Config = c
	for _, opt := range opts {
		opt(s)
	}
	if s.ExecutionId == "" {
		s.ExecutionId = uuid.NewString()
	}
}

// execute runs f, logging and raising the started/completed events around it
func (s *StageImpl) execute(ctx context.Context, stage string, f func() error) error {
	start := time.Now()
	slog.Info("Stage started", "stage", stage, "execution_id", s.ExecutionId)
	s.notify(ctx, events.NewStartedEvent(stage, s.ExecutionId))

	err := f()

	duration := time.Since(start)
	if err != nil {
		slog.Error("Stage failed", "stage", stage, "execution_id", s.ExecutionId, "duration", duration, "error", err)
	} else {
		slog.Info("Stage complete", "stage", stage, "execution_id", s.ExecutionId, "duration", duration)
	}
	s.notify(ctx, events.NewCompletedEvent(stage, s.ExecutionId, duration, err))
	return err
}

// notify sends an event to all observers. An observer failure is logged but never fails the stage.
func (s *StageImpl) notify(ctx context.Context, e events.Event) {
	if err := s.NotifyObservers(ctx, e); err != nil {
		slog.Warn("Failed to notify observers", "stage", e.GetStage(), "execution_id", s.ExecutionId, "error", err)
	}
}
