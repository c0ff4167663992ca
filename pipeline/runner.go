package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/stage"
)

// Runner sequences the fetch, transform and aggregate stages.
// A stage is only attempted once its predecessor has succeeded.
type Runner struct {
	config *config.PipelineConfig
	opts   []stage.StageOption
}

// NewRunner returns a runner for the given config. The options are applied to every stage;
// unless one sets an execution id, all stages of a run share a newly generated one.
func NewRunner(c *config.PipelineConfig, opts ...stage.StageOption) *Runner {
	return &Runner{config: c, opts: opts}
}

// Run executes the whole pipeline from the start
func (r *Runner) Run(ctx context.Context) (RunState, error) {
	return r.RunFrom(ctx, StatePending)
}

// RunFrom executes the stages which follow the given state.
// It returns the last state reached and the error which halted the run, if any.
func (r *Runner) RunFrom(ctx context.Context, from RunState) (RunState, error) {
	start := from.index()
	if start < 0 {
		return from, fmt.Errorf("invalid run state '%s'", from)
	}

	opts := append([]stage.StageOption{stage.WithExecutionId(uuid.NewString())}, r.opts...)
	steps := []stage.Stage{
		stage.NewFetchStage(r.config, opts...),
		stage.NewTransformStage(r.config, opts...),
		stage.NewAggregateStage(r.config, opts...),
	}

	state := from
	for i := start; i < len(steps); i++ {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		s := steps[i]
		if err := s.Run(ctx); err != nil {
			slog.Error("Pipeline halted", "stage", s.Identifier(), "state", state, "error", err)
			return state, err
		}
		state = runStates[i+1]
		slog.Info("Pipeline advanced", "stage", s.Identifier(), "state", state)
	}
	return state, nil
}
