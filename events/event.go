package events

import "time"

// Event is emitted by a stage to its observers as it makes progress
type Event interface {
	GetStage() string
	GetExecutionId() string
}

type Base struct {
	Stage       string
	ExecutionId string
}

func (b *Base) GetStage() string {
	return b.Stage
}

func (b *Base) GetExecutionId() string {
	return b.ExecutionId
}

type Started struct {
	Base
	Time time.Time
}

func NewStartedEvent(stage, executionId string) *Started {
	return &Started{
		Base: Base{Stage: stage, ExecutionId: executionId},
		Time: time.Now(),
	}
}

// Completed is sent when a stage finishes, whether or not it succeeded
type Completed struct {
	Base
	Duration time.Duration
	Err      error
}

func NewCompletedEvent(stage, executionId string, duration time.Duration, err error) *Completed {
	return &Completed{
		Base:     Base{Stage: stage, ExecutionId: executionId},
		Duration: duration,
		Err:      err,
	}
}
