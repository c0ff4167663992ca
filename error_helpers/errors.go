package error_helpers

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the fatal conditions a stage can surface to its caller
type ErrorKind string

const (
	KindSourceUnavailable ErrorKind = "source_unavailable"
	KindArtifactMissing   ErrorKind = "artifact_missing"
	KindMalformedInput    ErrorKind = "malformed_input"
	KindEmptyInput        ErrorKind = "empty_input"
	KindPublishFailed     ErrorKind = "publish_failed"
)

// sentinels, usable with errors.Is against any PipelineError of the same kind
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrArtifactMissing   = errors.New("artifact missing")
	ErrMalformedInput    = errors.New("malformed input")
	ErrEmptyInput        = errors.New("empty input")
	ErrPublishFailed     = errors.New("publish failed")
)

var kindSentinels = map[ErrorKind]error{
	KindSourceUnavailable: ErrSourceUnavailable,
	KindArtifactMissing:   ErrArtifactMissing,
	KindMalformedInput:    ErrMalformedInput,
	KindEmptyInput:        ErrEmptyInput,
	KindPublishFailed:     ErrPublishFailed,
}

// PipelineError is returned by a stage for every fatal condition it detects itself.
type PipelineError struct {
	Kind  ErrorKind
	Stage string
	// Path is the artifact or endpoint the error relates to
	Path string
	// StatusCode is set for SourceUnavailable errors caused by a non-success HTTP response
	StatusCode int
	Err        error
}

func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Stage, kindSentinels[e.Kind])
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for this error's kind
func (e *PipelineError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// IsKind returns whether err, or anything it wraps, is a PipelineError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var pe *PipelineError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == kind
}

func NewSourceUnavailableError(stage, url string, statusCode int, err error) *PipelineError {
	return &PipelineError{Kind: KindSourceUnavailable, Stage: stage, Path: url, StatusCode: statusCode, Err: err}
}

func NewArtifactMissingError(stage, path string, err error) *PipelineError {
	return &PipelineError{Kind: KindArtifactMissing, Stage: stage, Path: path, Err: err}
}

func NewMalformedInputError(stage, path string, err error) *PipelineError {
	return &PipelineError{Kind: KindMalformedInput, Stage: stage, Path: path, Err: err}
}

func NewEmptyInputError(stage, path string) *PipelineError {
	return &PipelineError{Kind: KindEmptyInput, Stage: stage, Path: path}
}

func NewPublishFailedError(stage, target string, err error) *PipelineError {
	return &PipelineError{Kind: KindPublishFailed, Stage: stage, Path: target, Err: err}
}
