package events

import "github.com/turbot/brewery-pipeline/types"

// ArtifactWritten is sent for every raw, partition or aggregate file a stage writes
type ArtifactWritten struct {
	Base
	Info *types.ArtifactInfo
}

func NewArtifactWrittenEvent(stage, executionId string, info *types.ArtifactInfo) *ArtifactWritten {
	return &ArtifactWritten{
		Base: Base{Stage: stage, ExecutionId: executionId},
		Info: info,
	}
}

// ArtifactPublished is sent when an artifact has been copied to a publish destination
type ArtifactPublished struct {
	Base
	Publisher   string
	Destination string
}

func NewArtifactPublishedEvent(stage, executionId, publisher, destination string) *ArtifactPublished {
	return &ArtifactPublished{
		Base:        Base{Stage: stage, ExecutionId: executionId},
		Publisher:   publisher,
		Destination: destination,
	}
}
