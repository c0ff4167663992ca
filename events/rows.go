package events

// RowsFiltered reports how many raw records a transform kept and dropped
type RowsFiltered struct {
	Base
	Total   int
	Kept    int
	Dropped int
}

func NewRowsFilteredEvent(stage, executionId string, total, kept, dropped int) *RowsFiltered {
	return &RowsFiltered{
		Base:    Base{Stage: stage, ExecutionId: executionId},
		Total:   total,
		Kept:    kept,
		Dropped: dropped,
	}
}
