package pipeline

import (
	"fmt"
	"strings"
)

// RunState is the furthest point a pipeline run has reached
type RunState string

const (
	StatePending    RunState = "PENDING"
	StateFetched    RunState = "FETCHED"
	StateCleaned    RunState = "CLEANED"
	StateAggregated RunState = "AGGREGATED"
)

var runStates = []RunState{StatePending, StateFetched, StateCleaned, StateAggregated}

// ParseRunState accepts either a state name or the stage which produces it,
// so "fetched" and "fetch" both resume after the fetch stage
func ParseRunState(s string) (RunState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending":
		return StatePending, nil
	case "fetched", "fetch":
		return StateFetched, nil
	case "cleaned", "transform", "transformed":
		return StateCleaned, nil
	case "aggregated", "aggregate":
		return StateAggregated, nil
	}
	return "", fmt.Errorf("invalid run state '%s', expected one of %s", s, runStates)
}

func (s RunState) index() int {
	for i, r := range runStates {
		if r == s {
			return i
		}
	}
	return -1
}
