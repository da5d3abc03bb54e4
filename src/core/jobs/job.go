// Package jobs owns the lifecycle of asynchronous analysis jobs: the
// in-memory registry, the status state machine and the background dispatch of
// fetch-and-analyze work.
package jobs

import (
	"time"

	"shelfscan/src/core/analysis"
)

// Status is the lifecycle state of a job. Transitions are monotonic:
// pending -> processing -> completed | error. Terminal states never change.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further transition can occur from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Job is a tracked unit of asynchronous analysis work. Values handed out by
// the registry are snapshots: mutating one never affects stored state.
type Job struct {
	ID         string                   `json:"jobId"`
	Status     Status                   `json:"status"`
	Results    []analysis.ProductRecord `json:"data"`
	Error      string                   `json:"error,omitempty"`
	CreatedAt  time.Time                `json:"-"`
	FinishedAt time.Time                `json:"-"`
}

func (j Job) snapshot() Job {
	if j.Results != nil {
		results := make([]analysis.ProductRecord, len(j.Results))
		copy(results, j.Results)
		j.Results = results
	}
	return j
}
