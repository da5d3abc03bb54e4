package jobs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"shelfscan/src/core/analysis"
	"shelfscan/src/infrastructure/log"
)

// ErrNotFound is returned when a job id is not in the registry.
var ErrNotFound = errors.New("job not found")

// Registry is the process-wide store of jobs. Every operation is atomic under
// one mutex and every job leaving the registry is a whole-record snapshot, so
// readers never observe a partially written job.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]Job
	now  func() time.Time
}

// NewRegistry creates an empty job registry.
func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]Job),
		now:  time.Now,
	}
}

// Create allocates a fresh job in pending state and returns its snapshot.
// Ids are unique across concurrent calls.
func (r *Registry) Create() Job {
	job := Job{
		ID:        fmt.Sprintf("ocr-%s", uuid.New()),
		Status:    StatusPending,
		CreatedAt: r.now(),
	}
	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()
	log.Debug("job created", "job_id", job.ID)
	return job
}

// Get returns a snapshot of the job, or ErrNotFound for unknown ids.
func (r *Registry) Get(id string) (Job, error) {
	r.mu.RLock()
	job, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return job.snapshot(), nil
}

// MarkProcessing advances a pending job to processing.
func (r *Registry) MarkProcessing(id string) error {
	return r.transition(id, StatusPending, func(job Job) Job {
		job.Status = StatusProcessing
		return job
	})
}

// Complete advances a processing job to its completed terminal state and
// attaches the results.
func (r *Registry) Complete(id string, results []analysis.ProductRecord) error {
	return r.transition(id, StatusProcessing, func(job Job) Job {
		job.Status = StatusCompleted
		job.Results = results
		job.FinishedAt = r.now()
		return job
	})
}

// Fail advances a processing job to its error terminal state with the
// captured message.
func (r *Registry) Fail(id string, msg string) error {
	return r.transition(id, StatusProcessing, func(job Job) Job {
		job.Status = StatusError
		job.Error = msg
		job.FinishedAt = r.now()
		return job
	})
}

// transition replaces the stored job wholesale so concurrent readers see
// either the previous record or the fully formed next one, never a torn
// write.
func (r *Registry) transition(id string, from Status, apply func(Job) Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if job.Status != from {
		return fmt.Errorf("job %s is %s, cannot transition from %s", id, job.Status, from)
	}
	r.jobs[id] = apply(job)
	return nil
}

// Cleanup removes terminal jobs that finished more than olderThan ago and
// returns the removed and remaining counts. A zero window removes every
// terminal job unconditionally; pending and processing jobs are never
// touched.
func (r *Registry) Cleanup(olderThan time.Duration) (removed, remaining int) {
	cutoff := r.now().Add(-olderThan)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, job := range r.jobs {
		if job.Status.Terminal() && !job.FinishedAt.After(cutoff) {
			delete(r.jobs, id)
			removed++
		}
	}
	remaining = len(r.jobs)
	log.Info("job cleanup finished", "removed", removed, "remaining", remaining)
	return removed, remaining
}

// Count returns the number of jobs currently in the registry.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
