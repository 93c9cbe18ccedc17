package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/juristext/internal/doctree"
)

// JobStatus represents the state of an asynchronous batch job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// Job tracks one uploaded batch of decisions.
type Job struct {
	mu sync.Mutex

	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	inputs  []Input
	results []doctree.Result
}

// Progress tracks processing progress.
type Progress struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

// NewJob returns a queued job over inputs.
func NewJob(id string, inputs []Input) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Status:    StatusQueued,
		Progress:  Progress{Total: len(inputs)},
		CreatedAt: now,
		UpdatedAt: now,
		inputs:    inputs,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Inputs returns the documents submitted with the job.
func (j *Job) Inputs() []Input {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inputs
}

// Started implements Reporter.
func (j *Job) Started(int, int, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.UpdatedAt = time.Now()
}

// Finished implements Reporter and updates the counters.
func (j *Job) Finished(_, _ int, res doctree.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Processed++
	if res.Success {
		j.Progress.Succeeded++
	} else {
		j.Progress.Failed++
		j.Progress.Errors = append(j.Progress.Errors, res.Source+": "+res.Error)
	}
	j.UpdatedAt = time.Now()
}

// Complete stores results, drops the uploaded bytes and sets the final
// status.
func (j *Job) Complete(results []doctree.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = results
	j.inputs = nil
	switch {
	case j.Progress.Failed == 0:
		j.Status = StatusCompleted
	case j.Progress.Succeeded > 0:
		j.Status = StatusPartial
	default:
		j.Status = StatusFailed
	}
	j.UpdatedAt = time.Now()
}

// Results returns the results of a finished job, in upload order.
func (j *Job) Results() []doctree.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]doctree.Result(nil), j.results...)
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string           `json:"job_id"`
	Status    JobStatus        `json:"status"`
	Progress  Progress         `json:"progress"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Results   []doctree.Result `json:"results,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Progress:  p,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Results:   append([]doctree.Result(nil), j.results...),
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
