package pipeline

import (
	"time"

	"wikidatabot/internal/runstore"
)

// JobResult is the structured outcome of one job invocation.
type JobResult struct {
	Job       Job
	Position  int
	Status    runstore.JobStatus
	Err       error
	Reason    string
	StartedAt time.Time
	Duration  time.Duration
}

// Report aggregates the results of one batch run.
type Report struct {
	RunID   string
	Plan    string
	Status  runstore.RunStatus
	Results []JobResult
}

// Failed returns the number of failed jobs.
func (r *Report) Failed() int {
	return r.count(runstore.JobFailed)
}

// Skipped returns the number of skipped jobs.
func (r *Report) Skipped() int {
	return r.count(runstore.JobSkipped)
}

// OK reports whether every job in the run succeeded.
func (r *Report) OK() bool {
	for _, result := range r.Results {
		if result.Status != runstore.JobOK {
			return false
		}
	}
	return true
}

func (r *Report) count(status runstore.JobStatus) int {
	n := 0
	for _, result := range r.Results {
		if result.Status == status {
			n++
		}
	}
	return n
}
