package runstore

import "time"

// RunStatus describes the lifecycle state of one batch run.
type RunStatus string

const (
	RunRunning     RunStatus = "running"
	RunCompleted   RunStatus = "completed"
	RunFailed      RunStatus = "failed"
	RunHalted      RunStatus = "halted"
	RunInterrupted RunStatus = "interrupted"
)

// JobStatus describes the outcome of one job within a run.
type JobStatus string

const (
	JobOK      JobStatus = "ok"
	JobFailed  JobStatus = "failed"
	JobSkipped JobStatus = "skipped"
)

// Run is one orchestrator invocation over an input artifact.
type Run struct {
	ID            string
	Plan          string
	InputPath     string
	InputSnapshot string
	Status        RunStatus
	StartedAt     time.Time
	FinishedAt    *time.Time
	JobsTotal     int
	JobsFailed    int
	JobsSkipped   int
}

// JobRecord is the persisted result of one job invocation.
type JobRecord struct {
	RunID        string
	Position     int
	Name         string
	Input        string
	Output       string
	Status       JobStatus
	ErrorMessage string
	StartedAt    time.Time
	Duration     time.Duration
}
