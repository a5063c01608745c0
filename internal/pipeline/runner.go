package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"wikidatabot/internal/artifact"
	"wikidatabot/internal/config"
	"wikidatabot/internal/fileutil"
	"wikidatabot/internal/logging"
	"wikidatabot/internal/runstore"
	"wikidatabot/internal/services"
)

// CommandRunner invokes one external command and waits for it to exit.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Runner executes a plan strictly sequentially: one child process at a time,
// run to completion before the next starts. Artifact lifecycle and cleanup
// are derived from the plan's input/output declarations.
type Runner struct {
	cfg           *config.Config
	logger        *slog.Logger
	store         *runstore.Store
	commandRunner CommandRunner
}

// NewRunner constructs a runner. The store may be nil, in which case run
// history is not persisted.
func NewRunner(cfg *config.Config, logger *slog.Logger, store *runstore.Store) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "runner"),
		store:  store,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Runner) WithCommandRunner(runner CommandRunner) {
	r.commandRunner = runner
}

// Run executes the plan against the input artifact. Extra arguments are
// forwarded verbatim to the job whose descriptor requests them. Job failures
// are reported in the returned Report, not as an error; the error return is
// reserved for orchestrator-level problems (bad plan, lock contention,
// unreadable input, history store failures).
func (r *Runner) Run(ctx context.Context, plan Plan, inputPath string, extraArgs []string) (*Report, error) {
	if err := plan.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "validate plan", "", err)
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	input := artifact.FromPath(inputPath)
	if !input.Exists() {
		return nil, services.Wrap(services.ErrNotFound, "", "resolve input", fmt.Sprintf("input artifact %s does not exist", inputPath), nil)
	}

	lock := flock.New(r.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire work dir lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another wikibatch run holds the work directory")
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	run := &runstore.Run{
		ID:        runID,
		Plan:      plan.Name,
		InputPath: inputPath,
		JobsTotal: len(plan.Jobs),
	}
	run.InputSnapshot = r.snapshotInput(logger, runID, inputPath)
	if r.store != nil {
		if err := r.store.CreateRun(ctx, run); err != nil {
			return nil, err
		}
	}

	produced := plan.producers()
	lastReaders := plan.lastReaders()
	artifacts := make(map[string]*artifact.Artifact, len(produced))
	for name := range produced {
		artifacts[name] = artifact.New(r.cfg.Paths.WorkDir, name)
	}
	defer r.sweepLeftovers(logger, artifacts)

	logger.Info("batch run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("plan", plan.Name),
		logging.String("input", inputPath),
		logging.Int("jobs", len(plan.Jobs)),
	)

	report := &Report{RunID: runID, Plan: plan.Name}
	halted := false
	interrupted := false

	for i, job := range plan.Jobs {
		var result JobResult
		switch {
		case interrupted:
			result = r.skipJob(ctx, job, i, "run interrupted")
		case halted:
			result = r.skipJob(ctx, job, i, "halted after earlier failure")
		case ctx.Err() != nil:
			interrupted = true
			result = r.skipJob(ctx, job, i, "run interrupted")
		default:
			result = r.executeJob(ctx, plan, job, i, input, artifacts, produced, extraArgs)
			if result.Status == runstore.JobFailed {
				if errors.Is(result.Err, services.ErrInterrupted) {
					interrupted = true
				} else if r.cfg.Runner.OnFailure == config.OnFailureHalt {
					halted = true
				}
			}
		}

		report.Results = append(report.Results, result)
		r.recordJob(ctx, logger, runID, result)
		r.cleanupAfter(ctx, logger, i, artifacts, lastReaders)
	}

	run.JobsFailed = report.Failed()
	run.JobsSkipped = report.Skipped()
	switch {
	case interrupted:
		run.Status = runstore.RunInterrupted
	case halted:
		run.Status = runstore.RunHalted
	case run.JobsFailed > 0:
		run.Status = runstore.RunFailed
	default:
		run.Status = runstore.RunCompleted
	}
	report.Status = run.Status

	if r.store != nil {
		if err := r.store.FinishRun(ctx, run); err != nil {
			logger.Error("failed to persist run result", logging.Error(err))
		}
	}

	logger.Info("batch run finished",
		logging.String(logging.FieldEventType, "run_finish"),
		logging.String("status", string(run.Status)),
		logging.Int("failed", run.JobsFailed),
		logging.Int("skipped", run.JobsSkipped),
	)

	return report, nil
}

func (r *Runner) executeJob(ctx context.Context, plan Plan, job Job, position int, input *artifact.Artifact, artifacts map[string]*artifact.Artifact, produced map[string]int, extraArgs []string) JobResult {
	jobCtx := services.WithJob(ctx, job.Name)
	logger := logging.WithContext(jobCtx, r.logger)

	inputArt := input
	if job.Input != "" {
		if art, ok := artifacts[job.Input]; ok {
			inputArt = art
		} else {
			inputArt = artifact.New(r.cfg.Paths.WorkDir, job.Input)
		}
	}

	if _, ok := produced[job.Input]; ok && inputArt.Empty() {
		if r.cfg.Runner.StrictArtifacts {
			return r.skipJob(ctx, job, position, fmt.Sprintf("input artifact %s missing or empty", job.Input))
		}
		logger.Warn("input artifact missing or empty, job runs against it anyway",
			logging.String(logging.FieldEventType, "artifact_gap"),
			logging.String(logging.FieldArtifact, job.Input),
		)
	}

	args := []string{r.cfg.ScriptPath(job.Name), inputArt.Path()}
	var outputArt *artifact.Artifact
	if job.Output != "" {
		outputArt = artifacts[job.Output]
		args = append(args, outputArt.Path())
	}
	if job.ForwardExtras {
		args = append(args, extraArgs...)
	}

	if r.cfg.Runner.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(jobCtx, time.Duration(r.cfg.Runner.JobTimeout)*time.Second)
		defer cancel()
	}

	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.Int("position", position),
		logging.String("input", inputArt.Name()),
	)

	result := JobResult{Job: job, Position: position, StartedAt: time.Now().UTC()}
	err := r.run(jobCtx, r.cfg.Runner.Interpreter, args...)
	result.Duration = time.Since(result.StartedAt)

	if err != nil {
		// Only a caller cancel counts as an interrupt. A per-job deadline
		// cancels jobCtx too, but that is an ordinary job failure handled
		// by the failure policy.
		marker := services.ErrExternalTool
		if ctx.Err() != nil {
			marker = services.ErrInterrupted
		}
		result.Status = runstore.JobFailed
		result.Err = services.Wrap(marker, job.Name, "invoke", "", err)
		logger.Error("job failed",
			logging.String(logging.FieldEventType, "job_failure"),
			logging.Duration("duration", result.Duration),
			logging.Error(err),
		)
		return result
	}

	if outputArt != nil && !outputArt.Exists() {
		if r.cfg.Runner.StrictArtifacts {
			result.Status = runstore.JobFailed
			result.Err = services.Wrap(services.ErrArtifact, job.Name, "verify output", fmt.Sprintf("declared output %s missing", job.Output), nil)
			logger.Error("job produced no output artifact",
				logging.String(logging.FieldEventType, "job_failure"),
				logging.String(logging.FieldArtifact, job.Output),
			)
			return result
		}
		logger.Warn("declared output artifact missing",
			logging.String(logging.FieldEventType, "artifact_gap"),
			logging.String(logging.FieldArtifact, job.Output),
		)
	}

	result.Status = runstore.JobOK
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "job_complete"),
		logging.Duration("duration", result.Duration),
	}
	if outputArt != nil {
		if ids, err := outputArt.Read(); err == nil {
			attrs = append(attrs, logging.Int("produced_ids", len(ids)))
		}
	}
	logger.Info("job completed", logging.Args(attrs...)...)
	return result
}

func (r *Runner) skipJob(ctx context.Context, job Job, position int, reason string) JobResult {
	logger := logging.WithContext(services.WithJob(ctx, job.Name), r.logger)
	logger.Warn("job skipped",
		logging.String(logging.FieldEventType, "job_skip"),
		logging.String("reason", reason),
	)
	return JobResult{
		Job:       job,
		Position:  position,
		Status:    runstore.JobSkipped,
		Reason:    reason,
		StartedAt: time.Now().UTC(),
	}
}

// cleanupAfter deletes every artifact whose last reader is the job at the
// given position, whether that job succeeded, failed, or was skipped.
func (r *Runner) cleanupAfter(ctx context.Context, logger *slog.Logger, position int, artifacts map[string]*artifact.Artifact, lastReaders map[string]int) {
	for name, last := range lastReaders {
		if last != position {
			continue
		}
		art := artifacts[name]
		err := art.Remove()
		switch {
		case err == nil:
			logger.Info("artifact deleted",
				logging.String(logging.FieldEventType, "artifact_cleanup"),
				logging.String(logging.FieldArtifact, name),
			)
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("artifact already absent at cleanup",
				logging.String(logging.FieldEventType, "artifact_cleanup"),
				logging.String(logging.FieldArtifact, name),
			)
		default:
			logger.Warn("artifact cleanup failed",
				logging.String(logging.FieldArtifact, name),
				logging.Error(err),
			)
		}
	}
}

// sweepLeftovers removes artifacts that survived the per-position cleanup,
// which happens when a run is interrupted mid-sequence.
func (r *Runner) sweepLeftovers(logger *slog.Logger, artifacts map[string]*artifact.Artifact) {
	for name, art := range artifacts {
		if !art.Exists() {
			continue
		}
		if err := art.Remove(); err != nil {
			logger.Warn("leftover artifact cleanup failed",
				logging.String(logging.FieldArtifact, name),
				logging.Error(err),
			)
			continue
		}
		logger.Warn("leftover artifact removed",
			logging.String(logging.FieldEventType, "artifact_cleanup"),
			logging.String(logging.FieldArtifact, name),
		)
	}
}

func (r *Runner) recordJob(ctx context.Context, logger *slog.Logger, runID string, result JobResult) {
	if r.store == nil {
		return
	}
	message := result.Reason
	if result.Err != nil {
		message = services.Message(result.Err)
	}
	rec := &runstore.JobRecord{
		RunID:        runID,
		Position:     result.Position,
		Name:         result.Job.Name,
		Input:        result.Job.Input,
		Output:       result.Job.Output,
		Status:       result.Status,
		ErrorMessage: message,
		StartedAt:    result.StartedAt,
		Duration:     result.Duration,
	}
	if err := r.store.RecordJob(ctx, rec); err != nil {
		logger.Error("failed to persist job result", logging.Error(err))
	}
}

// snapshotInput copies the input list next to the run history so the run's
// input survives later edits to the source file. Best effort.
func (r *Runner) snapshotInput(logger *slog.Logger, runID, inputPath string) string {
	dest := filepath.Join(r.cfg.Paths.LogDir, "runs", runID+"-input.txt")
	if err := fileutil.CopyFile(inputPath, dest); err != nil {
		logger.Warn("input snapshot failed", logging.Error(err))
		return ""
	}
	return dest
}

// run executes a command, using the custom runner if set. Child output is
// inherited by the invoking terminal.
func (r *Runner) run(ctx context.Context, name string, args ...string) error {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
