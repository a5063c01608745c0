package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"wikidatabot/internal/config"
	"wikidatabot/internal/deps"
)

// Result captures the outcome of one preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Check evaluates everything a batch run needs before the first job starts:
// interpreter on PATH, bot scripts present, and the work dir accessible.
// Failures are reported, never fatal; the runner stays lenient by default
// and leaves it to the caller to decide whether to proceed.
func Check(cfg *config.Config, scripts []string) []Result {
	results := make([]Result, 0, len(scripts)+2)

	results = append(results, checkWorkDir(cfg.Paths.WorkDir))

	for _, status := range deps.CheckBinaries([]deps.Requirement{{
		Name:        "Interpreter",
		Command:     cfg.Runner.Interpreter,
		Description: "Executable used to launch bot scripts",
	}}) {
		results = append(results, fromDepStatus(status))
	}

	for _, status := range deps.CheckScripts(scripts, cfg.ScriptPath) {
		results = append(results, fromDepStatus(status))
	}

	return results
}

// Passed reports whether every result succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

func checkWorkDir(path string) Result {
	name := "Work directory"
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a directory", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func fromDepStatus(status deps.Status) Result {
	detail := status.Detail
	if detail == "" {
		detail = status.Command
	}
	return Result{Name: status.Name, Passed: status.Available, Detail: detail}
}
