package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Job describes one external bot invocation. The sequence is data: a job
// names its script, the artifact it reads, and the artifact it produces, and
// the runner derives execution order and cleanup from those declarations.
type Job struct {
	// Name is the bot script name without extension (e.g. "seek_rawg_id").
	Name string `yaml:"name"`
	// Input names the artifact the job reads. Empty means the run input.
	Input string `yaml:"input,omitempty"`
	// Output names the artifact the job produces, if any.
	Output string `yaml:"output,omitempty"`
	// ForwardExtras forwards the caller's pass-through arguments to this job.
	ForwardExtras bool `yaml:"forward_extras,omitempty"`
}

// Label returns a human-readable job title for tables and summaries.
func (j Job) Label() string {
	return cases.Title(language.Und).String(strings.ReplaceAll(j.Name, "_", " "))
}
