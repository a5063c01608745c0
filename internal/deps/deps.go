// Package deps reports the availability of external collaborators: the
// interpreter binary and the enrichment bot scripts the plan invokes.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency a batch run relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements against PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckScripts evaluates bot script files resolved by the provided resolver
// (typically config.ScriptPath). Script names arrive without extension.
func CheckScripts(names []string, resolve func(name string) string) []Status {
	results := make([]Status, 0, len(names))
	for _, name := range names {
		path := resolve(name)
		status := Status{
			Name:    name,
			Command: path,
		}
		info, err := os.Stat(path)
		switch {
		case err != nil:
			status.Detail = fmt.Sprintf("script %q not found", path)
		case info.IsDir():
			status.Detail = fmt.Sprintf("script path %q is a directory", path)
		default:
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}
