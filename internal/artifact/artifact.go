// Package artifact models the line-delimited identifier lists that enrichment
// jobs pass between each other. An artifact has exactly one writer (the
// producing job), is read-only to consumers, and is never mutated in place.
package artifact

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"wikidatabot/internal/fileutil"
)

var (
	itemPattern      = regexp.MustCompile(`^Q[1-9][0-9]*$`)
	numericIDPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Artifact is a handle to one identifier list in the work directory.
type Artifact struct {
	name string
	path string
}

// New returns a handle for the named artifact inside workDir.
func New(workDir, name string) *Artifact {
	return &Artifact{name: name, path: filepath.Join(workDir, name)}
}

// FromPath wraps an existing file (such as the caller-supplied input list) in
// an artifact handle without tying it to the work directory.
func FromPath(path string) *Artifact {
	return &Artifact{name: filepath.Base(path), path: path}
}

// Name returns the artifact file name.
func (a *Artifact) Name() string { return a.name }

// Path returns the artifact location on disk.
func (a *Artifact) Path() string { return a.path }

// Exists reports whether the artifact file is present.
func (a *Artifact) Exists() bool {
	info, err := os.Stat(a.path)
	return err == nil && !info.IsDir()
}

// Empty reports whether the artifact holds no identifiers. A missing file
// counts as empty.
func (a *Artifact) Empty() bool {
	ids, err := a.Read()
	return err != nil || len(ids) == 0
}

// Read returns the identifiers held by the artifact, one per line. Blank
// lines are dropped and CRLF endings tolerated.
func (a *Artifact) Read() ([]string, error) {
	file, err := os.Open(a.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var ids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		token := strings.TrimSpace(scanner.Text())
		if token == "" {
			continue
		}
		ids = append(ids, token)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", a.name, err)
	}
	return ids, nil
}

// Write replaces the artifact contents with the given identifiers, one per
// line. The write is atomic so consumers never see a partial list.
func (a *Artifact) Write(ids []string) error {
	var builder strings.Builder
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		builder.WriteString(id)
		builder.WriteByte('\n')
	}
	if err := fileutil.WriteFileAtomic(a.path, []byte(builder.String())); err != nil {
		return fmt.Errorf("write artifact %s: %w", a.name, err)
	}
	return nil
}

// Remove deletes the artifact file. Removing an already-absent artifact
// reports an error satisfying fs.ErrNotExist so callers can log the anomaly
// without failing.
func (a *Artifact) Remove() error {
	return os.Remove(a.path)
}

// IsItem reports whether token is a knowledge-base item identifier (Qnnn).
func IsItem(token string) bool {
	return itemPattern.MatchString(token)
}

// IsExternalID reports whether token is a raw numeric external identifier.
func IsExternalID(token string) bool {
	return numericIDPattern.MatchString(token)
}

// Classify splits identifiers into knowledge-base items, external IDs, and
// unrecognized tokens, preserving order within each class.
func Classify(ids []string) (items, external, unknown []string) {
	for _, id := range ids {
		switch {
		case IsItem(id):
			items = append(items, id)
		case IsExternalID(id):
			external = append(external, id)
		default:
			unknown = append(unknown, id)
		}
	}
	return items, external, unknown
}
