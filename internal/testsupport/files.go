package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteIDList fills the target path with one identifier per line, creating
// parent directories as needed.
func WriteIDList(t testing.TB, path string, ids ...string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(ids, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
