package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wikidatabot/internal/pipeline"
)

type cliTestEnv struct {
	base       string
	configPath string
	workDir    string
	logDir     string
	scriptsDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	env := &cliTestEnv{
		base:       base,
		workDir:    filepath.Join(base, "work"),
		logDir:     filepath.Join(base, "logs"),
		scriptsDir: filepath.Join(base, "scripts"),
		configPath: filepath.Join(home, ".config", "wikibatch", "config.toml"),
	}
	if err := os.MkdirAll(env.scriptsDir, 0o755); err != nil {
		t.Fatalf("mkdir scripts: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}

	contents := fmt.Sprintf(`[paths]
work_dir = %q
log_dir = %q
scripts_dir = %q

[runner]
interpreter = "sh"

[logging]
format = "json"
level = "error"
`, env.workDir, env.logDir, env.scriptsDir)
	if err := os.WriteFile(env.configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) writeScripts(t *testing.T, names []string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(e.scriptsDir, name+".py")
		if err := os.WriteFile(path, []byte("# stub\n"), 0o644); err != nil {
			t.Fatalf("write script %s: %v", name, err)
		}
	}
}

func (e *cliTestEnv) writeInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(e.base, "input.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

type cliCall struct {
	args []string
}

func (c cliCall) script() string {
	return strings.TrimSuffix(filepath.Base(c.args[0]), ".py")
}

// fakeJobRunner records invocations and writes declared outputs for the
// scripts named in outputs.
func fakeJobRunner(t *testing.T, calls *[]cliCall, outputs map[string][]string, failures map[string]error) pipeline.CommandRunner {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) error {
		call := cliCall{args: args}
		*calls = append(*calls, call)
		script := call.script()
		if ids, ok := outputs[script]; ok {
			if err := os.WriteFile(args[2], []byte(strings.Join(ids, "\n")+"\n"), 0o644); err != nil {
				t.Fatalf("write output for %s: %v", script, err)
			}
		}
		if err, ok := failures[script]; ok {
			return err
		}
		return nil
	}
}

func runCLI(t *testing.T, ctx *commandContext, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWith(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
