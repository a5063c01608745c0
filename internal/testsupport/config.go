// Package testsupport centralizes fixtures shared by package tests: temp-dir
// seeded configurations, stub bot scripts, and run-history stores.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"wikidatabot/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ScriptsDir = filepath.Join(base, "scripts")

	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithInterpreter overrides the script interpreter on the test config.
func WithInterpreter(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runner.Interpreter = name
	}
}

// WithFailurePolicy sets the runner failure policy on the test config.
func WithFailurePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runner.OnFailure = policy
	}
}

// WithStrictArtifacts enables strict artifact handling on the test config.
func WithStrictArtifacts() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runner.StrictArtifacts = true
	}
}

// WithScripts writes stub bot scripts for the provided names into the
// config's scripts directory.
func WithScripts(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.MkdirAll(b.cfg.Paths.ScriptsDir, 0o755); err != nil {
			b.t.Fatalf("mkdir scripts dir: %v", err)
		}
		for _, name := range names {
			target := b.cfg.ScriptPath(name)
			if err := os.WriteFile(target, []byte("# stub\n"), 0o644); err != nil {
				b.t.Fatalf("write stub script %s: %v", name, err)
			}
		}
	}
}
