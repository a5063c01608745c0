package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestCheckScripts(t *testing.T) {
	scriptsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(scriptsDir, "steam_parser.py"), []byte("print()\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolve := func(name string) string {
		return filepath.Join(scriptsDir, name+".py")
	}
	results := CheckScripts([]string{"steam_parser", "seek_rawg_id"}, resolve)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected steam_parser to be available: %#v", results[0])
	}
	if results[1].Available {
		t.Fatalf("expected seek_rawg_id to be missing: %#v", results[1])
	}
}
