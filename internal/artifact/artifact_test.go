package artifact_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"wikidatabot/internal/artifact"
)

func TestReadTolerantOfBlankLinesAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temp_steam.txt")
	if err := os.WriteFile(path, []byte("Q123\r\n\n  440 \nQ456\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := artifact.New(dir, "temp_steam.txt").Read()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Q123", "440", "Q456"}
	if len(ids) != len(want) {
		t.Fatalf("unexpected ids: %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := artifact.New(dir, "temp_igdb.txt")

	if a.Exists() {
		t.Fatal("artifact should not exist before write")
	}
	if !a.Empty() {
		t.Fatal("missing artifact should count as empty")
	}

	if err := a.Write([]string{"1942", "", " 7346 "}); err != nil {
		t.Fatal(err)
	}
	if !a.Exists() {
		t.Fatal("artifact should exist after write")
	}
	ids, err := a.Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "1942" || ids[1] != "7346" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestRemoveExactlyOnce(t *testing.T) {
	dir := t.TempDir()
	a := artifact.New(dir, "temp_uvl.txt")
	if err := a.Write([]string{"Q1"}); err != nil {
		t.Fatal(err)
	}

	if err := a.Remove(); err != nil {
		t.Fatalf("first remove failed: %v", err)
	}
	err := a.Remove()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("second remove should report fs.ErrNotExist, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	items, external, unknown := artifact.Classify([]string{"220", "440", "Q4115189", "steam:220", "Q0"})
	if len(items) != 1 || items[0] != "Q4115189" {
		t.Fatalf("unexpected items: %v", items)
	}
	if len(external) != 2 || external[0] != "220" || external[1] != "440" {
		t.Fatalf("unexpected external ids: %v", external)
	}
	if len(unknown) != 2 {
		t.Fatalf("unexpected unknown tokens: %v", unknown)
	}
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, []byte("220\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := artifact.FromPath(path)
	if a.Name() != "input.txt" {
		t.Fatalf("unexpected name: %q", a.Name())
	}
	if a.Path() != path {
		t.Fatalf("unexpected path: %q", a.Path())
	}
	if a.Empty() {
		t.Fatal("expected non-empty artifact")
	}
}
