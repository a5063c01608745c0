package runstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"wikidatabot/internal/runstore"
)

func openStore(t *testing.T) *runstore.Store {
	t.Helper()
	store, err := runstore.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := &runstore.Run{
		ID:        "run-abc",
		Plan:      "default",
		InputPath: "/tmp/input.txt",
		JobsTotal: 3,
	}
	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatalf("create run: %v", err)
	}

	loaded, err := store.GetRun(ctx, "run-abc")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected run to exist")
	}
	if loaded.Status != runstore.RunRunning {
		t.Fatalf("expected running status, got %q", loaded.Status)
	}
	if loaded.FinishedAt != nil {
		t.Fatal("expected no finish time yet")
	}

	run.Status = runstore.RunCompleted
	run.JobsFailed = 1
	if err := store.FinishRun(ctx, run); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	loaded, err = store.GetRun(ctx, "run-abc")
	if err != nil {
		t.Fatalf("get run after finish: %v", err)
	}
	if loaded.Status != runstore.RunCompleted {
		t.Fatalf("expected completed status, got %q", loaded.Status)
	}
	if loaded.FinishedAt == nil {
		t.Fatal("expected finish time to be set")
	}
	if loaded.JobsFailed != 1 {
		t.Fatalf("expected 1 failed job, got %d", loaded.JobsFailed)
	}
}

func TestGetRunAbsent(t *testing.T) {
	store := openStore(t)
	run, err := store.GetRun(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run, got %+v", run)
	}
}

func TestRecordAndListJobs(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.CreateRun(ctx, &runstore.Run{ID: "run-1", Plan: "default"}); err != nil {
		t.Fatal(err)
	}

	records := []*runstore.JobRecord{
		{RunID: "run-1", Position: 0, Name: "steam_parser", Input: "input.txt", Output: "temp_steam.txt", Status: runstore.JobOK, StartedAt: time.Now(), Duration: 1500 * time.Millisecond},
		{RunID: "run-1", Position: 1, Name: "seek_rawg_id", Input: "temp_steam.txt", Status: runstore.JobFailed, ErrorMessage: "exit status 1", StartedAt: time.Now()},
		{RunID: "run-1", Position: 2, Name: "seek_lutris_id", Input: "temp_igdb.txt", Status: runstore.JobSkipped, ErrorMessage: "input artifact missing", StartedAt: time.Now()},
	}
	for _, rec := range records {
		if err := store.RecordJob(ctx, rec); err != nil {
			t.Fatalf("record job %s: %v", rec.Name, err)
		}
	}

	loaded, err := store.JobsForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("jobs for run: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 records, got %d", len(loaded))
	}
	if loaded[0].Name != "steam_parser" || loaded[0].Status != runstore.JobOK {
		t.Fatalf("unexpected first record: %+v", loaded[0])
	}
	if loaded[0].Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", loaded[0].Duration)
	}
	if loaded[1].ErrorMessage != "exit status 1" {
		t.Fatalf("unexpected error message: %q", loaded[1].ErrorMessage)
	}
	if loaded[2].Status != runstore.JobSkipped {
		t.Fatalf("unexpected third status: %q", loaded[2].Status)
	}
}

func TestFindRunByPrefix(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"d1595e09-aaaa", "d15everyone-b", "ffff0000-cccc"} {
		if err := store.CreateRun(ctx, &runstore.Run{ID: id, Plan: "default"}); err != nil {
			t.Fatal(err)
		}
	}

	run, err := store.FindRun(ctx, "d1595e09-aaaa")
	if err != nil || run == nil || run.ID != "d1595e09-aaaa" {
		t.Fatalf("full id lookup failed: run=%v err=%v", run, err)
	}

	run, err = store.FindRun(ctx, "d1595e09")
	if err != nil {
		t.Fatalf("prefix lookup failed: %v", err)
	}
	if run == nil || run.ID != "d1595e09-aaaa" {
		t.Fatalf("unexpected prefix match: %+v", run)
	}

	if _, err := store.FindRun(ctx, "d15"); err == nil {
		t.Fatal("expected ambiguity error for shared prefix")
	}

	run, err = store.FindRun(ctx, "0000")
	if err != nil {
		t.Fatalf("unexpected error for unmatched prefix: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run for unmatched prefix, got %+v", run)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	older := &runstore.Run{ID: "run-old", Plan: "default", StartedAt: time.Now().Add(-time.Hour).UTC()}
	newer := &runstore.Run{ID: "run-new", Plan: "default", StartedAt: time.Now().UTC()}
	for _, run := range []*runstore.Run{older, newer} {
		if err := store.CreateRun(ctx, run); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-new" || runs[1].ID != "run-old" {
		t.Fatalf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}
}
