package main

import (
	"context"
	"path/filepath"
	"testing"

	"wikidatabot/internal/pipeline"
	"wikidatabot/internal/runstore"
)

func TestHistoryCommandEmpty(t *testing.T) {
	setupCLITestEnv(t)

	out, _, err := runCLI(t, newCommandContext(), "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestHistoryAndShowAfterRun(t *testing.T) {
	env := setupCLITestEnv(t)
	plan := pipeline.Default()
	env.writeScripts(t, plan.Scripts())
	input := env.writeInput(t, "220", "Q4115189")

	var calls []cliCall
	ctx := newCommandContext()
	ctx.commandRunner = fakeJobRunner(t, &calls, defaultPlanOutputs(), nil)
	if out, _, err := runCLI(t, ctx, "run", input); err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}

	out, _, err := runCLI(t, newCommandContext(), "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "default")
	requireContains(t, out, string(runstore.RunCompleted))

	// Resolve the full run ID straight from the history database.
	store, err := runstore.Open(filepath.Join(env.logDir, "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 1)
	store.Close()
	if err != nil || len(runs) != 1 {
		t.Fatalf("list runs: runs=%d err=%v", len(runs), err)
	}

	out, _, err = runCLI(t, newCommandContext(), "show", runs[0].ID)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, runs[0].ID)
	requireContains(t, out, "steam_parser")
	requireContains(t, out, "seek_vkplay_id")

	// The short ID printed by run and history resolves too.
	out, _, err = runCLI(t, newCommandContext(), "show", shortID(runs[0].ID))
	if err != nil {
		t.Fatalf("show by short id: %v", err)
	}
	requireContains(t, out, runs[0].ID)
}

func TestShowCommandUnknownRun(t *testing.T) {
	setupCLITestEnv(t)

	_, _, err := runCLI(t, newCommandContext(), "show", "no-such-run")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	requireContains(t, err.Error(), "not found")
}
