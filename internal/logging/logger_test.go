package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"wikidatabot/internal/services"
)

func TestConsoleHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelInfo))
	logger = NewComponentLogger(logger, "runner")

	logger.Info("job started", String(FieldJob, "steam_parser"), Int("position", 1))

	line := buf.String()
	if !strings.Contains(line, " INFO runner: job started") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "job=steam_parser") {
		t.Fatalf("missing job attr: %q", line)
	}
	if !strings.Contains(line, "position=1") {
		t.Fatalf("missing position attr: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelInfo))

	logger.Warn("cleanup", String("path", "/tmp/with space.txt"))

	if !strings.Contains(buf.String(), `path="/tmp/with space.txt"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, slog.LevelWarn))

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be suppressed: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record should be emitted: %q", out)
	}
}

func TestWithContextAddsRunAndJob(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(newConsoleHandler(&buf, slog.LevelInfo))

	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithJob(ctx, "seek_uvl_id")
	WithContext(ctx, base).Info("tick")

	out := buf.String()
	if !strings.Contains(out, "run_id=run-1") {
		t.Fatalf("missing run id: %q", out)
	}
	if !strings.Contains(out, "job=seek_uvl_id") {
		t.Fatalf("missing job: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
