package services_test

import (
	"context"
	"testing"

	"wikidatabot/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id on fresh context")
	}

	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithJob(ctx, "steam_parser")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %q (ok=%v)", id, ok)
	}
	if job, ok := services.JobFromContext(ctx); !ok || job != "steam_parser" {
		t.Fatalf("unexpected job: %q (ok=%v)", job, ok)
	}
}

func TestWithEmptyValuesAreNoops(t *testing.T) {
	ctx := context.Background()
	if got := services.WithRunID(ctx, ""); got != ctx {
		t.Fatal("expected WithRunID to return the original context for empty id")
	}
	if got := services.WithJob(ctx, ""); got != ctx {
		t.Fatal("expected WithJob to return the original context for empty name")
	}
}
