package services_test

import (
	"errors"
	"testing"

	"wikidatabot/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 2")
	err := services.Wrap(services.ErrExternalTool, "seek_rawg_id", "invoke", "process exited", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "steam_parser", "", "no detail", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestMessageStripsMarkerPrefix(t *testing.T) {
	err := services.Wrap(services.ErrArtifact, "seek_uvl_id", "read input", "temp_uvl.txt missing", nil)
	got := services.Message(err)
	want := "seek_uvl_id: read input: temp_uvl.txt missing"
	if got != want {
		t.Fatalf("unexpected message: got %q want %q", got, want)
	}
}

func TestMessageNil(t *testing.T) {
	if got := services.Message(nil); got != "" {
		t.Fatalf("expected empty message for nil error, got %q", got)
	}
}
