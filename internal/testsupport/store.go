package testsupport

import (
	"testing"

	"wikidatabot/internal/config"
	"wikidatabot/internal/runstore"
)

// MustOpenStore opens a run-history store rooted in the config's log
// directory and closes it when the test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(cfg.RunStorePath())
	if err != nil {
		t.Fatalf("open run store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
