package testsupport

import (
	"context"
	"testing"

	"convertx/internal/config"
	"convertx/internal/jobs"
)

// MustOpenStore opens a jobs.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *jobs.Store {
	t.Helper()

	store, err := jobs.Open(cfg)
	if err != nil {
		t.Fatalf("jobs.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewJob creates a pending job for tests using the provided store.
func NewJob(t testing.TB, store *jobs.Store, owner, targetFormat string, numFiles int) *jobs.Job {
	t.Helper()

	job, err := store.CreateJob(context.Background(), owner, targetFormat, numFiles)
	if err != nil {
		t.Fatalf("store.CreateJob: %v", err)
	}
	return job
}
