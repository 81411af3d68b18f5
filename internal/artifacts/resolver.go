package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"convertx/internal/jobs"
)

// Resolver maps verified (owner, job, output file) triples to on-disk
// artifact paths.
type Resolver struct {
	root  string
	store *jobs.Store
}

// NewResolver constructs a resolver rooted at the jobs working directory.
func NewResolver(root string, store *jobs.Store) *Resolver {
	return &Resolver{root: root, store: store}
}

// Resolve verifies that owner owns jobID and that the job recorded
// outputFileName, then returns the artifact's existence-checked path. The
// path is composed strictly from the verified triple; caller-supplied
// strings never reach the filesystem directly. Every failure mode (wrong
// owner, unknown job, unknown file, artifact pruned from disk) returns
// jobs.ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, owner, jobID, outputFileName string) (string, error) {
	if owner == "" || jobID == "" || outputFileName == "" {
		return "", jobs.ErrNotFound
	}

	job, err := r.store.GetJob(ctx, jobID)
	if err != nil {
		return "", fmt.Errorf("look up job: %w", err)
	}
	if job == nil || job.Owner != owner {
		return "", jobs.ErrNotFound
	}

	record, err := r.store.FindFileRecord(ctx, jobID, outputFileName)
	if err != nil {
		return "", fmt.Errorf("look up file record: %w", err)
	}
	if record == nil || record.OutputFileName == "" {
		return "", jobs.ErrNotFound
	}

	workspace := jobs.WorkspaceFor(r.root, job.Owner, job.ID)
	path := filepath.Join(workspace.Outputs, record.OutputFileName)

	// The record and the filesystem can diverge when artifacts are pruned
	// externally; that surfaces as not-found, not a crash.
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", jobs.ErrNotFound
		}
		return "", fmt.Errorf("stat artifact: %w", err)
	}
	if info.IsDir() {
		return "", jobs.ErrNotFound
	}
	return path, nil
}
