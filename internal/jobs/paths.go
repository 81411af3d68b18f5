package jobs

import (
	"path/filepath"
	"strings"

	"convertx/internal/format"
)

// Workspace is a job's isolated working directory pair, scoped to
// (owner, jobID) and never shared across jobs.
type Workspace struct {
	Uploads string
	Outputs string
}

// WorkspaceFor composes the working directory pair rooted at the jobs root.
// Segments come only from the verified owner and job identifiers, never
// from caller-supplied path fragments.
func WorkspaceFor(root, owner, jobID string) Workspace {
	base := filepath.Join(root, sanitizeSegment(owner), jobID)
	return Workspace{
		Uploads: filepath.Join(base, "uploads"),
		Outputs: filepath.Join(base, "outputs"),
	}
}

func sanitizeSegment(value string) string {
	value = format.SanitizeFileName(value)
	if value == "" {
		return "unknown"
	}
	value = strings.ReplaceAll(value, " ", "-")
	value = strings.Trim(value, "-_")
	if value == "" {
		return "unknown"
	}
	return value
}
