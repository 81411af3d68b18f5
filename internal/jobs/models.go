package jobs

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	// StatusPartial covers every terminal outcome short of all files
	// succeeding, including zero successes. There is no failed job status:
	// job status reflects aggregate outcome, never an exception path, and
	// callers inspect CompletedFiles and the per-file records for
	// all-failed batches.
	StatusPartial Status = "partial"
)

// FileStatusDone is the success marker recorded on a FileRecord. Any other
// status value is the human-readable failure reason for that file.
const FileStatusDone = "done"

var allStatuses = []Status{StatusPending, StatusCompleted, StatusPartial}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Job is one user-submitted batch conversion request.
type Job struct {
	ID             string
	Owner          string
	Status         Status
	NumFiles       int
	CompletedFiles int
	TargetFormat   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Terminal reports whether the job has reached its final status.
func (j Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusPartial
}

// FileRecord is the per-file outcome row within a job. Records are written
// exactly once and never updated afterward.
type FileRecord struct {
	ID             int64
	JobID          string
	InputFileName  string
	OutputFileName string
	Status         string
	CreatedAt      time.Time
}

// Succeeded reports whether the file converted successfully.
func (f FileRecord) Succeeded() bool {
	return f.Status == FileStatusDone
}

// FailureReason returns the recorded error, or empty for a successful file.
func (f FileRecord) FailureReason() string {
	if f.Succeeded() {
		return ""
	}
	return f.Status
}
