package jobs_test

import (
	"context"
	"testing"
	"time"

	"convertx/internal/jobs"
	"convertx/internal/testsupport"
)

func TestCreateAndGetJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job := testsupport.NewJob(t, store, "alice", "pdf", 3)
	if job.ID == "" {
		t.Fatal("job ID not assigned")
	}
	if job.Status != jobs.StatusPending {
		t.Fatalf("status = %q, want pending", job.Status)
	}
	if job.NumFiles != 3 || job.CompletedFiles != 0 {
		t.Fatalf("file counts = %d/%d", job.CompletedFiles, job.NumFiles)
	}

	loaded, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if loaded == nil || loaded.Owner != "alice" || loaded.TargetFormat != "pdf" {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestGetJobMissingYieldsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job, err := store.GetJob(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil job, got %+v", job)
	}
}

func TestCreateJobRequiresOwner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.CreateJob(context.Background(), "", "pdf", 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestFinishJobGuards(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	job := testsupport.NewJob(t, store, "alice", "pdf", 2)

	if err := store.FinishJob(ctx, job.ID, jobs.StatusPending, 0); err == nil {
		t.Fatal("pending is not a terminal status, expected error")
	}

	if err := store.FinishJob(ctx, job.ID, jobs.StatusPartial, 1); err != nil {
		t.Fatalf("FinishJob: %v", err)
	}
	finished, err := store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if finished.Status != jobs.StatusPartial || finished.CompletedFiles != 1 {
		t.Fatalf("finished = %+v", finished)
	}
	if !finished.Terminal() {
		t.Error("partial should be terminal")
	}

	// Terminal status is final; a second transition must fail.
	if err := store.FinishJob(ctx, job.ID, jobs.StatusCompleted, 2); err == nil {
		t.Fatal("expected double-finish to fail")
	}
}

func TestJobsByOwnerScopesAndOrders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.NewJob(t, store, "alice", "pdf", 1)
	time.Sleep(5 * time.Millisecond)
	second := testsupport.NewJob(t, store, "alice", "png", 1)
	testsupport.NewJob(t, store, "bob", "pdf", 1)

	list, err := store.JobsByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("JobsByOwner: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	// Newest first.
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("order = [%s %s]", list[0].ID, list[1].ID)
	}
}

func TestPendingJobs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	stale := testsupport.NewJob(t, store, "alice", "pdf", 1)
	done := testsupport.NewJob(t, store, "alice", "pdf", 1)
	if err := store.FinishJob(ctx, done.ID, jobs.StatusCompleted, 1); err != nil {
		t.Fatalf("FinishJob: %v", err)
	}

	pending, err := store.PendingJobs(ctx)
	if err != nil {
		t.Fatalf("PendingJobs: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != stale.ID {
		t.Fatalf("pending = %+v", pending)
	}
}

func TestFileRecordsInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	job := testsupport.NewJob(t, store, "alice", "pdf", 3)
	names := []string{"a.docx", "b.docx", "c.docx"}
	for _, name := range names {
		record := &jobs.FileRecord{
			JobID:          job.ID,
			InputFileName:  name,
			OutputFileName: "",
			Status:         "conversion failed",
		}
		if err := store.AddFileRecord(ctx, record); err != nil {
			t.Fatalf("AddFileRecord: %v", err)
		}
		if record.ID == 0 {
			t.Fatal("record ID not assigned")
		}
	}

	records, err := store.FileRecords(ctx, job.ID)
	if err != nil {
		t.Fatalf("FileRecords: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d", len(records))
	}
	for i, record := range records {
		if record.InputFileName != names[i] {
			t.Errorf("records[%d] = %q, want %q", i, record.InputFileName, names[i])
		}
	}
}

func TestFindFileRecordExactMatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	job := testsupport.NewJob(t, store, "alice", "pdf", 1)
	record := &jobs.FileRecord{
		JobID:          job.ID,
		InputFileName:  "report.docx",
		OutputFileName: "report.pdf",
		Status:         jobs.FileStatusDone,
	}
	if err := store.AddFileRecord(ctx, record); err != nil {
		t.Fatalf("AddFileRecord: %v", err)
	}

	found, err := store.FindFileRecord(ctx, job.ID, "report.pdf")
	if err != nil {
		t.Fatalf("FindFileRecord: %v", err)
	}
	if found == nil || !found.Succeeded() {
		t.Fatalf("found = %+v", found)
	}

	missing, err := store.FindFileRecord(ctx, job.ID, "Report.pdf")
	if err != nil {
		t.Fatalf("FindFileRecord: %v", err)
	}
	if missing != nil {
		t.Fatalf("lookup is exact-match; got %+v", missing)
	}
}
