package jobs

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"convertx/internal/config"
	"convertx/internal/dispatch"
	"convertx/internal/format"
	"convertx/internal/logging"
)

// FileInput is one submitted file: a declared name plus either inline
// base64 content or a remote source location.
type FileInput struct {
	Name      string
	Content   string
	SourceURL string
}

// SubmitRequest describes a batch conversion submission.
type SubmitRequest struct {
	Owner        string
	TargetFormat string
	// Backend, when set, is the only backend allowed to serve every file.
	Backend string
	Options map[string]string
	Files   []FileInput
}

// Result is a finished job with its per-file records in processing order.
type Result struct {
	Job   *Job
	Files []*FileRecord
}

// Manager drives jobs through the conversion pipeline.
type Manager struct {
	cfg        *config.Config
	store      *Store
	dispatcher *dispatch.Dispatcher
	fetcher    *SourceFetcher
	logger     *slog.Logger
}

// NewManager constructs a lifecycle manager.
func NewManager(cfg *config.Config, store *Store, dispatcher *dispatch.Dispatcher, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:        cfg,
		store:      store,
		dispatcher: dispatcher,
		fetcher:    NewSourceFetcher(cfg.FetchTimeout(), cfg.Conversion.MaxFetchMiB<<20),
		logger:     logging.WithComponent(logger, "jobs"),
	}
}

// Run executes a submission end to end and returns the finished job.
//
// Files are processed strictly sequentially: backends are external
// processes with heavy resource footprints, so one conversion at a time per
// job bounds peak usage and keeps the per-file result order reproducible.
// A failure in one file is recorded and never aborts its siblings; only
// infrastructure failures (store, working directories) abort the job, in
// which case the row stays pending. There is no reconciliation sweep for
// such rows.
func (m *Manager) Run(ctx context.Context, req SubmitRequest) (*Result, error) {
	if strings.TrimSpace(req.Owner) == "" {
		return nil, fmt.Errorf("%w: owner required", ErrInput)
	}
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: no files submitted", ErrInput)
	}
	target := format.NormalizeOutput(req.TargetFormat)
	if target == "" {
		return nil, fmt.Errorf("%w: target format required", ErrInput)
	}
	if req.Backend != "" {
		req.Backend = strings.TrimSpace(req.Backend)
	}

	job, err := m.store.CreateJob(ctx, req.Owner, target, len(req.Files))
	if err != nil {
		return nil, fmt.Errorf("%w: create job: %v", ErrInfra, err)
	}

	logger := m.logger.With(logging.String("job", job.ID), logging.String("owner", job.Owner))

	workspace := WorkspaceFor(m.cfg.JobsRoot(), job.Owner, job.ID)
	for _, dir := range []string{workspace.Uploads, workspace.Outputs} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create working directory: %v", ErrInfra, err)
		}
	}

	completed := 0
	for index, file := range req.Files {
		record, ok := m.processFile(ctx, logger, workspace, target, req, file)
		record.JobID = job.ID
		if addErr := m.store.AddFileRecord(ctx, record); addErr != nil {
			return nil, fmt.Errorf("%w: record file %d: %v", ErrInfra, index, addErr)
		}
		if ok {
			completed++
		}
	}

	status := StatusPartial
	if completed == job.NumFiles {
		status = StatusCompleted
	}
	if err := m.store.FinishJob(ctx, job.ID, status, completed); err != nil {
		return nil, fmt.Errorf("%w: finish job: %v", ErrInfra, err)
	}

	logger.Info("job finished",
		logging.String("status", string(status)),
		logging.Int("completed", completed),
		logging.Int("total", job.NumFiles),
	)

	finished, err := m.store.GetJob(ctx, job.ID)
	if err != nil || finished == nil {
		return nil, fmt.Errorf("%w: reload job: %v", ErrInfra, err)
	}
	records, err := m.store.FileRecords(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: load file records: %v", ErrInfra, err)
	}
	return &Result{Job: finished, Files: records}, nil
}

// processFile attempts one file and always returns a record to persist; the
// boolean reports success. Every failure path is per-file by construction.
func (m *Manager) processFile(ctx context.Context, logger *slog.Logger, workspace Workspace, target string, req SubmitRequest, file FileInput) (*FileRecord, bool) {
	name := format.SanitizeFileName(file.Name)
	if name == "" {
		return &FileRecord{
			InputFileName: strings.TrimSpace(file.Name),
			Status:        "invalid file name",
		}, false
	}

	record := &FileRecord{InputFileName: name}

	inputPath := filepath.Join(workspace.Uploads, name)
	if err := m.materialize(ctx, inputPath, file); err != nil {
		record.Status = err.Error()
		logger.Warn("file rejected", logging.String("file", name), logging.Error(err))
		return record, false
	}

	inputExt := format.InputExtension(name)
	if inputExt == "" {
		record.Status = "cannot determine input format"
		return record, false
	}

	outputName := format.ReplaceExtension(name, target)
	backend, err := m.dispatcher.Convert(ctx, dispatch.Request{
		InputPath:    inputPath,
		InputFormat:  inputExt,
		OutputFormat: target,
		OutputPath:   filepath.Join(workspace.Outputs, outputName),
		Options:      req.Options,
		Backend:      req.Backend,
	})
	if err != nil {
		record.Status = err.Error()
		logger.Warn("conversion failed", logging.String("file", name), logging.Error(err))
		return record, false
	}

	record.OutputFileName = outputName
	record.Status = FileStatusDone
	logger.Info("file converted",
		logging.String("file", name),
		logging.String("output", outputName),
		logging.String("backend", backend),
	)
	return record, true
}

// materialize writes the file's content into the uploads directory, either
// decoding inline content or fetching the source location.
func (m *Manager) materialize(ctx context.Context, path string, file FileInput) error {
	var content []byte
	switch {
	case file.Content != "":
		decoded, err := base64.StdEncoding.DecodeString(file.Content)
		if err != nil {
			return fmt.Errorf("decode content: %w", err)
		}
		content = decoded
	case strings.TrimSpace(file.SourceURL) != "":
		fetched, err := m.fetcher.Fetch(ctx, strings.TrimSpace(file.SourceURL))
		if err != nil {
			return err
		}
		content = fetched
	default:
		return fmt.Errorf("no content or source location provided")
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}
