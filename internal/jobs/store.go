package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"convertx/internal/config"
)

// Store manages job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the job database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "jobs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// CreateJob inserts a new job in pending state and assigns its identifier.
// NumFiles is fixed at creation and never changes.
func (s *Store) CreateJob(ctx context.Context, owner, targetFormat string, numFiles int) (*Job, error) {
	if owner == "" {
		return nil, errors.New("owner required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	id := uuid.NewString()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO jobs (id, owner, status, num_files, completed_files, target_format, created_at, updated_at)
         VALUES (?, ?, ?, ?, 0, ?, ?, ?)`,
		id,
		owner,
		StatusPending,
		numFiles,
		targetFormat,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return s.GetJob(ctx, id)
}

// GetJob fetches a job by identifier. Missing jobs yield (nil, nil).
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// JobsByOwner returns an owner's jobs, newest first.
func (s *Store) JobsByOwner(ctx context.Context, owner string) ([]*Job, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE owner = ? ORDER BY created_at DESC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("query jobs by owner: %w", err)
	}
	defer rows.Close()

	var result []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}

// PendingJobs returns jobs that never reached a terminal status. A mid-run
// crash leaves such rows behind; callers report them, nothing sweeps them.
func (s *Store) PendingJobs(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = ? ORDER BY created_at`,
		StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending jobs: %w", err)
	}
	defer rows.Close()

	var result []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}

// FinishJob applies the one and only post-creation status mutation: pending
// to completed or partial, with the final success count.
func (s *Store) FinishJob(ctx context.Context, id string, status Status, completedFiles int) error {
	if status != StatusCompleted && status != StatusPartial {
		return fmt.Errorf("finish job: %q is not a terminal status", status)
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs SET status = ?, completed_files = ?, updated_at = ? WHERE id = ? AND status = ?`,
		status,
		completedFiles,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		StatusPending,
	)
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish job rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish job: job %s is not pending", id)
	}
	return nil
}

// AddFileRecord appends the outcome row for one file. Records are insert-only.
func (s *Store) AddFileRecord(ctx context.Context, record *FileRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	now := time.Now().UTC()
	record.CreatedAt = now

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO file_records (job_id, input_file_name, output_file_name, status, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		record.JobID,
		record.InputFileName,
		record.OutputFileName,
		record.Status,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert file record: %w", err)
	}
	record.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

// FileRecords returns a job's records in insertion order, matching the
// sequential processing order of the submitted files.
func (s *Store) FileRecords(ctx context.Context, jobID string) ([]*FileRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+fileRecordColumns+` FROM file_records WHERE job_id = ? ORDER BY id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("query file records: %w", err)
	}
	defer rows.Close()

	var result []*FileRecord
	for rows.Next() {
		record, err := scanFileRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

// FindFileRecord returns the record in a job whose output file name matches
// exactly, or (nil, nil) when absent.
func (s *Store) FindFileRecord(ctx context.Context, jobID, outputFileName string) (*FileRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+fileRecordColumns+` FROM file_records WHERE job_id = ? AND output_file_name = ? ORDER BY id LIMIT 1`,
		jobID,
		outputFileName,
	)
	record, err := scanFileRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find file record: %w", err)
	}
	return record, nil
}

const jobColumns = "id, owner, status, num_files, completed_files, target_format, created_at, updated_at"

const fileRecordColumns = "id, job_id, input_file_name, output_file_name, status, created_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		job        Job
		statusStr  string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&job.ID,
		&job.Owner,
		&statusStr,
		&job.NumFiles,
		&job.CompletedFiles,
		&job.TargetFormat,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	job.Status = Status(statusStr)
	if created, err := parseTimeString(createdRaw); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		job.UpdatedAt = updated
	}
	return &job, nil
}

func scanFileRecord(scanner interface{ Scan(dest ...any) error }) (*FileRecord, error) {
	var (
		record     FileRecord
		createdRaw string
	)
	if err := scanner.Scan(
		&record.ID,
		&record.JobID,
		&record.InputFileName,
		&record.OutputFileName,
		&record.Status,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = created
	}
	return &record, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
