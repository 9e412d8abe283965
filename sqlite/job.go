package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/docpipe"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docpipe.JobService = (*JobService)(nil)

// JobService implements docpipe.JobService using SQLite. Job state is
// persisted so any process can observe status and the stop flag is always
// read fresh from storage.
type JobService struct {
	db *DB
}

// NewJobService creates a new JobService.
func NewJobService(db *DB) *JobService {
	return &JobService{db: db}
}

// CreateJob creates a new job in PENDING state.
func (s *JobService) CreateJob(ctx context.Context, job *docpipe.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	job.ID = uuid.New().String()
	job.Status = docpipe.JobPending
	job.ProgressPercent = 0
	job.StopRequested = false
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestion_jobs (id, documentation_id, status, error_message,
			progress_percent, pages_processed, stop_requested, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.DocumentationID, string(job.Status), job.ErrorMessage,
		job.ProgressPercent, job.PagesProcessed, boolToInt(job.StopRequested),
		job.CreatedAt.Format(time.RFC3339), job.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindJobByID retrieves a job by ID.
func (s *JobService) FindJobByID(ctx context.Context, id string) (*docpipe.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, documentation_id, status, error_message, progress_percent,
			pages_processed, stop_requested, created_at, updated_at
		FROM ingestion_jobs
		WHERE id = ?
	`, id)

	job, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return nil, docpipe.Errorf(docpipe.ENOTFOUND, "job not found")
	}
	return job, err
}

// FindJobs retrieves jobs matching the filter, newest first.
func (s *JobService) FindJobs(ctx context.Context, filter docpipe.JobFilter) ([]*docpipe.Job, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, documentation_id, status, error_message, progress_percent,
		pages_processed, stop_requested, created_at, updated_at
		FROM ingestion_jobs WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.DocumentationID != nil {
		query.WriteString(" AND documentation_id = ?")
		args = append(args, *filter.DocumentationID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*docpipe.Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// UpdateJob updates job state. Updates to terminal jobs are rejected with
// ECONFLICT so races between a finishing pipeline and late writers resolve
// in favor of the terminal state.
func (s *JobService) UpdateJob(ctx context.Context, id string, upd docpipe.JobUpdate) (*docpipe.Job, error) {
	job, err := s.FindJobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if job.Status.Terminal() {
		return nil, docpipe.Errorf(docpipe.ECONFLICT, "job %s is %s and cannot be updated", id, job.Status)
	}

	// Apply updates
	if upd.Status != nil {
		job.Status = *upd.Status
	}
	if upd.ErrorMessage != nil {
		job.ErrorMessage = *upd.ErrorMessage
	}
	if upd.ProgressPercent != nil {
		job.ProgressPercent = *upd.ProgressPercent
	}
	if upd.PagesProcessed != nil {
		job.PagesProcessed = *upd.PagesProcessed
	}

	job.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE ingestion_jobs
		SET status = ?, error_message = ?, progress_percent = ?, pages_processed = ?, updated_at = ?
		WHERE id = ?
	`, string(job.Status), job.ErrorMessage, job.ProgressPercent, job.PagesProcessed,
		job.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return job, nil
}

// RequestStop sets the stop flag on a non-terminal job. Requesting a stop on
// a terminal job is a no-op that returns the current snapshot.
func (s *JobService) RequestStop(ctx context.Context, id string) (*docpipe.Job, error) {
	job, err := s.FindJobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if job.Status.Terminal() {
		return job, nil
	}

	job.StopRequested = true
	job.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE ingestion_jobs SET stop_requested = 1, updated_at = ? WHERE id = ?
	`, job.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return job, nil
}

// scanJob scans a job row using the provided scan function.
func scanJob(scan func(dest ...any) error) (*docpipe.Job, error) {
	var job docpipe.Job
	var status, createdAt, updatedAt string
	var stopRequested int

	err := scan(&job.ID, &job.DocumentationID, &status, &job.ErrorMessage,
		&job.ProgressPercent, &job.PagesProcessed, &stopRequested, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	job.Status = docpipe.JobStatus(status)
	job.StopRequested = stopRequested != 0
	if job.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if job.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &job, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
