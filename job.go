package docpipe

import (
	"context"
	"time"
)

// JobStatus represents the state of an ingestion job.
type JobStatus string

// Job statuses in order of normal progression. Completed, Failed and
// Stopped are terminal.
const (
	JobPending   JobStatus = "PENDING"
	JobCrawling  JobStatus = "CRAWLING"
	JobParsing   JobStatus = "PARSING"
	JobEmbedding JobStatus = "EMBEDDING"
	JobIndexing  JobStatus = "INDEXING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
	JobStopped   JobStatus = "STOPPED"
)

// Terminal reports whether the status is final. Terminal jobs are immutable;
// new runs create a new job record.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobStopped
}

// Job represents one ingestion execution attempt against a documentation.
type Job struct {
	ID              string    `json:"id"`
	DocumentationID string    `json:"documentationId"`
	Status          JobStatus `json:"status"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
	ProgressPercent int       `json:"progressPercent"`
	PagesProcessed  int       `json:"pagesProcessed"`
	StopRequested   bool      `json:"stopRequested"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Validate returns an error if the job contains invalid fields.
func (j *Job) Validate() error {
	if j.DocumentationID == "" {
		return Errorf(EINVALID, "job documentation ID required")
	}
	return nil
}

// JobService represents a service for managing ingestion jobs. Job state
// lives in persisted storage rather than in-process memory so that any
// process can read status and the stop flag is always observed fresh.
type JobService interface {
	// CreateJob creates a new job in PENDING state.
	CreateJob(ctx context.Context, job *Job) error

	// FindJobByID retrieves a job by ID.
	// Returns ENOTFOUND if job does not exist.
	FindJobByID(ctx context.Context, id string) (*Job, error)

	// FindJobs retrieves jobs matching the filter.
	FindJobs(ctx context.Context, filter JobFilter) ([]*Job, error)

	// UpdateJob updates job state. Updates to terminal jobs are rejected
	// with ECONFLICT.
	UpdateJob(ctx context.Context, id string, upd JobUpdate) (*Job, error)

	// RequestStop sets the stop flag on a non-terminal job. The running
	// pipeline observes the flag at its next phase boundary. Requesting a
	// stop on a terminal job is a no-op that returns the current snapshot.
	// Returns ENOTFOUND if job does not exist.
	RequestStop(ctx context.Context, id string) (*Job, error)
}

// JobFilter represents a filter for FindJobs.
type JobFilter struct {
	ID              *string    `json:"id"`
	DocumentationID *string    `json:"documentationId"`
	Status          *JobStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// JobUpdate represents fields that can be updated on a job.
type JobUpdate struct {
	Status          *JobStatus `json:"status"`
	ErrorMessage    *string    `json:"errorMessage"`
	ProgressPercent *int       `json:"progressPercent"`
	PagesProcessed  *int       `json:"pagesProcessed"`
}
