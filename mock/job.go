package mock

import (
	"context"

	"github.com/fwojciec/docpipe"
)

var _ docpipe.JobService = (*JobService)(nil)

// JobService is a mock implementation of docpipe.JobService.
type JobService struct {
	CreateJobFn   func(ctx context.Context, job *docpipe.Job) error
	FindJobByIDFn func(ctx context.Context, id string) (*docpipe.Job, error)
	FindJobsFn    func(ctx context.Context, filter docpipe.JobFilter) ([]*docpipe.Job, error)
	UpdateJobFn   func(ctx context.Context, id string, upd docpipe.JobUpdate) (*docpipe.Job, error)
	RequestStopFn func(ctx context.Context, id string) (*docpipe.Job, error)
}

func (s *JobService) CreateJob(ctx context.Context, job *docpipe.Job) error {
	return s.CreateJobFn(ctx, job)
}

func (s *JobService) FindJobByID(ctx context.Context, id string) (*docpipe.Job, error) {
	return s.FindJobByIDFn(ctx, id)
}

func (s *JobService) FindJobs(ctx context.Context, filter docpipe.JobFilter) ([]*docpipe.Job, error) {
	return s.FindJobsFn(ctx, filter)
}

func (s *JobService) UpdateJob(ctx context.Context, id string, upd docpipe.JobUpdate) (*docpipe.Job, error) {
	return s.UpdateJobFn(ctx, id, upd)
}

func (s *JobService) RequestStop(ctx context.Context, id string) (*docpipe.Job, error) {
	return s.RequestStopFn(ctx, id)
}
