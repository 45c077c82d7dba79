package service

import (
	"context"
	"fmt"

	"tubepilot/internal/domain"
)

// JobExecutor performs one job type's work for a single job instance
type JobExecutor interface {
	Execute(ctx context.Context, job *domain.ScheduledJob) error
}

// ExecutorRegistry maps job types to their executors. The mapping is fixed at
// construction; there is no runtime registration.
type ExecutorRegistry struct {
	executors map[domain.JobType]JobExecutor
}

// NewExecutorRegistry wires every job type to its executor
func NewExecutorRegistry(
	feedPolling JobExecutor,
	commentStatus JobExecutor,
	commentPosting JobExecutor,
	smmOrderStatus JobExecutor,
	replyPosting JobExecutor,
	metadataFetch JobExecutor,
) *ExecutorRegistry {
	return &ExecutorRegistry{
		executors: map[domain.JobType]JobExecutor{
			domain.JobTypeChannelFeedPolling:  feedPolling,
			domain.JobTypeCommentStatusCheck:  commentStatus,
			domain.JobTypeCommentPosting:      commentPosting,
			domain.JobTypeSmmOrderStatusCheck: smmOrderStatus,
			domain.JobTypeReplyPosting:        replyPosting,
			domain.JobTypeFetchVideoMetadata:  metadataFetch,
		},
	}
}

// Lookup returns the executor for a job type
func (r *ExecutorRegistry) Lookup(jobType domain.JobType) (JobExecutor, error) {
	executor, ok := r.executors[jobType]
	if !ok {
		return nil, fmt.Errorf("no executor registered for job type %s", jobType)
	}
	return executor, nil
}
