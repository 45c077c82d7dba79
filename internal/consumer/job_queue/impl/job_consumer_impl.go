package consumer

import (
	"context"

	jobqueue "tubepilot/internal/consumer/job_queue/iface"
	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	"tubepilot/internal/service"
)

type jobConsumer struct {
	runner service.JobRunner
	logger logger.Logger
}

// NewJobConsumer creates the worker queue consumer
func NewJobConsumer(runner service.JobRunner, log logger.Logger) jobqueue.JobConsumer {
	return &jobConsumer{
		runner: runner,
		logger: log.With(logger.String("component", "job_consumer")),
	}
}

// ProcessMessage runs the job through the runner. A failed run keeps the
// message on the queue; the slot claim makes the redelivery harmless.
func (c *jobConsumer) ProcessMessage(ctx context.Context, job domain.ScheduledJob) bool {
	c.logger.Info("processing job instance",
		logger.String("job_id", job.JobID),
		logger.String("job_type", string(job.JobType)),
		logger.String("project_id", job.ProjectID))

	if err := c.runner.Run(ctx, &job); err != nil {
		c.logger.Error("job run failed, leaving message for redelivery",
			logger.String("job_id", job.JobID),
			logger.Error(err))
		return false
	}

	return true
}
