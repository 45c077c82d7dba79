package job_queue

import (
	"context"

	jobqueue "tubepilot/internal/consumer/job_queue/iface"
	consumerImpl "tubepilot/internal/consumer/job_queue/impl"
	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	queue "tubepilot/internal/queue/iface"
	"tubepilot/internal/queue/sqs"
	"tubepilot/internal/service"

	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/fx"
)

// JobQueueParams holds dependencies for the worker job queue
type JobQueueParams struct {
	fx.In

	Logger    logger.Logger
	SQSClient *awssqs.Client
	Runner    service.JobRunner
	QueueURL  string `name:"worker_queue_url"`
}

// JobQueueResult holds what this module provides
type JobQueueResult struct {
	fx.Out

	Consumer jobqueue.JobConsumer
	Queue    queue.Queue `name:"job_queue"`
}

// ProvideJobQueueAndConsumer wires the SQS queue to the job runner
func ProvideJobQueueAndConsumer(params JobQueueParams) JobQueueResult {
	consumer := consumerImpl.NewJobConsumer(params.Runner, params.Logger)

	q := sqs.NewSQSQueue(
		params.SQSClient,
		sqs.QueueConfig{
			QueueURL:        params.QueueURL,
			WorkerCount:     1,
			MaxMessages:     1,
			WaitTimeSeconds: 20,
		},
		queue.MessageProcessorFunc[domain.ScheduledJob](func(ctx context.Context, job domain.ScheduledJob) bool {
			return consumer.ProcessMessage(ctx, job)
		}),
		params.Logger,
	)

	return JobQueueResult{
		Consumer: consumer,
		Queue:    q,
	}
}

// JobQueueModule provides the FX module for the worker job queue
func JobQueueModule() fx.Option {
	return fx.Options(
		fx.Provide(
			ProvideJobQueueAndConsumer,
		),
		fx.Invoke(func(params struct {
			fx.In
			Lifecycle fx.Lifecycle
			Queue     queue.Queue `name:"job_queue"`
			Logger    logger.Logger
		}) {
			params.Lifecycle.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					params.Logger.Info("starting job queue consumer")
					return params.Queue.StartConsumer(ctx)
				},
				OnStop: func(ctx context.Context) error {
					params.Logger.Info("stopping job queue consumer")
					return params.Queue.StopConsumer(ctx)
				},
			})
		}),
	)
}
