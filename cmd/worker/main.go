package main

import (
	"tubepilot/commons/config"
	"tubepilot/commons/server"
	internalConfig "tubepilot/internal/config"
	job_queue "tubepilot/internal/consumer/job_queue/init"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.WithLogger(config.ProvideFxLogger),
		fx.Provide(
			config.ProvideLogger,
			config.ProvideRouteDependencies,
			config.ProvideSQSClient,
			config.ProvideRedisCache,
			config.ProvideDynamoDBClient,
			config.ProvideYouTubeClient,
			config.ProvideSmmPanel,
			config.ProvideTextGenerator,
			internalConfig.ProvideJobScheduleRepository,
			internalConfig.ProvideScheduledJobRepository,
			internalConfig.ProvideProjectRepository,
			internalConfig.ProvideSmmCredentialRepository,
			internalConfig.ProvideGoogleAccountRepository,
			internalConfig.ProvideVideoRepository,
			internalConfig.ProvideChannelRepository,
			internalConfig.ProvideChannelSubscriptionRepository,
			internalConfig.ProvideCommentRepository,
			internalConfig.ProvideCommentSnapshotRepository,
			internalConfig.ProvideSmmOrderRepository,
			internalConfig.ProvideProgressBroadcaster,
			fx.Annotated{
				Name:   "worker_queue_url",
				Target: internalConfig.ProvideWorkerQueueURL,
			},
			internalConfig.ProvideWorkerScheduler,
			internalConfig.ProvidePostingFilter,
			internalConfig.ProvideSlotClaimer,
			internalConfig.ProvideExecutorRegistry,
			internalConfig.ProvideJobRunner,
			internalConfig.ProvideWorkerHealthHandler,
			internalConfig.ProvideWorkerRouterConfig,
			internalConfig.ProvideWorkerServerConfig,
			internalConfig.ProvideWorkerRouteInitializer,
			config.ProvideRouter,
			server.NewHTTPServer,
		),
		job_queue.JobQueueModule(),
		fx.Invoke(internalConfig.ManageWorkerSchedulerLifecycle),
	).Run()
}
