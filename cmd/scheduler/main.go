package main

import (
	"tubepilot/commons/config"
	"tubepilot/commons/server"
	internalConfig "tubepilot/internal/config"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.WithLogger(config.ProvideFxLogger),
		fx.Provide(
			config.ProvideLogger,
			config.ProvideRouteDependencies,
			config.ProvideSQSClient,
			config.ProvideZooKeeperCoordinator,
			config.ProvideRedisCache,
			config.ProvideDynamoDBClient,
			internalConfig.ProvideJobScheduleRepository,
			internalConfig.ProvideScheduledJobRepository,
			fx.Annotated{
				Name:   "worker_queue_url",
				Target: internalConfig.ProvideWorkerQueueURL,
			},
			internalConfig.ProvideScheduler,
			internalConfig.ProvideScheduleManager,
			internalConfig.ProvideScheduleHandler,
			internalConfig.ProvideSchedulerHealthHandler,
			internalConfig.ProvideSchedulerRouterConfig,
			internalConfig.ProvideSchedulerServerConfig,
			internalConfig.ProvideSchedulerRouteInitializer,
			config.ProvideRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(internalConfig.ManageSchedulerLifecycle),
	).Run()
}
