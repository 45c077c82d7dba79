package config

import (
	"context"
	"os"

	"tubepilot/commons/routes"
	"tubepilot/commons/server"
	cache "tubepilot/internal/cache/iface"
	coordinator "tubepilot/internal/coordinator/iface"
	"tubepilot/internal/handler"
	"tubepilot/internal/logger"
	repository "tubepilot/internal/repository/iface"
	internalRoutes "tubepilot/internal/routes"
	"tubepilot/internal/service"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// schedulerNodePath is where scheduler nodes register themselves
const schedulerNodePath = "/tubepilot/schedulers"

// SchedulerParams collects the scheduler service's dependencies
type SchedulerParams struct {
	fx.In

	Cache     cache.Cache
	JobRepo   repository.ScheduledJobRepository
	SQSClient *sqs.Client
	Logger    logger.Logger
	QueueURL  string `name:"worker_queue_url"`
}

// ProvideScheduler provides the bucket scheduler engine
func ProvideScheduler(p SchedulerParams) service.IScheduler {
	return service.NewScheduler(p.Cache, p.JobRepo, p.SQSClient, p.QueueURL, schedulerNodeID(), p.Logger)
}

func schedulerNodeID() string {
	if id := os.Getenv("NODE_ID"); id != "" {
		return id
	}
	return "SCHEDULER-NODE-1"
}

// ProvideScheduleManager provides the schedule control service
func ProvideScheduleManager(
	scheduleRepo repository.JobScheduleRepository,
	jobRepo repository.ScheduledJobRepository,
	scheduler service.IScheduler,
	log logger.Logger,
) service.ScheduleManager {
	return service.NewScheduleManager(scheduleRepo, jobRepo, scheduler, log)
}

// ProvideScheduleHandler provides the schedule control handler
func ProvideScheduleHandler(manager service.ScheduleManager, log logger.Logger) *handler.ScheduleHandler {
	return handler.NewScheduleHandler(manager, log)
}

// ProvideSchedulerHealthHandler creates the health handler for scheduler service
func ProvideSchedulerHealthHandler(log logger.Logger) *handler.HealthHandler {
	return handler.NewHealthHandler(log, "scheduler")
}

// ProvideSchedulerRouterConfig creates router configuration for scheduler service
func ProvideSchedulerRouterConfig(log logger.Logger) routes.RouterConfig {
	return routes.RouterConfig{
		ServiceName: "scheduler",
		Version:     "v1",
	}
}

// ProvideSchedulerServerConfig creates server configuration for scheduler service
func ProvideSchedulerServerConfig() server.ServerConfig {
	return server.ServerConfig{
		Port: "8091",
	}
}

// ProvideSchedulerRouteInitializer creates route initializer for scheduler service
func ProvideSchedulerRouteInitializer(
	healthHandler *handler.HealthHandler,
	scheduleHandler *handler.ScheduleHandler,
) func(*gin.Engine, routes.RouteDependencies) {
	return func(router *gin.Engine, deps routes.RouteDependencies) {
		internalRoutes.InitHealthRoutes(router, healthHandler, deps.Logger)
		internalRoutes.InitScheduleRoutes(router, scheduleHandler, deps.Logger)
	}
}

// ManageSchedulerLifecycle starts the bucket engine and registers the node
// with the coordinator so operators can see which schedulers are alive
func ManageSchedulerLifecycle(
	lc fx.Lifecycle,
	scheduler service.IScheduler,
	coord coordinator.Coordinator,
	srv *server.HTTPServer,
	log logger.Logger,
) {
	// The HTTP server's lifecycle hooks are managed by FX; referencing it
	// here pulls it into the dependency graph.
	_ = srv

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			nodePath := schedulerNodePath + "/" + schedulerNodeID()
			if err := coord.CreateNode(nodePath, []byte("alive")); err != nil {
				log.Error("failed to register scheduler node", logger.Error(err))
				return err
			}

			log.Info("starting scheduler cron jobs")
			return scheduler.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping scheduler")
			if err := scheduler.Stop(ctx); err != nil {
				return err
			}
			return coord.Close()
		},
	})
}
