package config

import (
	"context"
	"os"

	"tubepilot/commons/routes"
	"tubepilot/commons/server"
	cache "tubepilot/internal/cache/iface"
	"tubepilot/internal/handler"
	"tubepilot/internal/logger"
	"tubepilot/internal/progress"
	repository "tubepilot/internal/repository/iface"
	internalRoutes "tubepilot/internal/routes"
	"tubepilot/internal/service"
	"tubepilot/internal/smm"
	"tubepilot/internal/textgen"
	"tubepilot/internal/youtube"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// WorkerSchedulerParams collects the worker's scheduler engine dependencies
type WorkerSchedulerParams struct {
	fx.In

	Cache     cache.Cache
	JobRepo   repository.ScheduledJobRepository
	SQSClient *sqs.Client
	Logger    logger.Logger
	QueueURL  string `name:"worker_queue_url"`
}

// ProvideWorkerScheduler provides the worker's own bucket engine. Follow-up
// jobs enqueued during execution land in this node's buckets and are
// dispatched by this process.
func ProvideWorkerScheduler(p WorkerSchedulerParams) service.IScheduler {
	return service.NewScheduler(p.Cache, p.JobRepo, p.SQSClient, p.QueueURL, workerNodeID(), p.Logger)
}

func workerNodeID() string {
	if id := os.Getenv("NODE_ID"); id != "" {
		return id
	}
	return "WORKER-NODE-1"
}

// ProvidePostingFilter provides the per-project targeting filter
func ProvidePostingFilter(log logger.Logger) service.PostingFilter {
	return service.NewPostingFilter(log)
}

// ProvideSlotClaimer provides the execution slot claimer
func ProvideSlotClaimer(
	scheduleRepo repository.JobScheduleRepository,
	log logger.Logger,
) service.SlotClaimer {
	return service.NewSlotClaimer(scheduleRepo, log)
}

// ExecutorParams collects the dependencies shared across job executors
type ExecutorParams struct {
	fx.In

	YouTube          youtube.Client
	Panel            smm.Panel
	Generator        textgen.Generator
	Filter           service.PostingFilter
	Scheduler        service.IScheduler
	Broadcaster      progress.Broadcaster
	ProjectRepo      repository.ProjectRepository
	VideoRepo        repository.VideoRepository
	ChannelRepo      repository.ChannelRepository
	SubscriptionRepo repository.ChannelSubscriptionRepository
	CommentRepo      repository.CommentRepository
	SnapshotRepo     repository.CommentSnapshotRepository
	AccountRepo      repository.GoogleAccountRepository
	CredentialRepo   repository.SmmCredentialRepository
	OrderRepo        repository.SmmOrderRepository
	Logger           logger.Logger
}

// ProvideExecutorRegistry builds every job executor and maps job types to them
func ProvideExecutorRegistry(p ExecutorParams) *service.ExecutorRegistry {
	feedPolling := service.NewFeedPollingExecutor(
		p.YouTube, p.Scheduler, p.VideoRepo, p.ChannelRepo, p.SubscriptionRepo, p.Broadcaster, p.Logger)

	commentStatus := service.NewCommentStatusExecutor(
		p.YouTube, p.VideoRepo, p.CommentRepo, p.SnapshotRepo, p.Broadcaster,
		service.DefaultStatusCheckFetchDepth, p.Logger)

	commentPosting := service.NewCommentPostingExecutor(
		p.YouTube, p.Panel, p.Generator, p.Filter,
		p.ProjectRepo, p.VideoRepo, p.CommentRepo, p.AccountRepo, p.CredentialRepo, p.OrderRepo,
		p.Broadcaster, service.DefaultInterPostDelay, p.Logger)

	smmOrderStatus := service.NewSmmOrderStatusExecutor(
		p.Panel, p.YouTube, p.ProjectRepo, p.CredentialRepo, p.OrderRepo,
		p.VideoRepo, p.CommentRepo, p.Broadcaster, p.Logger)

	replyPosting := service.NewReplyPostingExecutor(
		p.YouTube, p.Generator, p.CommentRepo, p.VideoRepo, p.AccountRepo,
		p.Broadcaster, service.DefaultInterReplyDelay, p.Logger)

	metadataFetch := service.NewMetadataFetchExecutor(p.YouTube, p.VideoRepo, p.Logger)

	return service.NewExecutorRegistry(
		feedPolling, commentStatus, commentPosting, smmOrderStatus, replyPosting, metadataFetch)
}

// ProvideJobRunner provides the job execution envelope
func ProvideJobRunner(
	claimer service.SlotClaimer,
	registry *service.ExecutorRegistry,
	scheduler service.IScheduler,
	scheduleRepo repository.JobScheduleRepository,
	broadcaster progress.Broadcaster,
	log logger.Logger,
) service.JobRunner {
	return service.NewJobRunner(claimer, registry, scheduler, scheduleRepo, broadcaster, log)
}

// ProvideWorkerHealthHandler creates the health handler for worker service
func ProvideWorkerHealthHandler(log logger.Logger) *handler.HealthHandler {
	return handler.NewHealthHandler(log, "worker")
}

// ProvideWorkerRouterConfig creates router configuration for worker service
func ProvideWorkerRouterConfig(log logger.Logger) routes.RouterConfig {
	return routes.RouterConfig{
		ServiceName: "worker",
		Version:     "v1",
	}
}

// ProvideWorkerServerConfig creates server configuration for worker service
func ProvideWorkerServerConfig() server.ServerConfig {
	return server.ServerConfig{
		Port: "8090",
	}
}

// ProvideWorkerRouteInitializer creates route initializer for worker service
func ProvideWorkerRouteInitializer(
	healthHandler *handler.HealthHandler,
) func(*gin.Engine, routes.RouteDependencies) {
	return func(router *gin.Engine, deps routes.RouteDependencies) {
		internalRoutes.InitHealthRoutes(router, healthHandler, deps.Logger)
	}
}

// ManageWorkerSchedulerLifecycle starts the worker's bucket engine so
// follow-up jobs it enqueues get dispatched
func ManageWorkerSchedulerLifecycle(
	lc fx.Lifecycle,
	scheduler service.IScheduler,
	srv *server.HTTPServer,
	log logger.Logger,
) {
	_ = srv

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting worker scheduler cron jobs")
			return scheduler.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping worker scheduler")
			return scheduler.Stop(ctx)
		},
	})
}
