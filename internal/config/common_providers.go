package config

import (
	"os"

	cache "tubepilot/internal/cache/iface"
	"tubepilot/internal/logger"
	"tubepilot/internal/progress"
	"tubepilot/internal/repository/dynamodb"
	repository "tubepilot/internal/repository/iface"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Repository Providers

func ProvideJobScheduleRepository(client *awsdynamodb.Client, log logger.Logger) repository.JobScheduleRepository {
	return dynamodb.NewJobScheduleRepository(client, log)
}

func ProvideScheduledJobRepository(client *awsdynamodb.Client, log logger.Logger) repository.ScheduledJobRepository {
	return dynamodb.NewScheduledJobRepository(client, log)
}

func ProvideProjectRepository(client *awsdynamodb.Client, log logger.Logger) repository.ProjectRepository {
	return dynamodb.NewProjectRepository(client, log)
}

func ProvideSmmCredentialRepository(client *awsdynamodb.Client, log logger.Logger) repository.SmmCredentialRepository {
	return dynamodb.NewSmmCredentialRepository(client, log)
}

func ProvideGoogleAccountRepository(client *awsdynamodb.Client, log logger.Logger) repository.GoogleAccountRepository {
	return dynamodb.NewGoogleAccountRepository(client, log)
}

func ProvideVideoRepository(client *awsdynamodb.Client, log logger.Logger) repository.VideoRepository {
	return dynamodb.NewVideoRepository(client, log)
}

func ProvideChannelRepository(client *awsdynamodb.Client, log logger.Logger) repository.ChannelRepository {
	return dynamodb.NewChannelRepository(client, log)
}

func ProvideChannelSubscriptionRepository(client *awsdynamodb.Client, log logger.Logger) repository.ChannelSubscriptionRepository {
	return dynamodb.NewChannelSubscriptionRepository(client, log)
}

func ProvideCommentRepository(client *awsdynamodb.Client, log logger.Logger) repository.CommentRepository {
	return dynamodb.NewCommentRepository(client, log)
}

func ProvideCommentSnapshotRepository(client *awsdynamodb.Client, log logger.Logger) repository.CommentSnapshotRepository {
	return dynamodb.NewCommentSnapshotRepository(client, log)
}

func ProvideSmmOrderRepository(client *awsdynamodb.Client, log logger.Logger) repository.SmmOrderRepository {
	return dynamodb.NewSmmOrderRepository(client, log)
}

// ProvideProgressBroadcaster provides the Redis pub/sub progress broadcaster
func ProvideProgressBroadcaster(c cache.Cache, log logger.Logger) progress.Broadcaster {
	return progress.NewRedisBroadcaster(c, log)
}

// ProvideWorkerQueueURL reads the worker queue URL, defaulting to LocalStack
func ProvideWorkerQueueURL() string {
	if url := os.Getenv("WORKER_QUEUE_URL"); url != "" {
		return url
	}
	return "http://localhost:4566/000000000000/job-queue"
}
