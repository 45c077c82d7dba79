package dynamodb

import (
	"context"
	"fmt"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	repository "tubepilot/internal/repository/iface"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type scheduledJobRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    logger.Logger
}

// NewScheduledJobRepository creates a new DynamoDB scheduled job repository
func NewScheduledJobRepository(client *dynamodb.Client, log logger.Logger) repository.ScheduledJobRepository {
	return &scheduledJobRepository{
		client:    client,
		tableName: "scheduled_jobs",
		logger:    log.With(logger.String("component", "scheduled_job_repository")),
	}
}

func (r *scheduledJobRepository) Create(ctx context.Context, job *domain.ScheduledJob) error {
	r.logger.Debug("creating scheduled job",
		logger.String("job_id", job.JobID),
		logger.String("job_type", string(job.JobType)))

	item, err := attributevalue.MarshalMap(job)
	if err != nil {
		r.logger.Error("failed to marshal job", logger.Error(err))
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to create job", logger.Error(err))
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (r *scheduledJobRepository) Update(ctx context.Context, job *domain.ScheduledJob) error {
	item, err := attributevalue.MarshalMap(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})

	if err != nil {
		r.logger.Error("failed to update job", logger.Error(err))
		return fmt.Errorf("failed to update job: %w", err)
	}

	return nil
}

func (r *scheduledJobRepository) GetByID(ctx context.Context, jobID string) (*domain.ScheduledJob, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"job_id": &types.AttributeValueMemberS{Value: jobID},
		},
	})

	if err != nil {
		r.logger.Error("failed to get job", logger.Error(err))
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: job %s", repository.ErrNotFound, jobID)
	}

	var job domain.ScheduledJob
	if err := attributevalue.UnmarshalMap(result.Item, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

func (r *scheduledJobRepository) Delete(ctx context.Context, jobID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"job_id": &types.AttributeValueMemberS{Value: jobID},
		},
	})

	if err != nil {
		r.logger.Error("failed to delete job", logger.Error(err))
		return fmt.Errorf("failed to delete job: %w", err)
	}

	return nil
}

func (r *scheduledJobRepository) DeletePendingBySchedule(ctx context.Context, scheduleKey string) (int, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("schedule_key_index"),
		KeyConditionExpression: aws.String("schedule_key = :schedule_key"),
		FilterExpression:       aws.String("#status = :scheduled"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":schedule_key": &types.AttributeValueMemberS{Value: scheduleKey},
			":scheduled":    &types.AttributeValueMemberS{Value: string(domain.JobStatusScheduled)},
		},
	})

	if err != nil {
		r.logger.Error("failed to query pending jobs", logger.Error(err))
		return 0, fmt.Errorf("failed to query pending jobs: %w", err)
	}

	deleted := 0
	for _, item := range result.Items {
		var job domain.ScheduledJob
		if err := attributevalue.UnmarshalMap(item, &job); err != nil {
			r.logger.Warn("failed to unmarshal pending job", logger.Error(err))
			continue
		}

		if err := r.Delete(ctx, job.JobID); err != nil {
			r.logger.Warn("failed to delete pending job",
				logger.String("job_id", job.JobID),
				logger.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		r.logger.Info("discarded pending job instances",
			logger.String("schedule_key", scheduleKey),
			logger.Int("count", deleted))
	}

	return deleted, nil
}
